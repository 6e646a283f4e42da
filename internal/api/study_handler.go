package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/middleware"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/shared"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service"
)

// StudyHandler handles review session requests.
type StudyHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// Session handles GET /decks/{deckName}/session requests, returning the
// due queue in deck order plus per-status return times.
func (h *StudyHandler) Session(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}
	deckName, ok := deckNameParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	session, err := h.studyService.Session(r.Context(), profileID, deckName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to build study session", err)
		return
	}

	resp := StudySessionResponse{
		DeckName:     session.DeckName,
		Queue:        session.Queue,
		RemainingNew: session.RemainingNew,
		Returns:      make([]StatusReturnResponse, 0, len(session.Returns)),
	}
	for _, sr := range session.Returns {
		resp.Returns = append(resp.Returns, StatusReturnResponse{
			Status: string(sr.Status),
			Return: sr.Return.String(),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Grade handles POST /cards/{cardID}/grade requests, applying a review
// outcome to the card. Grading the same card twice inside the pacing
// window keeps the first grade and answers 429.
func (h *StudyHandler) Grade(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}
	cardID := chi.URLParam(r, "cardID")

	var req GradeCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	card, err := h.studyService.Grade(
		r.Context(), profileID, cardID, domain.CardStatus(req.Status))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to grade card", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}
