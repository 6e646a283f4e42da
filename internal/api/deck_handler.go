package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/middleware"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/shared"
	"github.com/lincolndiasramos-coder/linkards-api/internal/audio"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/logger"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service"
)

// DeckHandler handles deck and card management requests.
type DeckHandler struct {
	deckService    service.DeckService
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(
	deckService service.DeckService,
	profileService service.ProfileService,
	logger *slog.Logger,
) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		deckService:    deckService,
		profileService: profileService,
		logger:         logger.With(slog.String("component", "deck_handler")),
	}
}

// deckNameParam extracts and unescapes the {deckName} URL parameter.
// Deck names are user text and routinely carry spaces.
func deckNameParam(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "deckName")
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func (h *DeckHandler) authedProfile(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return uuid.Nil, false
	}
	return profileID, true
}

// Create handles POST /decks requests.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.deckService.CreateDeck(r.Context(), profileID, req.Name); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to create deck", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DeckResponse{Name: req.Name, Cards: []*domain.Card{}})
}

// Get handles GET /decks/{deckName} requests.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	deckName, ok := deckNameParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	profile, err := h.profileService.Get(r.Context(), profileID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to get profile", err)
		return
	}
	cards, err := profile.Deck(deckName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Deck not found", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeckResponse{Name: deckName, Cards: cards})
}

// Rename handles PUT /decks/{deckName} requests.
func (h *DeckHandler) Rename(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	deckName, ok := deckNameParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	var req RenameDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.deckService.RenameDeck(r.Context(), profileID, deckName, req.NewName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to rename deck", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /decks/{deckName} requests.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	deckName, ok := deckNameParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), profileID, deckName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to delete deck", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddCard handles POST /decks/{deckName}/cards requests.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	deckName, ok := deckNameParam(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	var req AddCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	card, err := h.deckService.AddCard(r.Context(), profileID, deckName, req.Front, req.Term)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to add card", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// EditCard handles PATCH /cards/{cardID} requests. Only the fields
// present in the payload change; the edit reaches every copy of the card
// across decks.
func (h *DeckHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "cardID")

	var req EditCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	edit := service.CardEdit{
		Front:               req.Front,
		FrontTranslation:    req.FrontTranslation,
		Term:                req.Term,
		TermTranslation:     req.TermTranslation,
		Phonetic:            req.Phonetic,
		Sentence:            req.Sentence,
		SentenceTranslation: req.SentenceTranslation,
	}
	card, err := h.deckService.EditCard(r.Context(), profileID, cardID, edit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to edit card", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// RemoveCard handles DELETE /cards/{cardID} requests.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "cardID")

	if err := h.deckService.RemoveCard(r.Context(), profileID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to remove card", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FillCard handles POST /cards/{cardID}/fill requests. The model
// completes the card's empty fields from its front text; a response the
// model mangles leaves the card exactly as the user typed it.
func (h *DeckHandler) FillCard(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "cardID")

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("filling card", slog.String("card_id", cardID))

	card, err := h.deckService.FillCard(r.Context(), profileID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to fill card", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Generate handles POST /decks/generate requests, creating a whole deck
// of cards about a topic at a proficiency level.
func (h *DeckHandler) Generate(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}

	var req GenerateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	level := domain.ProficiencyLevel(req.Level)
	if !domain.IsValidLevel(level) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid proficiency level: "+req.Level)
		return
	}

	deckName, cards, err := h.deckService.GenerateDeck(
		r.Context(), profileID, req.Name, req.Topic, level, req.Count)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to generate deck", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DeckResponse{Name: deckName, Cards: cards})
}

// CardAudio handles GET /cards/{cardID}/audio requests, streaming the
// card's term and example sentence as a WAV file.
func (h *DeckHandler) CardAudio(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.authedProfile(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "cardID")

	wav, err := h.deckService.CardAudio(r.Context(), profileID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to synthesize card audio", err)
		return
	}

	w.Header().Set("Content-Type", audio.ContentTypeWAV)
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wav); err != nil {
		h.logger.Error("failed to write audio response", "error", err)
	}
}
