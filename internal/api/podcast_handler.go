package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lincolndiasramos-coder/linkards-api/internal/api/middleware"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/shared"
	"github.com/lincolndiasramos-coder/linkards-api/internal/audio"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/logger"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/podcast"
)

// PodcastHandler handles episode generation and playback requests.
type PodcastHandler struct {
	manager *podcast.Manager
	logger  *slog.Logger
}

// NewPodcastHandler creates a new PodcastHandler.
func NewPodcastHandler(manager *podcast.Manager, logger *slog.Logger) *PodcastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PodcastHandler{
		manager: manager,
		logger:  logger.With(slog.String("component", "podcast_handler")),
	}
}

// Generate handles POST /decks/{deckName}/episode requests. Generation
// runs in the background; the 202 means the work was accepted, not that
// an episode exists. Clients poll Status for progress.
func (h *PodcastHandler) Generate(w http.ResponseWriter, r *http.Request) {
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

	var req GenerateEpisodeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	level := domain.ProficiencyLevel(req.Level)
	err := h.manager.RequestGeneration(r.Context(), profileID, deckName, level)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to start episode generation", err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("episode generation accepted",
		slog.String("profile_id", profileID.String()),
		slog.String("deck", deckName))
	shared.RespondWithJSON(w, r, http.StatusAccepted, h.manager.Status(profileID, deckName))
}

// Status handles GET /decks/{deckName}/episode requests, reporting the
// pipeline state for the deck.
func (h *PodcastHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	shared.RespondWithJSON(w, r, http.StatusOK, h.manager.Status(profileID, deckName))
}

// Play handles POST /decks/{deckName}/episode/play requests. When no
// audio is loaded it resynthesizes the cached script first, so this call
// can take as long as a synthesis round trip.
func (h *PodcastHandler) Play(w http.ResponseWriter, r *http.Request) {
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

	if err := h.manager.Play(r.Context(), profileID, deckName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to play episode", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.manager.Status(profileID, deckName))
}

// Audio handles GET /decks/{deckName}/episode/audio requests, streaming
// the loaded episode as a downloadable WAV file.
func (h *PodcastHandler) Audio(w http.ResponseWriter, r *http.Request) {
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

	wav, level, err := h.manager.Audio(profileID, deckName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "No episode audio available", err)
		return
	}

	filename := podcast.DownloadFilename(deckName, level)
	w.Header().Set("Content-Type", audio.ContentTypeWAV)
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wav); err != nil {
		h.logger.Error("failed to write episode audio", "error", err)
	}
}

// Delete handles DELETE /decks/{deckName}/episode requests, dropping the
// cached episode and resetting the pipeline.
func (h *PodcastHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.manager.DeleteEpisode(r.Context(), profileID, deckName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to delete episode", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
