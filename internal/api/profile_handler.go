package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/api/middleware"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api/shared"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/logger"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service"
)

// ProfileHandler handles profile lifecycle and authentication requests.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger.With(slog.String("component", "profile_handler")),
	}
}

// Create handles POST /profiles requests. A fresh profile starts with an
// empty "All Cards" deck and a token so the client can proceed without a
// second login round trip.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.Create(r.Context(), req.Name, req.Passkey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to create profile", err)
		return
	}

	_, token, err := h.profileService.Authenticate(r.Context(), req.Name, req.Passkey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		ProfileID: profile.ID,
		Token:     token,
	})
}

// Login handles POST /auth/login requests.
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, token, err := h.profileService.Authenticate(r.Context(), req.Name, req.Passkey)
	if err != nil {
		status := MapErrorToStatus(err)
		if status == http.StatusUnauthorized {
			shared.RespondWithError(w, r, status, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, status, "Failed to authenticate", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ProfileID: profile.ID,
		Token:     token,
	})
}

// List handles GET /profiles requests. The listing is public so a login
// screen can offer a profile picker; it carries counters only, never
// deck contents.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to list profiles", err)
		return
	}

	summaries := make([]ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, profileToSummary(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// Get handles GET /me requests, returning the full authenticated
// profile including its decks.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}

	profile, err := h.profileService.Get(r.Context(), profileID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to get profile", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// Delete handles DELETE /me requests. Cached episodes go with the
// profile.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}

	if err := h.profileService.Delete(r.Context(), profileID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to delete profile", err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("profile deleted", slog.String("profile_id", profileID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ChangePasskey handles PATCH /me/passkey requests. The current passkey
// must be presented again; the session token alone is not enough.
func (h *ProfileHandler) ChangePasskey(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}

	var req ChangePasskeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err := h.profileService.ChangePasskey(r.Context(), profileID, req.CurrentPasskey, req.NewPasskey)
	if err != nil {
		status := MapErrorToStatus(err)
		if status == http.StatusUnauthorized {
			shared.RespondWithError(w, r, status, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, status, "Failed to change passkey", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordStudyTime handles POST /me/study-time requests, adding a
// finished session's duration to the profile's running total.
func (h *ProfileHandler) RecordStudyTime(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Profile ID not found")
		return
	}

	var req RecordStudyTimeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	d := time.Duration(req.DurationMs) * time.Millisecond
	if err := h.profileService.RecordStudyTime(r.Context(), profileID, d); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatus(err), "Failed to record study time", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
