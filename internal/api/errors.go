package api

import (
	"errors"
	"net/http"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/auth"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/podcast"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// MapErrorToStatus translates service and store errors into HTTP status
// codes. Unknown errors map to 500 so nothing internal leaks by default.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrDeckNotFound),
		errors.Is(err, podcast.ErrNoAudioLoaded):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrDeckExists),
		errors.Is(err, podcast.ErrGenerationInFlight):
		return http.StatusConflict

	case errors.Is(err, service.ErrGradeTooSoon):
		return http.StatusTooManyRequests

	case errors.Is(err, auth.ErrInvalidPasskey),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, generation.ErrEmptyDeck):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrAttemptsExhausted),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCardStatus),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrAllCardsDeck),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
