package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrGradeTooSoon indicates a card was graded again before the pacing
	// window elapsed. The first grade stands; the second is rejected.
	// API layer should map this to HTTP 429 Too Many Requests.
	ErrGradeTooSoon = errors.New("card graded again too soon")
)
