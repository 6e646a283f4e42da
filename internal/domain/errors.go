// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidCardStatus is returned when a card status is not one of the
	// four mastery levels.
	ErrInvalidCardStatus = errors.New("invalid card status")

	// ErrInvalidLevel is returned when a proficiency level tag is not valid.
	ErrInvalidLevel = errors.New("invalid proficiency level")

	// ErrDeckNotFound is returned when a named deck does not exist in a profile.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckExists is returned when creating a deck whose name is taken.
	ErrDeckExists = errors.New("deck already exists")

	// ErrAllCardsDeck is returned when an operation would mutate the
	// distinguished "All Cards" deck directly (rename or delete).
	ErrAllCardsDeck = errors.New(`the "All Cards" deck cannot be renamed or deleted`)

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
