package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when content generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrAttemptsExhausted is returned when every retry attempt against the
	// upstream service has failed
	ErrAttemptsExhausted = errors.New("all generation attempts exhausted")

	// ErrEmptyDeck is returned when episode generation is requested for a
	// deck with no cards
	ErrEmptyDeck = errors.New("deck has no cards to generate from")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during content generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
