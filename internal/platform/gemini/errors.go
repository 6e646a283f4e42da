package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyFront is returned when card filling is requested with no front text.
	ErrEmptyFront = errors.New("card front cannot be empty")

	// ErrEmptyTopic is returned when deck generation is requested with no topic.
	ErrEmptyTopic = errors.New("deck topic cannot be empty")

	// ErrEmptyScript is returned when speech synthesis is requested with no text.
	ErrEmptyScript = errors.New("script cannot be empty")

	// ErrNoCandidates is returned when the API responds without any candidates.
	ErrNoCandidates = errors.New("response contains no candidates")

	// ErrNoAudio is returned when a speech request yields no inline audio data.
	ErrNoAudio = errors.New("response contains no audio data")
)
