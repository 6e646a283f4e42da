package podcast

import "errors"

// Common podcast pipeline errors
var (
	// ErrGenerationInFlight indicates episode generation was requested
	// for a deck whose pipeline is already scripting or synthesizing.
	// API layer should map this to HTTP 409 Conflict.
	ErrGenerationInFlight = errors.New("episode generation already in progress")

	// ErrNoAudioLoaded indicates playback or download was requested
	// before any episode audio was synthesized for the deck.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoAudioLoaded = errors.New("no episode audio loaded for deck")
)
