// Package podcast implements the episode generation pipeline: selecting
// study terms from a deck, writing a two-host dialogue script, and
// synthesizing it into audio. Each (profile, deck) pair owns one
// pipeline whose state doubles as the concurrency guard: a deck that is
// scripting or synthesizing rejects a second generation request instead
// of queueing it.
package podcast

// State is the lifecycle phase of a deck's episode pipeline.
type State string

// Pipeline states. Busy states (scripting, synthesizing) reject new
// generation requests for the same deck.
const (
	// StateIdle means no episode work has happened for the deck.
	StateIdle State = "idle"

	// StateScripting means the dialogue script is being generated.
	StateScripting State = "scripting"

	// StateSynthesizing means the script is being rendered to audio.
	StateSynthesizing State = "synthesizing"

	// StatePlaying means synthesized audio is loaded and playback has
	// been started.
	StatePlaying State = "playing"

	// StateSaved means the episode script is cached and audio, when
	// loaded, is ready to play.
	StateSaved State = "saved"

	// StateError means the last generation attempt failed; see the
	// pipeline's error message.
	StateError State = "error"
)

// Busy reports whether the state blocks a new generation request.
func (s State) Busy() bool {
	return s == StateScripting || s == StateSynthesizing
}
