package generation

import (
	"context"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// CardFill holds the fields an LLM produces for a card from its front
// text alone. A nil CardFill (with a nil error) is never returned;
// callers decide which non-empty fields overwrite the card.
type CardFill struct {
	FrontTranslation    string `json:"translation"`
	Term                string `json:"term"`
	TermTranslation     string `json:"termTranslation"`
	Phonetic            string `json:"phonetic"`
	Sentence            string `json:"sentence"`
	SentenceTranslation string `json:"sentenceTranslation"`
}

// CardFiller completes the remaining fields of a card given its front
// text. This backs the single-card "magic fill" operation.
type CardFiller interface {
	// FillCard derives translations, the key term, its phonetic
	// transcription and an example sentence from the card front.
	FillCard(ctx context.Context, front string) (*CardFill, error)
}

// DeckGenerator produces a complete set of new cards for a topic at a
// target proficiency level.
type DeckGenerator interface {
	// GenerateDeck creates count cards about topic, pitched at level.
	// The returned cards are unscheduled and carry status "new".
	GenerateDeck(
		ctx context.Context,
		topic string,
		level domain.ProficiencyLevel,
		count int,
	) ([]*domain.Card, error)
}

// ScriptWriter turns a selection of study terms into a two-host podcast
// dialogue script.
type ScriptWriter interface {
	// WriteScript produces a plain-text dialogue covering the given
	// cards' terms, pitched at level.
	WriteScript(ctx context.Context, cards []*domain.Card, level domain.ProficiencyLevel) (string, error)
}

// SpeechSynthesizer converts text into raw audio samples. Both methods
// return headerless little-endian 16-bit mono PCM at the rate reported
// by SampleRate.
type SpeechSynthesizer interface {
	// SynthesizeDialogue renders a two-speaker script with a distinct
	// voice per host.
	SynthesizeDialogue(ctx context.Context, script string) ([]byte, error)

	// SynthesizeTerm renders a single term (with its example sentence)
	// in one voice, for per-card pronunciation playback.
	SynthesizeTerm(ctx context.Context, text string) ([]byte, error)

	// SampleRate reports the PCM sample rate of synthesized audio.
	SampleRate() int
}
