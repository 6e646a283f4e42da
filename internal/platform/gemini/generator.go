package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/config"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
)

// Speaker names used in dialogue scripts and their assigned prebuilt
// voices. The script prompt and the speech config must agree on these.
const (
	speakerHost   = "Alice"
	speakerGuest  = "Bob"
	voiceHost     = "Aoede"
	voiceGuest    = "Fenrir"
	voiceSingle   = "Zephyr"
	pcmSampleRate = 24000
)

// Generator implements the generation interfaces against the Gemini
// REST API. A single Generator backs card filling, deck generation,
// script writing and speech synthesis.
type Generator struct {
	client      *Client
	textModel   string
	speechModel string
	logger      *slog.Logger
}

// Compile-time interface checks.
var (
	_ generation.CardFiller        = (*Generator)(nil)
	_ generation.DeckGenerator     = (*Generator)(nil)
	_ generation.ScriptWriter      = (*Generator)(nil)
	_ generation.SpeechSynthesizer = (*Generator)(nil)
)

// NewGenerator creates a Generator from LLM configuration.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig, opts ...ClientOption) (*Generator, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.TextModel == "" || cfg.SpeechModel == "" {
		return nil, fmt.Errorf("%w: model names cannot be empty", generation.ErrInvalidConfig)
	}

	retry := RetryConfig{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelaySeconds) * time.Second,
	}
	clientOpts := append([]ClientOption{WithRetryConfig(retry)}, opts...)

	client, err := NewClient(cfg.BaseURL, cfg.APIKey, logger, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		textModel:   cfg.TextModel,
		speechModel: cfg.SpeechModel,
		logger:      logger,
	}, nil
}

// FillCard asks the model to complete a card's remaining fields from
// its front text. The phonetic transcription is normalized to lower
// case before being returned.
func (g *Generator) FillCard(ctx context.Context, front string) (*generation.CardFill, error) {
	if strings.TrimSpace(front) == "" {
		return nil, ErrEmptyFront
	}

	prompt := fillPrompt(front)
	text, err := g.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in fill response", generation.ErrInvalidResponse)
	}

	var fill generation.CardFill
	if err := json.Unmarshal([]byte(raw), &fill); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	fill.Phonetic = strings.ToLower(fill.Phonetic)

	g.logger.DebugContext(ctx, "filled card fields",
		"front_length", len(front),
		"term", fill.Term)
	return &fill, nil
}

// GenerateDeck creates count unscheduled cards about topic at the given
// proficiency level.
func (g *Generator) GenerateDeck(
	ctx context.Context,
	topic string,
	level domain.ProficiencyLevel,
	count int,
) ([]*domain.Card, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	if !domain.IsValidLevel(level) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, level)
	}
	if count <= 0 {
		count = domain.DefaultGeneratedDeckSize
	}

	text, err := g.generateText(ctx, deckPrompt(topic, level, count))
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in deck response", generation.ErrInvalidResponse)
	}

	var schema deckSchema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	if len(schema.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in deck response", generation.ErrInvalidResponse)
	}

	cards := make([]*domain.Card, 0, len(schema.Cards))
	for i, cs := range schema.Cards {
		if cs.Front == "" || cs.Term == "" {
			return nil, fmt.Errorf("%w: card %d missing front or term",
				generation.ErrInvalidResponse, i)
		}
		card, err := domain.NewCard(cs.Front, cs.Term)
		if err != nil {
			return nil, fmt.Errorf("failed to create card: %w", err)
		}
		card.FrontTranslation = cs.Translation
		card.TermTranslation = cs.TermTranslation
		card.Phonetic = strings.ToLower(cs.Phonetic)
		card.Back.Sentence = cs.Sentence
		card.Back.SentenceTranslation = cs.SentenceTranslation
		cards = append(cards, card)
	}

	g.logger.InfoContext(ctx, "generated deck",
		"topic", topic,
		"level", string(level),
		"card_count", len(cards))
	return cards, nil
}

// WriteScript produces a two-host dialogue covering the given cards'
// terms, pitched at the given proficiency level.
func (g *Generator) WriteScript(
	ctx context.Context,
	cards []*domain.Card,
	level domain.ProficiencyLevel,
) (string, error) {
	if len(cards) == 0 {
		return "", generation.ErrEmptyDeck
	}
	if !domain.IsValidLevel(level) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLevel, level)
	}

	terms := make([]string, 0, len(cards))
	for _, c := range cards {
		terms = append(terms, c.Term)
	}

	script, err := g.generateText(ctx, scriptPrompt(terms, level))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("%w: empty script", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "wrote episode script",
		"term_count", len(terms),
		"level", string(level),
		"script_length", len(script))
	return script, nil
}

// SynthesizeDialogue renders a two-speaker script as raw PCM, with one
// voice per host.
func (g *Generator) SynthesizeDialogue(ctx context.Context, script string) ([]byte, error) {
	if strings.TrimSpace(script) == "" {
		return nil, ErrEmptyScript
	}

	req := &generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: "TTS the following conversation between " + speakerHost + " and " + speakerGuest + ":\n\n" + script}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				MultiSpeakerVoiceConfig: &multiSpeakerVoiceConfig{
					SpeakerVoiceConfigs: []speakerVoiceConfig{
						{
							Speaker:     speakerHost,
							VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceHost}},
						},
						{
							Speaker:     speakerGuest,
							VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceGuest}},
						},
					},
				},
			},
		},
	}

	resp, err := g.client.GenerateContent(ctx, g.speechModel, req)
	if err != nil {
		return nil, err
	}
	return firstAudio(resp)
}

// SynthesizeTerm renders a single term in one voice.
func (g *Generator) SynthesizeTerm(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyScript
	}

	req := &generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: "Say clearly, at a natural learner-friendly pace: " + text}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: &voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceSingle},
				},
			},
		},
	}

	resp, err := g.client.GenerateContent(ctx, g.speechModel, req)
	if err != nil {
		return nil, err
	}
	return firstAudio(resp)
}

// SampleRate reports the PCM rate of synthesized audio.
func (g *Generator) SampleRate() int { return pcmSampleRate }

// generateText runs a plain text prompt against the text model.
func (g *Generator) generateText(ctx context.Context, prompt string) (string, error) {
	req := &generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
	}
	resp, err := g.client.GenerateContent(ctx, g.textModel, req)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}
