package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/config"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		APIKey:                "test-key",
		TextModel:             "test-text-model",
		SpeechModel:           "test-speech-model",
		BaseURL:               "https://example.invalid/v1beta",
		MaxAttempts:           5,
		RetryBaseDelaySeconds: 1,
	}
}

func newTestGenerator(t *testing.T, doer Doer) *Generator {
	t.Helper()
	g, err := NewGenerator(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testLLMConfig(),
		WithDoer(doer),
		WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	require.NoError(t, err)
	return g
}

func textBody(text string) string {
	resp := generateResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{Text: text}}},
	}}}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestFillCardLowercasesPhonetic(t *testing.T) {
	t.Parallel()

	payload := "Here you go:\n```json\n" + `{
		"translation": "ele desistiu",
		"term": "give up",
		"termTranslation": "desistir",
		"phonetic": "ɡɪv ˈʌP",
		"sentence": "Don't give up now.",
		"sentenceTranslation": "Não desista agora."
	}` + "\n```"

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody(payload)),
	}})

	fill, err := g.FillCard(context.Background(), "He gave up too soon.")
	require.NoError(t, err)
	assert.Equal(t, "give up", fill.Term)
	assert.Equal(t, "ɡɪv ˈʌp", fill.Phonetic, "phonetic must be lowercased")
	assert.Equal(t, "desistir", fill.TermTranslation)
}

func TestFillCardRejectsNonJSONAnswer(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody("I cannot help with that.")),
	}})

	_, err := g.FillCard(context.Background(), "He gave up too soon.")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestFillCardRejectsEmptyFront(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody("{}")),
	}})

	_, err := g.FillCard(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyFront)
}

func TestGenerateDeckBuildsUnscheduledCards(t *testing.T) {
	t.Parallel()

	payload := `{"cards":[
		{"front":"She runs every morning.","translation":"Ela corre toda manhã.",
		 "term":"run","termTranslation":"correr","phonetic":"RˈɅN",
		 "sentence":"I run on weekends.","sentenceTranslation":"Eu corro aos fins de semana."},
		{"front":"The weather is mild.","translation":"O clima está ameno.",
		 "term":"mild","termTranslation":"ameno","phonetic":"maɪld",
		 "sentence":"A mild winter.","sentenceTranslation":"Um inverno ameno."}
	]}`

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody(payload)),
	}})

	cards, err := g.GenerateDeck(context.Background(), "daily routines", domain.LevelBeginner, 2)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	for _, c := range cards {
		assert.Equal(t, domain.CardStatusNew, c.Status)
		assert.Zero(t, c.NextReviewAt)
		assert.NotEmpty(t, c.Back.ContextLinks)
	}
	assert.Equal(t, "rˈʌn", cards[0].Phonetic)
}

func TestGenerateDeckRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody("{}")),
	}})

	_, err := g.GenerateDeck(context.Background(), "", domain.LevelBeginner, 5)
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = g.GenerateDeck(context.Background(), "travel", domain.ProficiencyLevel("Z9"), 5)
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)
}

func TestWriteScriptRequiresCards(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(textBody("Alice: hello")),
	}})

	_, err := g.WriteScript(context.Background(), nil, domain.LevelBeginner)
	assert.ErrorIs(t, err, generation.ErrEmptyDeck)
}

func TestSynthesizeTermReturnsPCM(t *testing.T) {
	t.Parallel()

	pcm := []byte{9, 8, 7, 6}
	resp := generateResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{InlineData: &inlineData{
			MimeType: "audio/L16;codec=pcm;rate=24000",
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}}}},
	}}}
	body, _ := json.Marshal(resp)

	g := newTestGenerator(t, &scriptedDoer{steps: []func() (*http.Response, error){
		okResponse(string(body)),
	}})

	got, err := g.SynthesizeTerm(context.Background(), "give up")
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
	assert.Equal(t, 24000, g.SampleRate())
}
