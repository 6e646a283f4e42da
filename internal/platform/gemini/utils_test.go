package gemini

import (
	"encoding/base64"
	"testing"

	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"term":"hello"}`,
			want:  `{"term":"hello"}`,
			ok:    true,
		},
		{
			name:  "code fence wrapper",
			input: "```json\n{\"term\":\"hello\"}\n```",
			want:  `{"term":"hello"}`,
			ok:    true,
		},
		{
			name:  "prose around object",
			input: `Sure! Here is the card: {"term":"hello"} Hope that helps.`,
			want:  `{"term":"hello"}`,
			ok:    true,
		},
		{
			name:  "no braces",
			input: "I could not produce a card for that.",
			ok:    false,
		},
		{
			name:  "only opening brace",
			input: "{ unterminated",
			ok:    false,
		},
		{
			name:  "closing before opening",
			input: "} nothing here {",
			ok:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFirstTextFailsClosed(t *testing.T) {
	t.Parallel()

	_, err := firstText(nil)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = firstText(&generateResponse{})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	_, err = firstText(&generateResponse{Candidates: []candidate{{}}})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	got, err := firstText(&generateResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{Text: "hi"}}},
	}}})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestFirstAudioDecodesPayload(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	resp := &generateResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{InlineData: &inlineData{
			MimeType: "audio/L16;codec=pcm;rate=24000",
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}}}},
	}}}

	got, err := firstAudio(resp)
	require.NoError(t, err)
	assert.Equal(t, pcm, got)

	_, err = firstAudio(&generateResponse{Candidates: []candidate{{}}})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	bad := &generateResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{InlineData: &inlineData{Data: "!!not base64!!"}}}},
	}}}
	_, err = firstAudio(bad)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}
