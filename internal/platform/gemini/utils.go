package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
)

// ExtractJSON slices the substring between the first '{' and the last
// '}' of s. Models often wrap JSON answers in prose or code fences;
// this recovers the object without attempting to parse the wrapper.
// It returns ok=false when no such slice exists.
func ExtractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// firstText returns the text of the first part of the first candidate,
// failing closed when the response carries none.
func firstText(resp *generateResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidResponse, ErrNoCandidates)
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text part in candidate", generation.ErrInvalidResponse)
}

// firstAudio returns the decoded inline audio payload of the first
// candidate, failing closed when the response carries none.
func firstAudio(resp *generateResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, ErrNoCandidates)
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to decode audio payload: %v",
					generation.ErrInvalidResponse, err)
			}
			return pcm, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, ErrNoAudio)
}
