package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDoer replays a fixed sequence of responses or errors.
type scriptedDoer struct {
	steps []func() (*http.Response, error)
	calls int
}

func (d *scriptedDoer) Do(_ *http.Request) (*http.Response, error) {
	step := d.steps[d.calls%len(d.steps)]
	d.calls++
	return step()
}

func okResponse(body string) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func statusResponse(code int) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Body:       io.NopCloser(strings.NewReader("{}")),
		}, nil
	}
}

func transportFailure() (*http.Response, error) {
	return nil, errors.New("connection refused")
}

// recordingSleeper captures every delay without actually sleeping.
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newTestClient(t *testing.T, doer Doer, sleeper SleepFunc) *Client {
	t.Helper()
	c, err := NewClient(
		"https://example.invalid/v1beta",
		"test-key",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithDoer(doer),
		WithSleep(sleeper),
	)
	require.NoError(t, err)
	return c
}

func TestGenerateContentSucceedsOnFifthAttempt(t *testing.T) {
	t.Parallel()

	doer := &scriptedDoer{steps: []func() (*http.Response, error){
		transportFailure,
		transportFailure,
		transportFailure,
		transportFailure,
		okResponse(`{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`),
	}}
	sleeper := &recordingSleeper{}
	c := newTestClient(t, doer, sleeper.sleep)

	resp, err := c.GenerateContent(context.Background(), "test-model", &generateRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "hello", resp.Candidates[0].Content.Parts[0].Text)

	assert.Equal(t, 5, doer.calls)
	assert.Equal(t,
		[]time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second},
		sleeper.delays,
		"backoff must double per failed transport attempt")
}

func TestGenerateContentExhaustsTransportFailures(t *testing.T) {
	t.Parallel()

	doer := &scriptedDoer{steps: []func() (*http.Response, error){transportFailure}}
	sleeper := &recordingSleeper{}
	c := newTestClient(t, doer, sleeper.sleep)

	_, err := c.GenerateContent(context.Background(), "test-model", &generateRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrAttemptsExhausted)

	assert.Equal(t, 5, doer.calls)
	// No sleep after the final attempt.
	require.Len(t, sleeper.delays, 4)
	var total time.Duration
	for _, d := range sleeper.delays {
		total += d
	}
	assert.Equal(t, 15*time.Second, total)
}

func TestGenerateContentRetriesRejectionsWithoutBackoff(t *testing.T) {
	t.Parallel()

	doer := &scriptedDoer{steps: []func() (*http.Response, error){
		statusResponse(http.StatusServiceUnavailable),
		statusResponse(http.StatusTooManyRequests),
		okResponse(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`),
	}}
	sleeper := &recordingSleeper{}
	c := newTestClient(t, doer, sleeper.sleep)

	_, err := c.GenerateContent(context.Background(), "test-model", &generateRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, doer.calls)
	assert.Empty(t, sleeper.delays, "status rejections must retry immediately")
}

func TestGenerateContentStopsWhenSleepCanceled(t *testing.T) {
	t.Parallel()

	doer := &scriptedDoer{steps: []func() (*http.Response, error){transportFailure}}
	c := newTestClient(t, doer, func(_ context.Context, _ time.Duration) error {
		return context.Canceled
	})

	_, err := c.GenerateContent(context.Background(), "test-model", &generateRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, doer.calls)
}

func TestGenerateContentRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	doer := &scriptedDoer{steps: []func() (*http.Response, error){okResponse("not json")}}
	sleeper := &recordingSleeper{}
	c := newTestClient(t, doer, sleeper.sleep)

	_, err := c.GenerateContent(context.Background(), "test-model", &generateRequest{})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewClient("", "key", logger)
	assert.Error(t, err)

	_, err = NewClient("https://example.invalid", "", logger)
	assert.Error(t, err)

	_, err = NewClient("https://example.invalid", "key", nil)
	assert.Error(t, err)

	_, err = NewClient("https://example.invalid", "key", logger,
		WithRetryConfig(RetryConfig{MaxAttempts: 0}))
	assert.Error(t, err)
}
