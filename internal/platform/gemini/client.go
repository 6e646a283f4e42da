package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
)

// Doer abstracts the HTTP transport so tests can substitute a fake.
// *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SleepFunc pauses between retry attempts. Implementations must honor
// context cancellation and return the context error when interrupted.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryConfig controls the retry loop of the client.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the backoff unit. After a failed transport attempt
	// with index n (zero-based) the client sleeps BaseDelay * 2^n.
	BaseDelay time.Duration
}

// DefaultRetryConfig matches the upstream service's recommended
// client behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
	}
}

// Client is a retrying HTTP client for the generateContent endpoint.
//
// Failure handling is deliberately asymmetric: a response with a
// non-2xx status proves the service is reachable, so the client retries
// immediately, while a transport error (DNS, connect, TLS, timeout)
// backs off exponentially before the next attempt.
type Client struct {
	doer    Doer
	baseURL string
	apiKey  string
	retry   RetryConfig
	sleep   SleepFunc
	logger  *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithDoer replaces the HTTP transport. Used by tests.
func WithDoer(d Doer) ClientOption {
	return func(c *Client) { c.doer = d }
}

// WithSleep replaces the backoff sleeper. Used by tests.
func WithSleep(s SleepFunc) ClientOption {
	return func(c *Client) { c.sleep = s }
}

// WithRetryConfig overrides the retry parameters.
func WithRetryConfig(rc RetryConfig) ClientOption {
	return func(c *Client) { c.retry = rc }
}

// NewClient creates a Client for the given API base URL and key.
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}

	c := &Client{
		doer:    &http.Client{Timeout: 120 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		retry:   DefaultRetryConfig(),
		sleep:   contextSleep,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1", generation.ErrInvalidConfig)
	}
	return c, nil
}

// GenerateContent posts req to models/{model}:generateContent and
// returns the decoded response, retrying per the client's RetryConfig.
// When every attempt fails the returned error wraps
// generation.ErrAttemptsExhausted along with the last failure.
func (c *Client) GenerateContent(
	ctx context.Context,
	model string,
	req *generateRequest,
) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.doer.Do(httpReq)
		if err != nil {
			// Transport failure: the service may be unreachable,
			// so back off before trying again.
			lastErr = err
			c.logger.WarnContext(ctx, "request transport failure",
				"model", model,
				"attempt", attempt+1,
				"max_attempts", c.retry.MaxAttempts,
				"error", err)

			if attempt+1 < c.retry.MaxAttempts {
				delay := c.retry.BaseDelay * (1 << attempt)
				if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
					return nil, sleepErr
				}
			}
			continue
		}

		payload, readErr := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil && readErr == nil {
			readErr = closeErr
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// The service answered, so a fresh attempt costs nothing.
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			c.logger.WarnContext(ctx, "request rejected by service",
				"model", model,
				"attempt", attempt+1,
				"max_attempts", c.retry.MaxAttempts,
				"status", resp.StatusCode)
			continue
		}

		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			c.logger.WarnContext(ctx, "failed to read response body",
				"model", model,
				"attempt", attempt+1,
				"error", readErr)
			continue
		}

		var out generateResponse
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
		return &out, nil
	}

	return nil, fmt.Errorf("%w: %v", generation.ErrAttemptsExhausted, lastErr)
}

// contextSleep waits for d or until ctx is canceled.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
