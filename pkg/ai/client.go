package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const (
	DefaultMaxRetries     = 3
	DefaultRateLimitDelay = time.Second
)

// Backend performs a single generateContent attempt.
//
// A non-200 reply must be reported as a *StatusError; any other error is
// treated as a transport failure.
type Backend interface {
	GenerateContent(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error)
}

// StatusError is a non-200 reply from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ClientOptions configures a Client.
type ClientOptions struct {
	Model          string
	MaxRetries     int
	RateLimitDelay time.Duration
	Logger         *slog.Logger
	Sleep          Sleeper
}

// Client sends prompts with bounded retries and classifies the result.
type Client struct {
	backend        Backend
	model          string
	maxRetries     int
	rateLimitDelay time.Duration
	logger         *slog.Logger
	sleep          Sleeper
}

// NewClient creates a client on top of backend.
func NewClient(backend Backend, opts ClientOptions) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RateLimitDelay < 0 {
		opts.RateLimitDelay = DefaultRateLimitDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Client{
		backend:        backend,
		model:          opts.Model,
		maxRetries:     opts.MaxRetries,
		rateLimitDelay: opts.RateLimitDelay,
		logger:         opts.Logger,
		sleep:          opts.Sleep,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Send builds a request from conv and prompt, calls the backend and returns
// the classified outcome. conv is only modified on Success.
//
// 429 and transport failures are retried, waiting RateLimitDelay*(attempt+1)
// and RateLimitDelay respectively. Every other reply ends the loop.
func (c *Client) Send(ctx context.Context, conv *Conversation, prompt string) Outcome {
	req := BuildRequest(conv.Snapshot(), prompt)
	c.logger.Debug("generate_request",
		"model", c.model,
		"contents", len(req.Contents),
		"prompt_chars", utf8.RuneCountInString(prompt),
	)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		lastAttempt := attempt == c.maxRetries-1

		resp, err := c.backend.GenerateContent(ctx, c.model, req)
		if err == nil {
			outcome := Interpret(resp, prompt, conv)
			c.logger.Debug("generate_done", "attempt", attempt+1, "outcome", Kind(outcome))
			return outcome
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case http.StatusNotFound:
				c.logger.Warn("generate_model_not_found", "model", c.model)
				return ModelNotFound{Model: c.model}
			case http.StatusTooManyRequests:
				if lastAttempt {
					c.logger.Warn("generate_rate_limited", "attempts", attempt+1)
					return RateLimited{Attempts: attempt + 1}
				}
				delay := c.rateLimitDelay * time.Duration(attempt+1)
				c.logger.Info("generate_retry", "attempt", attempt+1, "reason", "rate_limited", "delay", delay)
				if err := c.sleep(ctx, delay); err != nil {
					return NetworkError{Err: err}
				}
				continue
			default:
				c.logger.Error("generate_http_error",
					"status_code", statusErr.StatusCode,
					"response_preview", preview(statusErr.Body, 200),
				)
				return HTTPError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
			}
		}

		if ctx.Err() != nil {
			return NetworkError{Err: err}
		}
		if lastAttempt {
			c.logger.Error("generate_network_error", "attempts", attempt+1, "error", err)
			return NetworkError{Err: err}
		}
		c.logger.Info("generate_retry", "attempt", attempt+1, "reason", "network", "error", err, "delay", c.rateLimitDelay)
		if err := c.sleep(ctx, c.rateLimitDelay); err != nil {
			return NetworkError{Err: err}
		}
	}

	return Unexpected{}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// preview shortens s to at most n cells for log output without splitting runes.
func preview(s string, n int) string {
	return runewidth.Truncate(s, n, "...")
}
