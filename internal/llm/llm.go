// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls the language models used by the research, writer and
// editor agents. A Backend sends one request to one provider; Client adds
// retries with exponential backoff, and Structured turns a response into a
// typed value validated against the value's JSON schema.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxTokens is used when a Request leaves MaxTokens unset.
const DefaultMaxTokens = 4096

// ErrEmptyResponse is returned when a backend answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Request is one completion request.
type Request struct {
	Model     string
	System    string
	User      string
	MaxTokens int

	// JSON asks the backend for a JSON-only response where the provider
	// supports it.
	JSON bool
}

// Backend abstracts an LLM provider so tests can supply a fake.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Router sends "gemini*" models to Gemini and everything else to Claude.
type Router struct {
	Claude Backend
	Gemini Backend
}

// IsGemini reports whether model is served by the Gemini backend.
func IsGemini(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gemini")
}

func (r *Router) Name() string { return "router" }

func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	backend := r.Claude
	if IsGemini(req.Model) {
		backend = r.Gemini
	}
	if backend == nil {
		return "", fmt.Errorf("no backend configured for model %q", req.Model)
	}
	return backend.Complete(ctx, req)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Client wraps a Backend with retries.
type Client struct {
	Backend Backend

	// MaxRetries is the number of retries after the first attempt (default 2).
	MaxRetries int

	// Backoff is the delay before the first retry, doubled on each
	// further retry (default one second).
	Backoff time.Duration

	Logger *zap.Logger
}

// NewClient returns a Client over backend.
func NewClient(backend Backend, maxRetries int, logger *zap.Logger) *Client {
	return &Client{Backend: backend, MaxRetries: maxRetries, Logger: logger}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) backoff() time.Duration {
	if c.Backoff <= 0 {
		return backoffBase
	}
	return c.Backoff
}

func (c *Client) maxRetries() int {
	if c.MaxRetries <= 0 {
		return 2
	}
	return c.MaxRetries
}

// Text returns the model's text response, retrying failures and empty
// responses.
func (c *Client) Text(ctx context.Context, req Request) (string, error) {
	var out string
	err := c.retry(ctx, req.Model, func() error {
		text, err := c.complete(ctx, req)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}

func (c *Client) complete(ctx context.Context, req Request) (string, error) {
	if c.Backend == nil {
		return "", errors.New("llm client has no backend")
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	text, err := c.Backend.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// retry runs fn until it succeeds or MaxRetries retries have failed.
func (c *Client) retry(ctx context.Context, model string, fn func() error) error {
	maxRetries := c.maxRetries()
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.backoff()
			c.logger().Warn("retrying model call",
				zap.String("model", model),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
