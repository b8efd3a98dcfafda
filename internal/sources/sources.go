// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources gathers research material for a content category: RSS
// feeds, scraped government press-release listings, and Google News search
// results. A failing source is logged and skipped; collection carries on
// with whatever the other sources returned.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/blog-agents/internal/httputil"
)

// DefaultUserAgent is sent when a fetcher has no configured User-Agent.
const DefaultUserAgent = "BlogAgents/1.0 (+https://econlaw-lab.blogspot.com)"

// browserUserAgent is used for sites that reject non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const fetchRetries = 2

// NewHTTPClient returns a client with the given timeout (30s when zero).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// get issues a GET with the politeness delay and retry policy applied. The
// caller closes the body. Non-200 responses are returned as errors.
func get(ctx context.Context, client *http.Client, limiter *HostLimiter, userAgent, rawURL string) (*http.Response, error) {
	if err := limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

	resp, err := httputil.DoWithRetry(ctx, client, req, fetchRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}
