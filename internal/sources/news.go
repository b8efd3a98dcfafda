// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// DefaultNewsSearchURL is the Google News RSS search endpoint.
const DefaultNewsSearchURL = "https://news.google.com/rss/search"

const maxSnippetRunes = 300

// SearchResult is one news search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// NewsSearcher queries Google News through its RSS search feed.
type NewsSearcher struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Limiter   *HostLimiter
	Resolver  *Resolver
	Logger    *zap.Logger
}

// Search returns up to max results for query in Korean-language news.
// Google News links are resolved to publisher URLs where possible.
func (n *NewsSearcher) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if max <= 0 {
		max = 5
	}

	base := n.BaseURL
	if base == "" {
		base = DefaultNewsSearchURL
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "ko")
	params.Set("gl", "KR")
	params.Set("ceid", "KR:ko")

	ua := n.UserAgent
	if ua == "" {
		ua = browserUserAgent
	}
	resp, err := get(ctx, n.Client, n.Limiter, ua, base+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("news search %q: %w", query, err)
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news search %q: parsing feed: %w", query, err)
	}

	entries := feed.Items
	if len(entries) > max {
		entries = entries[:max]
	}

	links := make([]string, len(entries))
	for i, e := range entries {
		links[i] = e.Link
	}
	if n.Resolver != nil {
		links = n.Resolver.ResolveAll(ctx, links)
	}

	results := make([]SearchResult, 0, len(entries))
	for i, e := range entries {
		results = append(results, SearchResult{
			Title:   strings.TrimSpace(e.Title),
			URL:     links[i],
			Snippet: Truncate(CleanHTML(e.Description), maxSnippetRunes),
		})
	}

	n.logger().Debug("news search", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

func (n *NewsSearcher) logger() *zap.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return zap.NewNop()
}
