// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/pkg/types"
)

const (
	maxEntriesPerFeed = 30
	maxSummaryRunes   = 500
)

// FeedItem is one entry of an RSS or Atom feed.
type FeedItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// Published is zero when the feed gave no parseable date.
	Published time.Time `json:"published,omitempty"`

	Summary string `json:"summary"`
	Source  string `json:"source"`
}

// FeedReader fetches and parses feeds.
type FeedReader struct {
	Client    *http.Client
	UserAgent string
	Limiter   *HostLimiter
	Logger    *zap.Logger
	Now       func() time.Time
}

// Fetch reads every feed in urls and returns the entries published within
// the last daysBack days, newest first. Undated entries are kept and sort
// last. A feed that fails is logged and skipped.
func (r *FeedReader) Fetch(ctx context.Context, urls []string, daysBack int) []FeedItem {
	log := r.logger()
	cutoff := r.now().AddDate(0, 0, -daysBack)

	var all []FeedItem
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		items, err := r.fetchOne(ctx, u, cutoff)
		if err != nil {
			log.Warn("feed failed", zap.String("url", u), zap.Error(err))
			continue
		}
		log.Debug("feed read", zap.String("url", u), zap.Int("items", len(items)))
		all = append(all, items...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Published, all[j].Published
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
	return all
}

func (r *FeedReader) fetchOne(ctx context.Context, url string, cutoff time.Time) ([]FeedItem, error) {
	resp, err := get(ctx, r.Client, r.Limiter, r.UserAgent, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Unknown"
	}

	entries := feed.Items
	if len(entries) > maxEntriesPerFeed {
		entries = entries[:maxEntriesPerFeed]
	}

	var items []FeedItem
	for _, e := range entries {
		published := itemDate(e)
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}
		summary := e.Description
		if summary == "" {
			summary = e.Content
		}
		items = append(items, FeedItem{
			Title:     strings.TrimSpace(e.Title),
			URL:       e.Link,
			Published: published,
			Summary:   Truncate(CleanHTML(summary), maxSummaryRunes),
			Source:    source,
		})
	}
	return items, nil
}

// itemDate prefers gofeed's parsed dates and falls back to the Korean
// government formats gofeed does not know.
func itemDate(e *gofeed.Item) time.Time {
	if e.PublishedParsed != nil {
		return e.PublishedParsed.UTC()
	}
	if e.UpdatedParsed != nil {
		return e.UpdatedParsed.UTC()
	}
	raw := e.Published
	if raw == "" {
		raw = e.Updated
	}
	t, _ := ParseDate(raw)
	return t
}

func (r *FeedReader) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *FeedReader) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

// FeedURLsForCategory flattens the feed URLs of the groups mapped to
// category. Groups keep their mapping order; publishers and feed names are
// visited in sorted order. Duplicate URLs are dropped.
func FeedURLsForCategory(cfg types.SourcesConfig, category types.Category) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, group := range cfg.Mapping(category).RSSGroups {
		publishers := cfg.RSSGroups[group]
		for _, pub := range sortedKeys(publishers) {
			feeds := publishers[pub]
			for _, name := range sortedKeys(feeds) {
				u := strings.TrimSpace(feeds[name])
				if u == "" || seen[u] {
					continue
				}
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
