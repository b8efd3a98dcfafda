// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Collection limits.
const (
	FeedDaysBack       = 7
	KeywordSearches    = 3
	ResultsPerKeyword  = 3
	digestRSSItems     = 20
	digestPressItems   = 10
	digestSearchItems  = 10
	digestSummaryRunes = 200

	// PressBodies is how many press releases per collection have their
	// body text fetched.
	PressBodies       = 5
	pressFetchers     = 3
	pressSnippetRunes = 1000
)

// Bundle is everything collected for one category.
type Bundle struct {
	RSS    []FeedItem     `json:"rss"`
	Press  []ScrapedItem  `json:"press"`
	Search []SearchResult `json:"search"`
}

// Len returns the number of collected items.
func (b *Bundle) Len() int {
	return len(b.RSS) + len(b.Press) + len(b.Search)
}

// AddSearch appends search results not already present in the bundle.
func (b *Bundle) AddSearch(results []SearchResult) {
	seen := make(map[string]bool)
	for _, k := range b.keys() {
		seen[k] = true
	}
	for _, r := range results {
		k := dedupKey(r.URL, r.Title)
		if k != "" && seen[k] {
			continue
		}
		seen[k] = true
		b.Search = append(b.Search, r)
	}
}

func (b *Bundle) keys() []string {
	var keys []string
	for _, it := range b.RSS {
		keys = append(keys, dedupKey(it.URL, it.Title))
	}
	for _, it := range b.Press {
		keys = append(keys, dedupKey(it.URL, it.Title))
	}
	for _, it := range b.Search {
		keys = append(keys, dedupKey(it.URL, it.Title))
	}
	return keys
}

// CorpusTexts returns every retrieved fragment: titles, summaries,
// snippets, URLs and publisher names. The fact-grounding filter checks
// generated text against these.
func (b *Bundle) CorpusTexts() []string {
	var texts []string
	for _, it := range b.RSS {
		texts = append(texts, it.Title, it.Summary, it.URL, it.Source)
	}
	for _, it := range b.Press {
		texts = append(texts, it.Title, it.Snippet, it.URL, it.Date, it.Source)
	}
	for _, it := range b.Search {
		texts = append(texts, it.Title, it.Snippet, it.URL)
	}
	return lo.Compact(texts)
}

// Sources converts the bundle to typed sources for persistence.
func (b *Bundle) Sources() []types.Source {
	var out []types.Source
	for _, it := range b.RSS {
		var date string
		if !it.Published.IsZero() {
			date = it.Published.Format(time.RFC3339)
		}
		out = append(out, types.Source{
			Title: it.Title, URL: it.URL, SourceType: types.SourceRSSNews,
			Publisher: it.Source, PublishedDate: date, Snippet: it.Summary,
			RelevanceScore: types.DefaultRelevance,
		})
	}
	for _, it := range b.Press {
		out = append(out, types.Source{
			Title: it.Title, URL: it.URL, SourceType: types.SourceGovernmentPress,
			Publisher: it.Source, PublishedDate: it.Date, Snippet: it.Snippet,
			RelevanceScore: types.DefaultRelevance,
		})
	}
	out = append(out, SearchSources(b.Search)...)
	return out
}

// SearchSources converts search hits to web_search sources.
func SearchSources(results []SearchResult) []types.Source {
	return lo.Map(results, func(r SearchResult, _ int) types.Source {
		return types.Source{
			Title: r.Title, URL: r.URL, SourceType: types.SourceWebSearch,
			Publisher: "검색", Snippet: r.Snippet,
			RelevanceScore: types.DefaultRelevance,
		}
	})
}

// Collector gathers a category's material from feeds, scrapers and search.
type Collector struct {
	Config  types.SourcesConfig
	Feeds   *FeedReader
	Scraper *Scraper
	News    *NewsSearcher
	Logger  *zap.Logger
	Now     func() time.Time
}

// Collect fetches feeds, press releases and keyword searches for category
// concurrently and returns the deduplicated bundle. Individual source
// failures are logged; only context cancellation is returned as an error.
func (c *Collector) Collect(ctx context.Context, category types.Category) (*Bundle, error) {
	log := c.logger().With(zap.String("category", string(category)))
	mapping := c.Config.Mapping(category)
	var rss []FeedItem
	var press []ScrapedItem
	var search []SearchResult

	g, gctx := errgroup.WithContext(ctx)

	if c.Feeds != nil {
		g.Go(func() error {
			rss = c.Feeds.Fetch(gctx, FeedURLsForCategory(c.Config, category), FeedDaysBack)
			return nil
		})
	}

	if c.Scraper != nil {
		g.Go(func() error {
			for _, agency := range mapping.Government {
				if _, ok := c.Config.GovernmentScrape[agency]; !ok {
					continue
				}
				items, err := c.Scraper.PressReleases(gctx, agency, DefaultMaxPressReleases)
				if err != nil {
					log.Warn("scrape failed", zap.String("agency", agency), zap.Error(err))
					continue
				}
				press = append(press, items...)
			}
			return nil
		})
	}

	if c.News != nil {
		year := c.now().Year()
		g.Go(func() error {
			for _, kw := range lo.Slice(mapping.NewsKeywords, 0, KeywordSearches) {
				results, err := c.News.Search(gctx, fmt.Sprintf("%s %d", kw, year), ResultsPerKeyword)
				if err != nil {
					log.Warn("news search failed", zap.String("keyword", kw), zap.Error(err))
					continue
				}
				search = append(search, results...)
			}
			return nil
		})
	}

	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := dedupe(rss, press, search)
	c.pressBodies(ctx, b.Press)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("sources collected",
		zap.Int("rss", len(b.RSS)), zap.Int("press", len(b.Press)), zap.Int("search", len(b.Search)))
	return b, nil
}

// pressBodies fills the snippet of the first PressBodies releases from
// their pages. A page that cannot be read leaves its snippet empty.
func (c *Collector) pressBodies(ctx context.Context, items []ScrapedItem) {
	if c.Scraper == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pressFetchers)
	for i := range lo.Slice(items, 0, PressBodies) {
		if items[i].URL == "" || items[i].Snippet != "" {
			continue
		}
		g.Go(func() error {
			items[i].Snippet = Truncate(c.Scraper.ArticleText(gctx, items[i].URL), pressSnippetRunes)
			return nil
		})
	}
	g.Wait()
}

// dedupe drops items whose normalised URL (or title, for items without a
// URL) was already seen. Earlier groups win.
func dedupe(rss []FeedItem, press []ScrapedItem, search []SearchResult) *Bundle {
	seen := make(map[string]bool)
	keep := func(u, title string) bool {
		k := dedupKey(u, title)
		if k == "" {
			return true
		}
		if seen[k] {
			return false
		}
		seen[k] = true
		return true
	}
	return &Bundle{
		RSS:    lo.Filter(rss, func(it FeedItem, _ int) bool { return keep(it.URL, it.Title) }),
		Press:  lo.Filter(press, func(it ScrapedItem, _ int) bool { return keep(it.URL, it.Title) }),
		Search: lo.Filter(search, func(it SearchResult, _ int) bool { return keep(it.URL, it.Title) }),
	}
}

func dedupKey(rawURL, title string) string {
	if n := NormalizeURL(rawURL); n != "" {
		return "url:" + n
	}
	if t := strings.ToLower(strings.Join(strings.Fields(title), " ")); t != "" {
		return "title:" + t
	}
	return ""
}

// NormalizeURL lower-cases the host, drops the scheme, fragment, tracking
// parameters and trailing slash. It returns "" for an empty or unparseable
// URL.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	q := u.Query()
	for k := range q {
		if strings.HasPrefix(k, "utm_") || k == "oc" {
			q.Del(k)
		}
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	n := host + strings.TrimRight(u.EscapedPath(), "/")
	if enc := q.Encode(); enc != "" {
		n += "?" + enc
	}
	return n
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Collector) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// FormatRaw renders the bundle as the digest handed to the research model.
func FormatRaw(b *Bundle, category types.Category, keywords []string) string {
	var parts []string

	if len(b.RSS) > 0 {
		parts = append(parts, "### RSS 피드 (최근 뉴스/보도자료)")
		for _, it := range lo.Slice(b.RSS, 0, digestRSSItems) {
			date := "?"
			if !it.Published.IsZero() {
				date = it.Published.In(kst).Format("01/02")
			}
			parts = append(parts, fmt.Sprintf("- [%s] %s (%s)", date, it.Title, it.Source))
			if it.Summary != "" {
				parts = append(parts, "  요약: "+Truncate(it.Summary, digestSummaryRunes))
			}
		}
	}

	if len(b.Press) > 0 {
		parts = append(parts, "\n### 정부 보도자료")
		for _, it := range lo.Slice(b.Press, 0, digestPressItems) {
			date := it.Date
			if date == "" {
				date = "?"
			}
			parts = append(parts, fmt.Sprintf("- [%s] %s (%s)", date, it.Title, it.Source))
			if it.Snippet != "" {
				parts = append(parts, "  "+Truncate(it.Snippet, digestSummaryRunes))
			}
		}
	}

	if len(b.Search) > 0 {
		parts = append(parts, "\n### 뉴스 검색 결과")
		for _, it := range lo.Slice(b.Search, 0, digestSearchItems) {
			parts = append(parts, "- "+it.Title)
			if it.Snippet != "" {
				parts = append(parts, "  "+Truncate(it.Snippet, digestSummaryRunes))
			}
		}
	}

	parts = append(parts, "\n### 카테고리: "+category.DisplayName())
	parts = append(parts, "주요 키워드: "+strings.Join(keywords, ", "))
	return strings.Join(parts, "\n")
}
