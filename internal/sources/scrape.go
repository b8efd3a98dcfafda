// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/korean"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// DefaultMaxPressReleases is the listing size read per agency.
const DefaultMaxPressReleases = 15

const (
	maxArticleRunes  = 3000
	maxFallbackRunes = 2000
)

// contentSelectors are tried in order when extracting an article body.
var contentSelectors = []string{
	"div.board_view_con",
	"div.view_con",
	"div.bbs_detail",
	"div#content",
	"article",
	"div.content",
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// ScrapedItem is one row of a press-release listing.
type ScrapedItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Date   string `json:"date,omitempty"`
	Source string `json:"source"`

	// Snippet is the start of the release body, when it was fetched.
	Snippet string `json:"snippet,omitempty"`
}

// Scraper reads government press-release listings that publish no feed.
type Scraper struct {
	Targets map[string]types.ScrapeTarget
	Client  *http.Client
	Limiter *HostLimiter
	Logger  *zap.Logger

	// UserAgent defaults to a desktop browser string; several agency sites
	// refuse anything else.
	UserAgent string
}

// PressReleases scrapes up to max rows from the agency's listing. An agency
// without a configured target yields no items and no error.
func (s *Scraper) PressReleases(ctx context.Context, agency string, max int) ([]ScrapedItem, error) {
	target, ok := s.Targets[agency]
	if !ok {
		s.logger().Debug("no scrape target", zap.String("agency", agency))
		return nil, nil
	}
	if max <= 0 {
		max = DefaultMaxPressReleases
	}

	doc, err := s.document(ctx, target.URL, target.Encoding)
	if err != nil {
		return nil, fmt.Errorf("scraping %s: %w", agency, err)
	}

	base := target.BaseURL
	if base == "" {
		base = target.URL
	}

	var items []ScrapedItem
	doc.Find(target.ListSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= max {
			return false
		}
		link := row.Find(target.TitleSelector).First()
		title := strings.TrimSpace(link.Text())
		if link.Length() == 0 || title == "" {
			return true
		}
		href, _ := link.Attr("href")

		var date string
		if target.DateSelector != "" {
			date = strings.TrimSpace(row.Find(target.DateSelector).First().Text())
		}

		items = append(items, ScrapedItem{
			Title:  title,
			URL:    resolveHref(base, href),
			Date:   date,
			Source: agency,
		})
		return true
	})

	s.logger().Debug("press releases scraped", zap.String("agency", agency), zap.Int("items", len(items)))
	return items, nil
}

// ArticleText fetches a page and returns its main text. It returns "" when
// the page cannot be fetched or parsed.
func (s *Scraper) ArticleText(ctx context.Context, pageURL string) string {
	doc, err := s.document(ctx, pageURL, "")
	if err != nil {
		s.logger().Warn("article fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}

	for _, sel := range contentSelectors {
		content := doc.Find(sel).First()
		if content.Length() == 0 {
			continue
		}
		text := blankLines.ReplaceAllString(nodeText(content), "\n\n")
		return Truncate(text, maxArticleRunes)
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return Truncate(nodeText(body), maxFallbackRunes)
}

func (s *Scraper) document(ctx context.Context, pageURL, encoding string) (*goquery.Document, error) {
	ua := s.UserAgent
	if ua == "" {
		ua = browserUserAgent
	}
	resp, err := get(ctx, s.Client, s.Limiter, ua, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp.Body, encoding, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// decodeBody converts the page to UTF-8. A forced encoding wins over
// detection from the Content-Type header and <meta> tags.
func decodeBody(r io.Reader, encoding, contentType string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "":
		return charset.NewReader(r, contentType)
	case "euc-kr", "euckr", "cp949", "ks_c_5601-1987":
		return korean.EUCKR.NewDecoder().Reader(r), nil
	default:
		enc, _ := charset.Lookup(encoding)
		if enc == nil {
			return nil, fmt.Errorf("unsupported encoding %q", encoding)
		}
		return enc.NewDecoder().Reader(r), nil
	}
}

// nodeText joins the trimmed text nodes under sel with newlines, skipping
// script and style elements.
func nodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

func resolveHref(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func (s *Scraper) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
