// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultResolveWorkers bounds concurrent link decoding.
const DefaultResolveWorkers = 10

const googleNewsArticlePath = "news.google.com/rss/articles/"

// IsGoogleNewsLink reports whether u is a Google News RSS article redirect.
func IsGoogleNewsLink(u string) bool {
	return strings.Contains(u, googleNewsArticlePath)
}

// DecodeGoogleNewsLink extracts the publisher URL embedded in a Google News
// article link. The last path segment is base64url-encoded protobuf; the
// URL is the printable run starting at "http". It reports false when no URL
// is embedded, as with the newer opaque article ids.
func DecodeGoogleNewsLink(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := strings.TrimRight(segs[len(segs)-1], "=")
	if id == "" {
		return "", false
	}

	// DecodeString returns the bytes decoded before any malformed tail.
	raw, _ := base64.RawURLEncoding.DecodeString(id)
	start := strings.Index(string(raw), "http")
	if start < 0 {
		return "", false
	}
	end := start
	for end < len(raw) && raw[end] > 0x20 && raw[end] < 0x7f {
		end++
	}
	decoded := string(raw[start:end])
	if _, err := url.ParseRequestURI(decoded); err != nil {
		return "", false
	}
	return decoded, true
}

// Resolver turns Google News links into publisher URLs.
type Resolver struct {
	// Client, when set, is used to fetch article pages whose links carry no
	// embedded URL. The page's data-n-au attribute names the publisher URL.
	Client  *http.Client
	Limiter *HostLimiter
	Logger  *zap.Logger
	Workers int
}

// ResolveAll returns links with every Google News link replaced by its
// publisher URL. Links that cannot be decoded are returned unchanged.
func (r *Resolver) ResolveAll(ctx context.Context, links []string) []string {
	out := make([]string, len(links))
	copy(out, links)

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultResolveWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	pending := 0
	for i, link := range links {
		if !IsGoogleNewsLink(link) {
			continue
		}
		pending++
		g.Go(func() error {
			if resolved, ok := r.resolve(ctx, link); ok {
				out[i] = resolved
			}
			return nil
		})
	}
	g.Wait()

	if pending > 0 {
		decoded := 0
		for i := range links {
			if out[i] != links[i] {
				decoded++
			}
		}
		r.logger().Debug("google news links decoded", zap.Int("decoded", decoded), zap.Int("total", pending))
	}
	return out
}

func (r *Resolver) resolve(ctx context.Context, link string) (string, bool) {
	if u, ok := DecodeGoogleNewsLink(link); ok {
		return u, true
	}
	if r.Client == nil {
		return "", false
	}

	resp, err := get(ctx, r.Client, r.Limiter, browserUserAgent, link)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false
	}
	au, ok := doc.Find("[data-n-au]").First().Attr("data-n-au")
	if !ok || !strings.HasPrefix(au, "http") {
		return "", false
	}
	return au, true
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}
