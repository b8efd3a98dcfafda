// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/pkg/types"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>기획재정부 보도자료</title>
  <item>
    <title> 기준금리 동결 발표 </title>
    <link>https://www.moef.go.kr/a/1</link>
    <pubDate>Sun, 18 Oct 2026 10:00:00 +0900</pubDate>
    <description><![CDATA[<p>한국은행은   기준금리를 <b>동결</b>했다.</p>]]></description>
  </item>
  <item>
    <title>오래된 소식</title>
    <link>https://www.moef.go.kr/a/2</link>
    <pubDate>Mon, 05 Oct 2026 10:00:00 +0000</pubDate>
    <description>old</description>
  </item>
  <item>
    <title>날짜 없는 소식</title>
    <link>https://www.moef.go.kr/a/3</link>
    <description>undated</description>
  </item>
  <item>
    <title>최신 소식</title>
    <link>https://www.moef.go.kr/a/4</link>
    <pubDate>Mon, 19 Oct 2026 01:00:00 +0000</pubDate>
    <description>newest</description>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFeedReaderFetch(t *testing.T) {
	ts := feedServer(t, map[string]string{"/rss": testRSS})
	r := &FeedReader{Client: ts.Client(), Now: func() time.Time { return testNow }}

	items := r.Fetch(context.Background(), []string{ts.URL + "/rss", ts.URL + "/missing"}, 7)
	require.Len(t, items, 3)

	assert.Equal(t, "최신 소식", items[0].Title)
	assert.Equal(t, "기준금리 동결 발표", items[1].Title)
	assert.Equal(t, "날짜 없는 소식", items[2].Title)
	assert.True(t, items[2].Published.IsZero())

	assert.Equal(t, "한국은행은 기준금리를 동결했다.", items[1].Summary)
	assert.Equal(t, "기획재정부 보도자료", items[1].Source)
	assert.True(t, time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC).Equal(items[1].Published))
}

func TestFeedReaderCapsEntriesAndSummary(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`)
	for i := 0; i < 40; i++ {
		b.WriteString(`<item><title>item</title><link>https://x.test/` + string(rune('a'+i%26)) + `</link><description>` +
			strings.Repeat("가", 600) + `</description></item>`)
	}
	b.WriteString(`</channel></rss>`)
	ts := feedServer(t, map[string]string{"/rss": b.String()})

	r := &FeedReader{Client: ts.Client(), Now: func() time.Time { return testNow }}
	items := r.Fetch(context.Background(), []string{ts.URL + "/rss"}, 7)
	assert.Len(t, items, maxEntriesPerFeed)
	assert.Equal(t, maxSummaryRunes, len([]rune(items[0].Summary)))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-10-18 09:30:00", time.Date(2026, 10, 18, 0, 30, 0, 0, time.UTC), true},
		{"2026-10-18", time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC), true},
		{"2026.10.18", time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC), true},
		{"2026.10.18 10:00", time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC), true},
		{"Sun, 18 Oct 2026 10:00:00 +0000", time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), true},
		{"Sun, 18 Oct 2026 10:00:00 GMT", time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), true},
		{"어제", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestFeedURLsForCategory(t *testing.T) {
	cfg := types.SourcesConfig{
		RSSGroups: types.FeedGroups{
			"government": {
				"기획재정부": {"press": "https://moef.test/rss", "policy": "https://moef.test/policy"},
				"금융위원회": {"press": "https://fsc.test/rss"},
			},
			"news": {
				"연합뉴스": {"economy": "https://yna.test/economy", "dup": "https://fsc.test/rss"},
			},
		},
		CategoryMapping: map[types.Category]types.CategoryMapping{
			types.CategoryMacroFinance: {RSSGroups: []string{"government", "news", "unknown"}},
		},
	}

	got := FeedURLsForCategory(cfg, types.CategoryMacroFinance)
	assert.Equal(t, []string{
		"https://fsc.test/rss",
		"https://moef.test/policy",
		"https://moef.test/rss",
		"https://yna.test/economy",
	}, got)

	assert.Empty(t, FeedURLsForCategory(cfg, types.CategoryGlobalNews))
}
