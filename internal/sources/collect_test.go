// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func TestCollect(t *testing.T) {
	var searched []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>금융위원회</title>
<item><title>가계부채 관리 방안</title><link>https://fsc.test/news/1</link><pubDate>Mon, 19 Oct 2026 01:00:00 +0000</pubDate><description>요약</description></item>
</channel></rss>`)
		case "/list":
			fmt.Fprint(w, `<ul><li><a href="https://fsc.test/news/1/">가계부채 관리 방안</a><span>2026-10-19</span></li>
<li><a href="/press/2">금융위 정례회의 결과</a><span>2026-10-18</span></li></ul>`)
		case "/press/2":
			fmt.Fprint(w, `<html><body><div class="view_con"><p>금융위원회는 정례회의에서 보험업 감독규정 개정안을 의결했다.</p></div></body></html>`)
		case "/search":
			q := r.URL.Query().Get("q")
			searched = append(searched, q)
			fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>GN</title>
<item><title>%s 뉴스</title><link>https://news.test/%d</link><description>스니펫</description></item>
</channel></rss>`, q, len(searched))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	cfg := types.SourcesConfig{
		RSSGroups: types.FeedGroups{"gov": {"금융위원회": {"press": ts.URL + "/rss"}}},
		GovernmentScrape: map[string]types.ScrapeTarget{
			"금융위원회": {URL: ts.URL + "/list", ListSelector: "li", TitleSelector: "a", DateSelector: "span", BaseURL: ts.URL},
		},
		CategoryMapping: map[types.Category]types.CategoryMapping{
			types.CategoryMacroFinance: {
				Government:   []string{"금융위원회", "한국은행"},
				NewsKeywords: []string{"기준금리", "가계부채", "환율", "국채"},
				RSSGroups:    []string{"gov"},
			},
		},
	}
	now := func() time.Time { return testNow }
	c := &Collector{
		Config:  cfg,
		Feeds:   &FeedReader{Client: ts.Client(), Now: now},
		Scraper: &Scraper{Targets: cfg.GovernmentScrape, Client: ts.Client()},
		News:    &NewsSearcher{BaseURL: ts.URL + "/search", Client: ts.Client()},
		Now:     now,
	}

	b, err := c.Collect(context.Background(), types.CategoryMacroFinance)
	require.NoError(t, err)

	assert.Equal(t, []string{"기준금리 2026", "가계부채 2026", "환율 2026"}, searched)
	require.Len(t, b.RSS, 1)
	require.Len(t, b.Press, 1, "duplicate of the feed item is dropped")
	assert.Equal(t, ts.URL+"/press/2", b.Press[0].URL)
	assert.Equal(t, "금융위원회는 정례회의에서 보험업 감독규정 개정안을 의결했다.", b.Press[0].Snippet)
	assert.Len(t, b.Search, 3)
	assert.Equal(t, 5, b.Len())

	srcs := b.Sources()
	require.Len(t, srcs, 5)
	assert.Equal(t, types.SourceRSSNews, srcs[0].SourceType)
	assert.Equal(t, types.SourceGovernmentPress, srcs[1].SourceType)
	assert.Equal(t, b.Press[0].Snippet, srcs[1].Snippet)
	assert.Equal(t, types.SourceWebSearch, srcs[2].SourceType)
	assert.Equal(t, "검색", srcs[2].Publisher)
	assert.Equal(t, types.DefaultRelevance, srcs[4].RelevanceScore)

	texts := b.CorpusTexts()
	assert.Contains(t, texts, "가계부채 관리 방안")
	assert.Contains(t, texts, "https://news.test/1")
	assert.Contains(t, texts, b.Press[0].Snippet)
}

func TestCollectPressBodies(t *testing.T) {
	var (
		mu      sync.Mutex
		fetched []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetched = append(fetched, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><body><article>%s 본문</article></body></html>`, r.URL.Path)
	}))
	defer ts.Close()

	items := []ScrapedItem{{Title: "없는 글", URL: ts.URL + "/gone"}, {Title: "제목만"}, {Title: "이미 있음", URL: ts.URL + "/x", Snippet: "기존"}}
	for i := range PressBodies + 2 {
		items = append(items, ScrapedItem{Title: fmt.Sprint(i), URL: fmt.Sprintf("%s/p%d", ts.URL, i)})
	}
	c := &Collector{Scraper: &Scraper{Client: ts.Client()}}
	c.pressBodies(context.Background(), items)

	assert.Empty(t, items[0].Snippet)
	assert.Empty(t, items[1].Snippet)
	assert.Equal(t, "기존", items[2].Snippet)
	assert.Equal(t, "/p0 본문", items[3].Snippet)
	assert.Equal(t, "/p1 본문", items[4].Snippet)
	assert.Empty(t, items[PressBodies].Snippet)
	assert.Len(t, fetched, 3)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Collector{}
	_, err := c.Collect(ctx, types.CategoryGlobalNews)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedupe(t *testing.T) {
	b := dedupe(
		[]FeedItem{
			{Title: "A", URL: "https://www.a.test/x/?utm_source=rss"},
			{Title: "no url", URL: ""},
		},
		[]ScrapedItem{
			{Title: "A again", URL: "http://a.test/x#frag"},
			{Title: "No  URL", URL: ""},
		},
		[]SearchResult{
			{Title: "B", URL: "https://b.test/1"},
			{Title: "B dup", URL: "https://B.test/1/"},
		},
	)
	assert.Len(t, b.RSS, 2)
	assert.Empty(t, b.Press)
	assert.Len(t, b.Search, 1)
}

func TestBundleAddSearch(t *testing.T) {
	b := &Bundle{RSS: []FeedItem{{Title: "x", URL: "https://a.test/1"}}}
	b.AddSearch([]SearchResult{
		{Title: "dup", URL: "https://a.test/1"},
		{Title: "new", URL: "https://a.test/2"},
		{Title: "new again", URL: "https://a.test/2"},
	})
	require.Len(t, b.Search, 1)
	assert.Equal(t, "new", b.Search[0].Title)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "a.test/x", NormalizeURL("https://WWW.A.test/x/"))
	assert.Equal(t, "a.test/x?id=3", NormalizeURL("http://a.test/x?id=3&utm_medium=feed#top"))
	assert.Equal(t, "", NormalizeURL("not a url"))
	assert.Equal(t, "", NormalizeURL(""))
}

func TestFormatRaw(t *testing.T) {
	b := &Bundle{
		RSS: []FeedItem{
			{Title: "금리 동결", Source: "한국은행", Published: time.Date(2026, 10, 18, 16, 0, 0, 0, time.UTC), Summary: strings.Repeat("가", 250)},
			{Title: "날짜 없음", Source: "연합뉴스"},
		},
		Press:  []ScrapedItem{{Title: "보도자료", Source: "금융위원회"}},
		Search: []SearchResult{{Title: "검색 결과", Snippet: "요지"}},
	}

	got := FormatRaw(b, types.CategoryMacroFinance, []string{"기준금리", "환율"})

	assert.Contains(t, got, "### RSS 피드 (최근 뉴스/보도자료)\n- [10/19] 금리 동결 (한국은행)\n  요약: "+strings.Repeat("가", 200)+"\n")
	assert.Contains(t, got, "- [?] 날짜 없음 (연합뉴스)")
	assert.Contains(t, got, "\n### 정부 보도자료\n- [?] 보도자료 (금융위원회)")
	assert.Contains(t, got, "\n### 뉴스 검색 결과\n- 검색 결과\n  요지")
	assert.True(t, strings.HasSuffix(got, "### 카테고리: 거시경제·금융정책\n주요 키워드: 기준금리, 환율"))
}

func TestFormatRawEmpty(t *testing.T) {
	got := FormatRaw(&Bundle{}, types.CategoryGlobalNews, nil)
	assert.Equal(t, "\n### 카테고리: 글로벌 뉴스\n주요 키워드: ", got)
}
