// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsServer(t *testing.T, items int) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, q.Get("q"))
		assert.Equal(t, "ko", q.Get("hl"))
		assert.Equal(t, "KR", q.Get("gl"))
		assert.Equal(t, "KR:ko", q.Get("ceid"))

		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Google News</title>`)
		for i := 0; i < items; i++ {
			fmt.Fprintf(w, `<item><title>%s 기사 %d - 매체</title><link>%s</link><description>&lt;a href="x"&gt;%s 관련 내용 %d&lt;/a&gt;</description></item>`,
				q.Get("q"), i, googleNewsLink(fmt.Sprintf("https://press.test/%d", i)), q.Get("q"), i)
		}
		fmt.Fprint(w, `</channel></rss>`)
	}))
	t.Cleanup(ts.Close)
	return ts, &queries
}

func TestNewsSearch(t *testing.T) {
	ts, queries := newsServer(t, 8)
	n := &NewsSearcher{BaseURL: ts.URL, Client: ts.Client(), Resolver: &Resolver{}}

	results, err := n.Search(context.Background(), "기준금리 2026", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"기준금리 2026"}, *queries)
	assert.Equal(t, "기준금리 2026 기사 0 - 매체", results[0].Title)
	assert.Equal(t, "https://press.test/0", results[0].URL)
	assert.Equal(t, "기준금리 2026 관련 내용 0", results[0].Snippet)
}

func TestNewsSearchWithoutResolverKeepsLinks(t *testing.T) {
	ts, _ := newsServer(t, 1)
	n := &NewsSearcher{BaseURL: ts.URL, Client: ts.Client()}

	results, err := n.Search(context.Background(), "환율", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, IsGoogleNewsLink(results[0].URL))
}

func TestNewsSearchEmptyQuery(t *testing.T) {
	n := &NewsSearcher{}
	results, err := n.Search(context.Background(), "  ", 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}
