// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func at(day int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, day, 9, 0, 0, 0, time.UTC) }
}

var testSources = []types.Source{
	{Title: "한국은행 기준금리 동결", URL: "https://www.bok.or.kr/news/1?utm_source=rss", SourceType: types.SourceRSSNews, Publisher: "한국은행", Snippet: "연 2.50% 유지"},
	{Title: "금융위원회 대출 규제 발표", URL: "https://fsc.go.kr/press/2", SourceType: types.SourceGovernmentPress, Publisher: "금융위원회"},
	{Title: "100% 달성률_통계", SourceType: types.SourceWebSearch, Publisher: "검색", Snippet: "통계청 자료", RelevanceScore: 0.9},
	{Title: " ", URL: ""},
}

func TestSourceID(t *testing.T) {
	a := SourceID(types.Source{URL: "https://www.bok.or.kr/news/1"})
	b := SourceID(types.Source{URL: "http://bok.or.kr/news/1/?utm_medium=x", Title: "다른 제목"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 12)

	c := SourceID(types.Source{Title: "제목"})
	assert.Equal(t, c, SourceID(types.Source{Title: " 제목 "}))
	assert.NotEqual(t, a, c)
}

func TestAddSourcesUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.now = at(18)
	n, err := s.AddSources(ctx, types.CategoryMacroFinance, testSources)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Same URL, shorter snippet: the longer snippet is kept.
	s.now = at(19)
	_, err = s.AddSources(ctx, types.CategoryMacroFinance, []types.Source{
		{Title: "한국은행 기준금리 동결(종합)", URL: "http://bok.or.kr/news/1", SourceType: types.SourceRSSNews, Snippet: "동결"},
	})
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := s.Search(ctx, Query{Text: "기준금리"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "한국은행 기준금리 동결(종합)", got[0].Title)
	assert.Equal(t, "연 2.50% 유지", got[0].Snippet)
	assert.Equal(t, types.DefaultRelevance, got[0].RelevanceScore)
	assert.True(t, got[0].FetchedAt.Equal(at(19)()))
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.now = at(17)
	_, err := s.AddSources(ctx, types.CategoryMacroFinance, testSources[:1])
	require.NoError(t, err)
	s.now = at(18)
	_, err = s.AddSources(ctx, types.CategoryRealEstateTax, testSources[1:3])
	require.NoError(t, err)

	all, err := s.Search(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, types.CategoryRealEstateTax, all[0].Category)
	assert.Equal(t, types.CategoryMacroFinance, all[2].Category)

	bySnippet, err := s.Search(ctx, Query{Text: "통계청"})
	require.NoError(t, err)
	require.Len(t, bySnippet, 1)
	assert.Equal(t, 0.9, bySnippet[0].RelevanceScore)

	// LIKE wildcards in the query match literally.
	literal, err := s.Search(ctx, Query{Text: "100%"})
	require.NoError(t, err)
	assert.Len(t, literal, 1)
	none, err := s.Search(ctx, Query{Text: "달성률%통계"})
	require.NoError(t, err)
	assert.Empty(t, none)

	macro, err := s.Search(ctx, Query{Category: types.CategoryMacroFinance})
	require.NoError(t, err)
	require.Len(t, macro, 1)

	recent, err := s.Search(ctx, Query{Since: at(18)()})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := s.Search(ctx, Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearchSubsecondOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 9, 0, 5, 0, time.UTC)

	s.now = func() time.Time { return base }
	_, err := s.AddSources(ctx, types.CategoryMacroFinance, testSources[:1])
	require.NoError(t, err)
	s.now = func() time.Time { return base.Add(100 * time.Millisecond) }
	_, err = s.AddSources(ctx, types.CategoryMacroFinance, testSources[1:2])
	require.NoError(t, err)

	all, err := s.Search(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, testSources[1].Title, all[0].Title)
	assert.True(t, all[0].FetchedAt.Equal(base.Add(100*time.Millisecond)))
	assert.True(t, all[1].FetchedAt.Equal(base))

	later, err := s.Search(ctx, Query{Since: base.Add(time.Millisecond)})
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, testSources[1].Title, later[0].Title)
}

func TestFormatTimeSortsAsText(t *testing.T) {
	whole := formatTime(time.Date(2026, 10, 19, 9, 0, 5, 0, time.UTC))
	frac := formatTime(time.Date(2026, 10, 19, 9, 0, 5, 100_000_000, time.UTC))
	assert.Equal(t, "2026-10-19T09:00:05.000000000Z", whole)
	assert.Less(t, whole, frac)
}

func TestTexts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.AddSources(ctx, types.CategoryMacroFinance, testSources[:1])
	require.NoError(t, err)
	_, err = s.AddSources(ctx, types.CategoryGlobalNews, testSources[2:3])
	require.NoError(t, err)

	texts, err := s.Texts(ctx, types.CategoryMacroFinance)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"한국은행 기준금리 동결",
		"연 2.50% 유지",
		"https://www.bok.or.kr/news/1?utm_source=rss",
	}, texts)

	all, err := s.Texts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.Error(t, s.RecordRun(ctx, Run{}))

	first := Run{ID: "a", Category: types.CategoryMacroFinance, Topic: "금리", Status: RunApproved, Score: 8.1, Rounds: 1, StartedAt: at(17)(), FinishedAt: at(17)().Add(time.Minute)}
	second := Run{ID: "b", Category: types.CategoryGlobalNews, Status: RunFailed, Error: "no topics", StartedAt: at(18)()}
	require.NoError(t, s.RecordRun(ctx, first))
	require.NoError(t, s.RecordRun(ctx, second))

	second.Status = RunBestEffort
	second.Error = ""
	require.NoError(t, s.RecordRun(ctx, second))

	runs, err := s.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, RunBestEffort, runs[0].Status)
	assert.Empty(t, runs[0].Error)
	assert.True(t, runs[0].FinishedAt.IsZero())
	assert.Equal(t, "a", runs[1].ID)
	assert.Equal(t, 8.1, runs[1].Score)
	assert.True(t, runs[1].FinishedAt.Equal(first.FinishedAt))
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.AddSources(ctx, types.CategoryMacroFinance, testSources[:2])
	require.NoError(t, err)
	require.NoError(t, s.RecordRun(ctx, Run{ID: "r", Category: types.CategoryMacroFinance, Status: RunApproved, StartedAt: at(19)()}))

	path, err := s.ExportYAML(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Path(), "export.yaml"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Export
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Len(t, doc.Sources, 2)
	assert.Len(t, doc.Runs, 1)
	assert.Contains(t, string(data), "publisher: 한국은행")

	path, err = s.ExportJSON(ctx, types.CategoryGlobalNews)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var jdoc Export
	require.NoError(t, json.Unmarshal(data, &jdoc))
	assert.Empty(t, jdoc.Sources)
	assert.Len(t, jdoc.Runs, 1)
}
