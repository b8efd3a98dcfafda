// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pdiddy/blog-agents/internal/llm"
	"github.com/pdiddy/blog-agents/internal/prompt"
	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// Shared test fixtures for the agents package.

func fixedNow() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

// fakeModel answers each request with respond and records it.
type fakeModel struct {
	mu       sync.Mutex
	respond  func(req llm.Request) (string, error)
	requests []llm.Request
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeModel) client() *llm.Client { return llm.NewClient(f, 1, nil) }

func reply(s string) func(llm.Request) (string, error) {
	return func(llm.Request) (string, error) { return s, nil }
}

type fakeCollector struct {
	bundle *sources.Bundle
	err    error
}

func (f *fakeCollector) Collect(context.Context, types.Category) (*sources.Bundle, error) {
	return f.bundle, f.err
}

type fakeNews struct {
	results map[string][]sources.SearchResult
	queries []string
}

func (f *fakeNews) Search(_ context.Context, query string, max int) ([]sources.SearchResult, error) {
	f.queries = append(f.queries, query)
	if query == "fail" {
		return nil, errors.New("search down")
	}
	return firstN(f.results[query], max), nil
}

type fakeStore struct {
	added map[types.Category][]types.Source
}

func (f *fakeStore) AddSources(_ context.Context, cat types.Category, srcs []types.Source) (int, error) {
	if f.added == nil {
		f.added = make(map[types.Category][]types.Source)
	}
	f.added[cat] = append(f.added[cat], srcs...)
	return len(srcs), nil
}

func testTopic() types.TopicSuggestion {
	return types.TopicSuggestion{
		Title:             "기준금리 동결의 의미",
		Category:          types.CategoryMacroFinance,
		Angle:             "가계 대출자 관점",
		Timeliness:        "이번 주 금통위 결정",
		TargetKeywords:    []string{"기준금리", "가계대출", "한국은행"},
		EstimatedInterest: 0.8,
	}
}

func testBriefFixture() types.ResearchBrief {
	return types.ResearchBrief{
		ID:                "brief-1",
		CreatedAt:         fixedNow(),
		Category:          types.CategoryMacroFinance,
		Topic:             testTopic(),
		Sources:           []types.Source{{Title: "금리 동결 배경", URL: "https://news.example.com/a", Publisher: "연합뉴스", SourceType: types.SourceWebSearch}},
		BackgroundContext: "한국은행은 기준금리를 동결했다.",
		KeyFacts:          []string{"한국은행 금융통화위원회가 금리를 동결했다"},
		LegalReferences:   []string{"은행법 제34조"},
		DataPoints:        []string{"기준금리 연 2.50%"},
	}
}

func newPrompts() *prompt.Loader { return prompt.NewLoader("") }
