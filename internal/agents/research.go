// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/internal/llm"
	"github.com/pdiddy/blog-agents/internal/prompt"
	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// Search sizes used while building a brief.
const (
	TitleSearchResults   = 5
	KeywordSearchCount   = 2
	KeywordSearchResults = 3
)

// Research proposes topics and builds research briefs.
type Research struct {
	base

	LLM       *llm.Client
	Prompts   *prompt.Loader
	Collector Collector
	News      NewsSearch

	// Store receives every retrieved source; nil disables persistence.
	Store SourceStore

	Sources   types.SourcesConfig
	Grounding types.GroundingConfig
}

// ResearchConfig holds the dependencies of NewResearch.
type ResearchConfig struct {
	Model     string
	LLM       *llm.Client
	Prompts   *prompt.Loader
	Collector Collector
	News      NewsSearch
	Store     SourceStore
	Sources   types.SourcesConfig
	Grounding types.GroundingConfig
}

// NewResearch returns a research agent.
func NewResearch(cfg ResearchConfig) *Research {
	return &Research{
		base:      base{Model: cfg.Model},
		LLM:       cfg.LLM,
		Prompts:   cfg.Prompts,
		Collector: cfg.Collector,
		News:      cfg.News,
		Store:     cfg.Store,
		Sources:   cfg.Sources,
		Grounding: cfg.Grounding,
	}
}

func (r *Research) systemPrompt(category types.Category) (string, error) {
	return r.Prompts.Render(prompt.Research, prompt.ResearchData{
		Category:     category,
		CategoryName: category.DisplayName(),
	})
}

// DiscoverTopics collects the category's material and asks the model for
// three topics. It returns the topics and the collected bundle, which
// BuildBrief uses as part of the grounding corpus.
func (r *Research) DiscoverTopics(ctx context.Context, category types.Category) ([]types.TopicSuggestion, *sources.Bundle, error) {
	w := r.out()
	fmt.Fprintf(w, "research: collecting %s sources\n", category.DisplayName())

	bundle, err := r.Collector.Collect(ctx, category)
	if err != nil {
		return nil, nil, fmt.Errorf("collecting sources: %w", err)
	}
	fmt.Fprintf(w, "research: %d rss, %d press releases, %d search results\n",
		len(bundle.RSS), len(bundle.Press), len(bundle.Search))
	r.persist(ctx, category, bundle.Sources())

	system, err := r.systemPrompt(category)
	if err != nil {
		return nil, bundle, err
	}
	keywords := r.Sources.Mapping(category).NewsKeywords
	user := fmt.Sprintf("아래는 최근 %s 분야의 수집 데이터입니다.\n"+
		"이 데이터를 분석하여 블로그 포스트로 작성하기 좋은 토픽 3개를 제안해주세요.\n\n%s",
		category.DisplayName(), sources.FormatRaw(bundle, category, keywords))

	list, err := llm.Structured[types.TopicSuggestionList](ctx, r.LLM, llm.Request{
		Model:  r.Model,
		System: system,
		User:   user,
	})
	if err != nil {
		return nil, bundle, fmt.Errorf("proposing topics: %w", err)
	}

	topics := list.Topics
	for i := range topics {
		topics[i].Category = category
	}
	fmt.Fprintf(w, "research: %d topics proposed\n", len(topics))
	return topics, bundle, nil
}

// BuildBrief searches deeper on topic, asks the model for a brief, and
// filters the brief against every text retrieved for it. The returned
// report lists what the grounding filter found.
func (r *Research) BuildBrief(ctx context.Context, topic types.TopicSuggestion, category types.Category, bundle *sources.Bundle) (types.ResearchBrief, grounding.Report, error) {
	w := r.out()
	log := r.logger().With(zap.String("topic", topic.Title))
	fmt.Fprintf(w, "research: building brief for %q\n", topic.Title)

	results := r.search(ctx, topic.Title, TitleSearchResults)
	for _, kw := range firstN(topic.TargetKeywords, KeywordSearchCount) {
		results = append(results, r.search(ctx, kw, KeywordSearchResults)...)
	}
	if err := ctx.Err(); err != nil {
		return types.ResearchBrief{}, grounding.Report{}, err
	}
	deep := &sources.Bundle{}
	deep.AddSearch(results)
	results = deep.Search
	srcs := sources.SearchSources(results)
	r.persist(ctx, category, srcs)

	system, err := r.systemPrompt(category)
	if err != nil {
		return types.ResearchBrief{}, grounding.Report{}, err
	}

	var ctxLines []string
	for _, res := range results {
		ctxLines = append(ctxLines, fmt.Sprintf("- [%s](%s): %s", res.Title, res.URL, res.Snippet))
	}
	user := fmt.Sprintf("## 선정된 토픽\n- 제목: %s\n- 관점: %s\n- 시의성: %s\n- 키워드: %s\n\n"+
		"## 수집된 자료\n%s\n\n"+
		"위 정보를 바탕으로 블로그 작성을 위한 상세 리서치 브리핑을 작성해주세요.\n"+
		"확인되지 않은 내용은 포함하지 마시고, 출처가 명확한 정보만 사용하십시오.",
		topic.Title, topic.Angle, topic.Timeliness, strings.Join(topic.TargetKeywords, ", "),
		strings.Join(ctxLines, "\n"))

	out, err := llm.Structured[types.ResearchBriefOutput](ctx, r.LLM, llm.Request{
		Model:  r.Model,
		System: system,
		User:   user,
	})
	if err != nil {
		return types.ResearchBrief{}, grounding.Report{}, fmt.Errorf("building brief: %w", err)
	}

	brief := types.ResearchBrief{
		ID:                uuid.NewString(),
		CreatedAt:         r.now(),
		Category:          category,
		Topic:             topic,
		Sources:           srcs,
		BackgroundContext: out.BackgroundContext,
		KeyFacts:          out.KeyFacts,
		LegalReferences:   out.LegalReferences,
		ExpertOpinions:    out.ExpertOpinions,
		DataPoints:        out.DataPoints,
		RelatedTopics:     out.RelatedTopics,
	}

	corpus := r.corpus(bundle, results)
	filtered, report := grounding.FilterBrief(brief, corpus, grounding.OptionsFrom(r.Grounding, r.now()))
	if !report.Empty() {
		log.Info("brief grounding findings",
			zap.Strings("unsupported_nouns", report.UnsupportedNouns),
			zap.Strings("unsupported_urls", report.UnsupportedURLs),
			zap.Strings("repeated_dates", report.RepeatedDates),
			zap.Int("future_claims", len(report.FutureClaims)),
			zap.String("mode", string(r.Grounding.Mode)))
		fmt.Fprintf(w, "research: grounding found %d unsupported items\n", report.Count())
	}

	fmt.Fprintf(w, "research: brief ready (facts %d, laws %d, data %d)\n",
		len(filtered.KeyFacts), len(filtered.LegalReferences), len(filtered.DataPoints))
	return filtered, report, nil
}

// corpus builds the grounding corpus from the collected bundle and the
// deep-search results.
func (r *Research) corpus(bundle *sources.Bundle, results []sources.SearchResult) *grounding.Corpus {
	var texts []string
	if bundle != nil {
		texts = append(texts, bundle.CorpusTexts()...)
	}
	for _, res := range results {
		texts = append(texts, res.Title, res.Snippet, res.URL)
	}
	return grounding.NewCorpus(texts, r.Grounding.Allow)
}

func (r *Research) search(ctx context.Context, query string, n int) []sources.SearchResult {
	if r.News == nil || strings.TrimSpace(query) == "" {
		return nil
	}
	results, err := r.News.Search(ctx, query, n)
	if err != nil {
		r.logger().Warn("news search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return results
}

func (r *Research) persist(ctx context.Context, category types.Category, srcs []types.Source) {
	if r.Store == nil || len(srcs) == 0 {
		return
	}
	if _, err := r.Store.AddSources(ctx, category, srcs); err != nil {
		r.logger().Warn("storing sources failed", zap.Error(err))
	}
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
