// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// SourceType identifies where a piece of research material came from.
type SourceType string

const (
	SourceGovernmentPress SourceType = "government_press"
	SourceRSSNews         SourceType = "rss_news"
	SourceLawAPI          SourceType = "law_api"
	SourceWebSearch       SourceType = "web_search"
)

// Source is a retrieved document that a brief or draft may cite.
type Source struct {
	Title      string     `json:"title" yaml:"title"`
	URL        string     `json:"url" yaml:"url"`
	SourceType SourceType `json:"source_type" yaml:"source_type"`
	Publisher  string     `json:"publisher" yaml:"publisher"`

	// PublishedDate is kept as the source printed it; feeds and government
	// listings do not agree on a format.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	Snippet string `json:"snippet" yaml:"snippet"`

	// RelevanceScore is between 0.0 and 1.0 (default 0.5).
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// DefaultRelevance is the relevance assigned to sources that carry no score.
const DefaultRelevance = 0.5

// TopicSuggestion is one blog topic proposed by the research agent.
type TopicSuggestion struct {
	Title             string   `json:"title" jsonschema:"description=제안하는 블로그 포스트 제목"`
	Category          Category `json:"category,omitempty"`
	Angle             string   `json:"angle" jsonschema:"description=이 주제를 다루는 독특한 관점"`
	Timeliness        string   `json:"timeliness" jsonschema:"description=지금 이 주제를 다뤄야 하는 이유"`
	TargetKeywords    []string `json:"target_keywords" jsonschema:"description=SEO 타겟 키워드 3~5개"`
	EstimatedInterest float64  `json:"estimated_interest" jsonschema:"minimum=0,maximum=1,description=예상 독자 관심도 (0~1)"`
}

// TopicSuggestionList is the structured output of topic discovery.
type TopicSuggestionList struct {
	Topics []TopicSuggestion `json:"topics"`
}

// ResearchBrief is the grounded material the writer works from.
type ResearchBrief struct {
	ID                string          `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	Category          Category        `json:"category"`
	Topic             TopicSuggestion `json:"topic"`
	Sources           []Source        `json:"sources"`
	BackgroundContext string          `json:"background_context"`
	KeyFacts          []string        `json:"key_facts"`
	LegalReferences   []string        `json:"legal_references"`
	ExpertOpinions    []string        `json:"expert_opinions"`
	DataPoints        []string        `json:"data_points"`
	RelatedTopics     []string        `json:"related_topics"`
}

// ResearchBriefOutput is the part of a brief the LLM produces.
type ResearchBriefOutput struct {
	BackgroundContext string   `json:"background_context" jsonschema:"description=주제의 배경 맥락 (2~3 문단)"`
	KeyFacts          []string `json:"key_facts" jsonschema:"description=핵심 팩트 5개 이상"`
	LegalReferences   []string `json:"legal_references" jsonschema:"description=관련 법령명과 조항"`
	ExpertOpinions    []string `json:"expert_opinions" jsonschema:"description=전문가 의견 또는 입장"`
	DataPoints        []string `json:"data_points" jsonschema:"description=통계 수치와 데이터"`
	RelatedTopics     []string `json:"related_topics" jsonschema:"description=관련 주제 (내부 링킹용)"`
}

// Text joins the brief's prose fields, used to anchor proper nouns.
func (b *ResearchBrief) Text() string {
	parts := []string{b.BackgroundContext}
	parts = append(parts, b.KeyFacts...)
	parts = append(parts, b.LegalReferences...)
	parts = append(parts, b.ExpertOpinions...)
	parts = append(parts, b.DataPoints...)
	return strings.Join(lo.Compact(parts), "\n")
}
