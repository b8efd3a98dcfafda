// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/internal/corpus"
	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/pkg/types"
)

func TestTableAlignsColumns(t *testing.T) {
	got := Table([]string{"차원", "점수"}, [][]string{{"정확성", "8.5"}, {"가독성과 구성", "7.0"}})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	for _, l := range lines[1:] {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(l), l)
	}
	assert.Contains(t, lines[3], "가독성과 구성")
}

func TestReviewTable(t *testing.T) {
	got := ReviewTable(types.EditReview{
		OverallScore: 7.4,
		Approved:     true,
		Dimensions: []types.ScoreDimension{
			{Dimension: "사실 정확성", Score: 8, Feedback: "출처가 명확함"},
			{Dimension: "SEO", Score: 6.5, Feedback: "키워드 부족"},
		},
	})
	assert.Contains(t, got, "사실 정확성")
	assert.Contains(t, got, "6.5")
	assert.Contains(t, got, "키워드 부족")
	assert.Contains(t, got, "종합 7.4/10")
	assert.Contains(t, got, "승인")
}

func TestTopicList(t *testing.T) {
	got := TopicList([]types.TopicSuggestion{
		{Title: "기준금리 동결", Angle: "가계 영향", TargetKeywords: []string{"금리", "대출"}, EstimatedInterest: 0.8},
		{Title: "관세 전망"},
	})
	assert.Contains(t, got, "1. 기준금리 동결")
	assert.Contains(t, got, "(관심도 80%)")
	assert.Contains(t, got, "관점: 가계 영향")
	assert.Contains(t, got, "키워드: 금리, 대출")
	assert.Contains(t, got, "2. 관세 전망")
	assert.NotContains(t, got, "시의성")
}

func TestFindings(t *testing.T) {
	assert.Contains(t, Findings(grounding.Report{}), "없습니다")
	got := Findings(grounding.Report{UnsupportedNouns: []string{"금융감독원"}})
	assert.Contains(t, got, "금융감독원")
}

func TestRunTable(t *testing.T) {
	got := RunTable([]corpus.Run{{
		Category:  types.CategoryRealEstateTax,
		Topic:     "종부세 개편",
		Status:    corpus.RunApproved,
		Score:     8.2,
		Rounds:    2,
		StartedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, got, "부동산·세법")
	assert.Contains(t, got, "종부세 개편")
	assert.Contains(t, got, "approved")
	assert.Contains(t, got, "8.2")
}

func TestPanel(t *testing.T) {
	got := Panel("블로그 에이전트 현황", "발행 3건")
	assert.Contains(t, got, "블로그 에이전트 현황")
	assert.Contains(t, got, "발행 3건")
	assert.Contains(t, got, "╭")
}

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("# 기준금리 동결\n\n한국은행이 **금리**를 유지했다.\n", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, got, "기준금리 동결")
	assert.Contains(t, got, "한국은행이")
}
