// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func testBrief() types.ResearchBrief {
	return types.ResearchBrief{
		BackgroundContext: "한국은행은 기준금리를 동결했다. 금융감독원은 새 규제를 발표했다.",
		KeyFacts:          []string{"한국은행이 금리를 동결했다", "금융감독원이 검사에 착수했다"},
		LegalReferences:   []string{"한국은행법 제1조"},
		DataPoints:        []string{"2026년 11월 20일 금리가 인하됐다"},
		RelatedTopics:     []string{"금융감독원 개편"},
	}
}

func TestFilterBriefStrip(t *testing.T) {
	got, report := FilterBrief(testBrief(), testCorpus(), testOptions())

	assert.Equal(t, []string{"금융감독원"}, report.UnsupportedNouns)
	assert.Equal(t, []string{"2026년 11월 20일 금리가 인하됐다"}, report.FutureClaims)

	assert.Equal(t, "한국은행은 기준금리를 동결했다.", got.BackgroundContext)
	assert.Equal(t, []string{"한국은행이 금리를 동결했다"}, got.KeyFacts)
	assert.Equal(t, []string{"한국은행법 제1조"}, got.LegalReferences)
	assert.Empty(t, got.DataPoints)
	assert.Equal(t, []string{"금융감독원 개편"}, got.RelatedTopics)
}

func TestFilterBriefFlag(t *testing.T) {
	opts := testOptions()
	opts.Mode = types.GroundingFlag
	got, _ := FilterBrief(testBrief(), testCorpus(), opts)

	assert.Equal(t, []string{"한국은행이 금리를 동결했다", "금융감독원이 검사에 착수했다 [확인 필요]"}, got.KeyFacts)
	assert.Equal(t, []string{"2026년 11월 20일 금리가 인하됐다 [확인 필요]"}, got.DataPoints)
}

func TestFilterBriefOff(t *testing.T) {
	opts := testOptions()
	opts.Mode = types.GroundingOff
	brief := testBrief()
	got, report := FilterBrief(brief, testCorpus(), opts)
	assert.False(t, report.Empty())
	assert.Equal(t, brief, got)
}
