// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func TestSanitizeStrip(t *testing.T) {
	r := Check(testDraft, testCorpus(), testOptions())

	got := Sanitize(testDraft, r, types.GroundingStrip)
	want := `# 한국은행 금리 결정

한국은행은 기준금리를 동결했다.

- 자료: https://www.bok.or.kr/portal/news/1

2026년 12월 1일부터 시행된다.`
	assert.Equal(t, want, got)
}

func TestSanitizeFlag(t *testing.T) {
	r := Check(testDraft, testCorpus(), testOptions())

	got := Sanitize(testDraft, r, types.GroundingFlag)
	want := `# 한국은행 금리 결정

한국은행은 기준금리를 동결했다. 금융감독원은 새 규제를 발표했다. [확인 필요]

- 자료: https://www.bok.or.kr/portal/news/1
- 근거: https://fake.example.com/report [확인 필요]

2026년 11월 20일 금리가 인하됐다. [확인 필요] 2026년 11월 20일 물가가 올랐다. [확인 필요] 2026년 12월 1일부터 시행된다.
2026년 11월 20일 환율이 급등했다. [확인 필요]`
	assert.Equal(t, want, got)
}

func TestSanitizeFlagIdempotent(t *testing.T) {
	r := Check(testDraft, testCorpus(), testOptions())

	once := Sanitize(testDraft, r, types.GroundingFlag)
	twice := Sanitize(once, r, types.GroundingFlag)
	assert.Equal(t, once, twice)
	assert.Equal(t, 5, strings.Count(twice, FlagMarker))
}

func TestSanitizeStripDottedFutureDate(t *testing.T) {
	md := "한국은행은 기준금리를 동결했다. 금리는 2026. 12. 1. 인하됐다."
	r := Check(md, testCorpus(), testOptions())

	got := Sanitize(md, r, types.GroundingStrip)
	assert.Equal(t, "한국은행은 기준금리를 동결했다.", got)
}

func TestSanitizeOffAndEmpty(t *testing.T) {
	r := Check(testDraft, testCorpus(), testOptions())
	assert.Equal(t, testDraft, Sanitize(testDraft, r, types.GroundingOff))
	assert.Equal(t, testDraft, Sanitize(testDraft, Report{}, types.GroundingStrip))
}

func TestSanitizeLeavesHeadingsAndCode(t *testing.T) {
	r := Report{UnsupportedNouns: []string{"금융감독원"}}
	md := "## 금융감독원 동향\n\n```\n금융감독원 코드. 예시\n```\n\n> 금융감독원 인용.\n\n1. 금융감독원 항목"

	got := Sanitize(md, r, types.GroundingStrip)
	assert.Equal(t, "## 금융감독원 동향\n\n```\n금융감독원 코드. 예시\n```", got)
}
