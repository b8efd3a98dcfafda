// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func testCorpus() *Corpus {
	return NewCorpus([]string{
		"한국은행은 기준금리를 연 2.50%로 동결했다",
		"https://www.bok.or.kr/portal/news/1",
		"기획재정부 2026년 10월 15일 발표",
		"한국은행법 제1조에 따라",
	}, []string{"econlaw"})
}

const testDraft = `# 한국은행 금리 결정

한국은행은 기준금리를 동결했다. 금융감독원은 새 규제를 발표했다.

- 자료: https://www.bok.or.kr/portal/news/1
- 근거: https://fake.example.com/report

2026년 11월 20일 금리가 인하됐다. 2026년 11월 20일 물가가 올랐다. 2026년 12월 1일부터 시행된다.
2026년 11월 20일 환율이 급등했다.`

func testOptions() Options {
	return Options{Now: testNow, DateRepeatThreshold: 3, Mode: types.GroundingStrip}
}

func TestCorpus(t *testing.T) {
	c := testCorpus()

	assert.False(t, c.Empty())
	assert.True(t, c.Contains("한국 은행"))
	assert.True(t, c.Contains("GDP"))
	assert.True(t, c.Contains("EconLaw"))
	assert.False(t, c.Contains("금융감독원"))

	assert.True(t, c.HasURL("http://bok.or.kr/portal/news/1/"))
	assert.False(t, c.HasURL("https://bok.or.kr/portal/news/2"))

	dates := ExtractDates("2026년 10월 15일, 10월 15일, 2026-10-16", testNow)
	require.Len(t, dates, 3)
	assert.True(t, c.HasDate(dates[0]))
	assert.True(t, c.HasDate(dates[1]))
	assert.False(t, c.HasDate(dates[2]))

	assert.True(t, NewCorpus([]string{" ", ""}, nil).Empty())
}

func TestCorpusAllowList(t *testing.T) {
	c := NewCorpus([]string{"한국은행 발표"}, []string{"국가법령정보센터", "www.law.go.kr"})

	assert.True(t, c.Allowed("GDP"))
	assert.True(t, c.Allowed("국가법령정보센터"))
	assert.False(t, c.Allowed("금융감독원"))
	assert.True(t, c.Contains("국가법령정보센터"))

	assert.True(t, c.HasURL("https://www.law.go.kr/법령/주택법"))
	assert.True(t, c.HasURL("http://law.go.kr"))
	assert.False(t, c.HasURL("https://law.go.kr.example.com/x"))

	r := Check("국가법령정보센터 https://law.go.kr/lsInfo 참고. 금융감독원 발표.", c, testOptions())
	assert.Empty(t, r.UnsupportedURLs)
	assert.Equal(t, []string{"금융감독원"}, r.UnsupportedNouns)
}

func TestCheck(t *testing.T) {
	r := Check(testDraft, testCorpus(), testOptions())

	assert.Equal(t, []string{"금융감독원"}, r.UnsupportedNouns)
	assert.Equal(t, []string{"https://fake.example.com/report"}, r.UnsupportedURLs)
	assert.Equal(t, []string{"2026-11-20"}, r.RepeatedDates)
	assert.Equal(t, []string{
		"2026년 11월 20일 금리가 인하됐다.",
		"2026년 11월 20일 물가가 올랐다.",
		"2026년 11월 20일 환율이 급등했다.",
	}, r.FutureClaims)
	assert.Equal(t, 6, r.Count())
	assert.Contains(t, r.Summary(), "금융감독원")
}

func TestCheckDateThreshold(t *testing.T) {
	opts := testOptions()
	opts.DateRepeatThreshold = 4
	r := Check(testDraft, testCorpus(), opts)
	assert.Empty(t, r.RepeatedDates)
}

func TestCheckEmptyCorpus(t *testing.T) {
	r := Check(testDraft, NewCorpus(nil, nil), testOptions())
	assert.True(t, r.Empty())
	assert.Equal(t, "- 검증 결과 문제 없음", r.Summary())
}

func TestReportMerge(t *testing.T) {
	a := Report{UnsupportedNouns: []string{"B", "A"}, FutureClaims: []string{"x"}}
	b := Report{UnsupportedNouns: []string{"A", "C"}, FutureClaims: []string{"x", "y"}}
	m := a.Merge(b)
	assert.Equal(t, []string{"A", "B", "C"}, m.UnsupportedNouns)
	assert.Equal(t, []string{"x", "y"}, m.FutureClaims)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("금리는 3.5%다. 정말인가? 그렇다!  끝")
	assert.Equal(t, []string{"금리는 3.5%다.", "정말인가?", "그렇다!", "끝"}, got)
}

func TestSplitSentencesDottedDates(t *testing.T) {
	got := splitSentences("금리는 2026. 12. 1. 인하됐다. 발표는 2026.10.15 이었다.")
	assert.Equal(t, []string{"금리는 2026. 12. 1. 인하됐다.", "발표는 2026.10.15 이었다."}, got)
}

func TestSplitSentencesFlagMarker(t *testing.T) {
	got := splitSentences("금리가 인하됐다. [확인 필요] 물가가 올랐다.")
	assert.Equal(t, []string{"금리가 인하됐다. [확인 필요]", "물가가 올랐다."}, got)
}

func TestCheckDottedFutureDate(t *testing.T) {
	r := Check("금리는 2026. 12. 1. 인하됐다.", testCorpus(), testOptions())
	assert.Equal(t, []string{"금리는 2026. 12. 1. 인하됐다."}, r.FutureClaims)
	assert.True(t, r.Flags("금리는 2026. 12. 1. 인하됐다."))
}
