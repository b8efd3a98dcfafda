// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProperNouns(t *testing.T) {
	text := "한국은행은 기준금리를 동결했다. 기획재정부가 「2027년 경제정책방향」을 발표했다. " +
		"The Federal Reserve와 FOMC 회의 결과가 주목된다. 소득세법상 규정과 소득세법 시행령 개정, " +
		"방법으로는 합법적 절차. 정부는 일부 조정. 자세한 내용은 https://www.bok.or.kr/portal/Main.do 참고."

	got := ExtractProperNouns(text)
	assert.Equal(t, []string{
		"2027년 경제정책방향",
		"FOMC",
		"Federal Reserve",
		"기획재정부",
		"소득세법",
		"소득세법 시행령",
		"한국은행",
	}, got)
}

func TestExtractProperNounsCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"quoted speech", `그는 "금리 인하는 시기상조"라고 말했다`, []string{"금리 인하는 시기상조"}},
		{"single rune suffix needs a stem", "국세청이 정부와 협의했다", []string{"국세청"}},
		{"generic institution words", "시중은행과 관계부처가 대응했다", nil},
		{"law stop words", "불법 대출과 편법 증여를 막는 방법", nil},
		{"institution suffixes", "금융감독원과 삼성전자, 대법원 판결", []string{"금융감독원", "대법원", "삼성전자"}},
		{"sentence-initial words", "This is fine. However, S&P fell.", []string{"S&P"}},
		{"common nouns with institution endings", "적용여부와 분할납부, 추가신청을 확인했다", nil},
		{"generic governments", "중앙정부와 지방정부, 미국정부가 한국은행과 협의했다", []string{"한국은행"}},
		{"how-to words", "양도세 계산법과 절세법, 적금 활용법, 배당 투자법, 종소세 신고법", nil},
		{"statutes still count", "공동주택관리법과 기획재정부 고시", []string{"공동주택관리법", "기획재정부"}},
		{"urls ignored", "출처 https://Example.COM/Path", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractProperNouns(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs("자료: https://a.test/x. 그리고 (https://b.test/y) 또 https://a.test/x")
	assert.Equal(t, []string{"https://a.test/x", "https://b.test/y"}, got)
}
