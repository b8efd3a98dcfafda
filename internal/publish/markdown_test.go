// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePost = `---
title: 기준금리 동결
keywords: [기준금리, 가계대출]
---

# 기준금리 동결, 가계에 미치는 영향

한국은행이 **기준금리**를 연 2.50%로 동결했습니다.

## 결정 배경

- 물가 안정
    - 근원물가 2%대
- 가계부채 관리

## 가계 영향

1. 변동금리 대출
2. 예금 금리

> 금리는 당분간 유지될 전망입니다.

## 전망

자세한 내용은 [한국은행](https://www.bok.or.kr)을 참고하세요.

## 참고자료

- 한국은행 보도자료: https://www.bok.or.kr/press/1
- 연합뉴스 기사

---

*본 글은 정보 제공 목적이며 법률·투자 자문이 아닙니다.*
구체적인 사안은 전문가와 상담하시기 바랍니다.
`

func TestMarkdownToHTML(t *testing.T) {
	got := MarkdownToHTML(samplePost)

	assert.NotContains(t, got, "title: 기준금리 동결", "frontmatter is stripped")
	assert.NotContains(t, got, "<h1>", "the title is rendered by the platform")
	assert.Contains(t, got, "<p>한국은행이 <strong>기준금리</strong>를 연 2.50%로 동결했습니다.</p>")

	toc := `<nav class="toc">
<h4>목차</h4>
<ol>
  <li><a href="#결정-배경">결정 배경</a></li>
  <li><a href="#가계-영향">가계 영향</a></li>
  <li><a href="#전망">전망</a></li>
</ol>
</nav>`
	assert.Contains(t, got, toc)
	assert.Less(t, strings.Index(got, toc), strings.Index(got, `<h2 id="결정-배경">`))
	assert.Contains(t, got, "<a name=\"결정-배경\"></a>\n<h2 id=\"결정-배경\">결정 배경</h2>")

	assert.Contains(t, got, "<ul>\n  <li>물가 안정\n<ul>\n    <li>근원물가 2%대</li>\n</ul></li>\n  <li>가계부채 관리</li>\n</ul>")
	assert.Contains(t, got, "<ol>\n  <li>변동금리 대출</li>\n  <li>예금 금리</li>\n</ol>")
	assert.Contains(t, got, "<blockquote>\n<p>금리는 당분간 유지될 전망입니다.</p>\n</blockquote>")
	assert.Contains(t, got, `<a href="https://www.bok.or.kr">한국은행</a>`)

	assert.Contains(t, got, "<div class=\"references\">\n<h4>참고자료</h4>\n<ul>\n"+
		`  <li><span class="ref-dot">·</span><a href="https://www.bok.or.kr/press/1" target="_blank" rel="noopener">한국은행 보도자료</a></li>`+"\n"+
		`  <li><span class="ref-dot">·</span>연합뉴스 기사</li>`+"\n</ul></div>\n<hr/>")
	assert.NotContains(t, got, `id="참고자료"`)

	assert.Contains(t, got, `<div class="disclaimer"><span class="disclaimer-icon">ⓘ</span>`+
		"본 글은 정보 제공 목적이며 법률·투자 자문이 아닙니다.<br/>구체적인 사안은 전문가와 상담하시기 바랍니다.</div>")
}

func TestMarkdownToHTMLNoTOC(t *testing.T) {
	got := MarkdownToHTML("## 하나\n\n본문\n\n## 둘\n\n[참고자료]\n- 출처: https://example.com/a\n")
	assert.NotContains(t, got, "toc")
	assert.Contains(t, got, `<h2 id="하나">하나</h2>`)
	assert.Contains(t, got, `<div class="references">`)
	assert.True(t, strings.HasSuffix(got, "</ul></div>"))
}

func TestInline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"***강조***", "<strong><em>강조</em></strong>"},
		{"*기울임* 과 `code`", "<em>기울임</em> 과 <code>code</code>"},
		{"금리 < 3% & 물가", "금리 &lt; 3% &amp; 물가"},
		{"[링크](https://a.com/?x=1&y=2)", `<a href="https://a.com/?x=1&amp;y=2">링크</a>`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inline(tt.in), tt.in)
	}
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "결정-배경", Anchor("결정 배경"))
	assert.Equal(t, "gdp-성장률", Anchor("GDP 성장률?"))
	assert.Equal(t, "m-a와-공정거래", Anchor("M&A와 공정거래"))
}
