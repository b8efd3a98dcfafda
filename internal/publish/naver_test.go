// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaverHTML(t *testing.T) {
	got, err := NaverHTML(MarkdownToHTML(samplePost))
	require.NoError(t, err)

	for _, gone := range []string{"<nav", "<h2", "<h4", "<ul", "<ol", "<li", "<blockquote", "<hr", "<strong", "<em>", ` id="`, `name="`, `href="#`} {
		assert.NotContains(t, got, gone)
	}

	assert.Contains(t, got, "<b>CONTENTS</b>")
	assert.Contains(t, got, "padding-left:4px;\">1. 결정 배경</p>")
	assert.Contains(t, got, "padding-left:4px;\">3. 전망</p>")
	assert.Contains(t, got, "border-bottom:2px solid #1A1A1A;\"><p style=\"font-size:22px; color:#1A1A1A; margin:0; text-align:left;\"><b>결정 배경</b></p>")

	assert.Contains(t, got, "• 물가 안정</p><p style=\"margin:6px 0; font-size:15.5px; color:#333;\">• 근원물가 2%대</p>")
	assert.Less(t, strings.Index(got, "• 근원물가"), strings.Index(got, "• 가계부채 관리"))
	assert.Contains(t, got, `<b style="color:#1A1A1A;">1.</b>  변동금리 대출`)
	assert.Contains(t, got, `<b style="color:#1A1A1A;">2.</b>  예금 금리`)

	assert.Contains(t, got, "<i>금리는 당분간 유지될 전망입니다.</i>")
	assert.Contains(t, got, "<b>REFERENCES</b>")
	assert.Contains(t, got, `<a href="https://www.bok.or.kr/press/1" target="_blank" rel="noopener" style="color:#1A1A1A;">한국은행 보도자료</a>`)
	assert.NotContains(t, got, "ref-dot")
	assert.Contains(t, got, "border:1px solid #EBEBEB;")
	assert.Contains(t, got, "구체적인 사안은 전문가와 상담하시기 바랍니다.")
	assert.Contains(t, got, naverRule)

	assert.Contains(t, got, `<p style="`+naverParagraph+`">한국은행이 <b>기준금리</b>를 연 2.50%로 동결했습니다.</p>`)
}

func TestNaverHTMLQuoteAttribution(t *testing.T) {
	got, err := NaverHTML("<blockquote>\n<p>물가가 먼저다.</p>\n<p>— 한국은행 총재</p>\n</blockquote><!--more-->")
	require.NoError(t, err)
	assert.Contains(t, got, "<i>물가가 먼저다.</i>")
	assert.Contains(t, got, `<p style="font-size:13px; color:#999; margin:12px 0 0;">— 한국은행 총재</p>`)
	assert.NotContains(t, got, "more")
}

func TestNewNaverPublisher(t *testing.T) {
	_, err := NewNaverPublisher("", "", nil, nil)
	assert.ErrorIs(t, err, ErrMissingNaverID)

	n, err := NewNaverPublisher("econlaw", "", nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(n.SessionDir, "naver-session"))
	assert.Equal(t, DefaultLoginTimeout, n.LoginTimeout)
	assert.NoError(t, n.Close(), "closing an unstarted publisher is a no-op")
}
