// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grounding checks generated text against the retrieved source
// corpus. Proper nouns, URLs and dates that appear nowhere in the corpus,
// and claims dated in the future, are reported; Sanitize then strips or
// flags the sentences that carry them.
package grounding

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

var quotedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`「([^」\n]{1,60})」`),
	regexp.MustCompile(`『([^』\n]{1,60})』`),
	regexp.MustCompile(`《([^》\n]{1,60})》`),
	regexp.MustCompile(`〈([^〉\n]{1,60})〉`),
	regexp.MustCompile(`“([^”\n]{2,40})”`),
	regexp.MustCompile(`"([^"\n]{2,40})"`),
}

var (
	latinPattern  = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&'\-]*(?:[ ][A-Z][A-Za-z0-9&'\-]*)*`)
	hangulPattern = regexp.MustCompile(`[가-힣]+`)
	decreePattern = regexp.MustCompile(`([가-힣]+법)\s*시행령`)
	urlPattern    = regexp.MustCompile(`https?://[^\s<>()\[\]"'` + "`" + `]+`)
)

// latinStopWords are capitalised only because they start a sentence.
var latinStopWords = lo.SliceToMap([]string{
	"A", "An", "And", "As", "At", "But", "By", "For", "From", "He", "However",
	"If", "In", "It", "It's", "Its", "Note", "No", "Of", "On", "Or", "Our", "She",
	"So", "The", "These", "They", "This", "Those", "That", "To", "We",
	"With", "Yes", "You", "Your",
}, func(s string) (string, bool) { return s, true })

// institutionSuffixes end Korean organisation names. Single-rune suffixes
// need a longer stem to avoid common words.
var institutionSuffixes = []string{
	"위원회", "은행", "미술관", "박물관", "갤러리", "재단", "연구원", "연구소",
	"협회", "공사", "공단", "센터", "대학교", "그룹", "증권", "거래소", "홀딩스",
	"전자", "감독원", "진흥원", "개발원", "법원", "재판소", "부", "청", "처",
}

// institutionStopWords end in an institutional suffix but name no
// particular organisation.
var institutionStopWords = lo.SliceToMap([]string{
	"시중은행", "중앙은행", "지방은행", "인터넷은행", "상업은행", "투자은행",
	"저축은행", "관계부처", "정부부처", "거래처", "사용처", "수요처", "공급처",
	"투자처", "판매처", "연락처", "재요청", "대기업그룹", "유가증권",
	"데이터센터", "콜센터", "건설공사",
}, func(s string) (string, bool) { return s, true })

// commonEndings end ordinary nouns that only look institutional through a
// single-rune suffix (적용여부, 분할납부, 추가신청).
var commonEndings = []string{"여부", "납부", "교부", "기부", "신청", "요청"}

// governmentQualifiers precede 정부 in generic references to a government
// (중앙정부, 미국정부). Ministries such as 기획재정부 are not affected.
var governmentQualifiers = lo.SliceToMap([]string{
	"중앙", "지방", "연방", "주", "현", "새", "전", "차기", "역대", "각국", "자국",
	"우리", "한국", "미국", "중국", "일본", "영국", "독일", "프랑스", "러시아",
	"대만", "캐나다", "호주", "인도", "외국", "해외",
}, func(s string) (string, bool) { return s, true })

// howToStems form method words with 법 (계산법, 절세법) that are not statutes.
var howToStems = lo.SliceToMap([]string{
	"계산", "절세", "활용", "투자", "신고", "사용", "작성", "해결", "공략", "대처",
	"선택", "준비", "확인", "신청", "절약", "구별", "구분", "관리", "대응", "공부",
}, func(s string) (string, bool) { return s, true })

// lawStopWords are common words ending in 법 that are not statutes.
var lawStopWords = lo.SliceToMap([]string{
	"방법", "불법", "편법", "문법", "어법", "요법", "기법", "수법", "용법",
	"비법", "합법", "입법", "위법", "적법", "탈법", "해법", "화법", "사법",
}, func(s string) (string, bool) { return s, true })

// particles are trailing Korean postpositions, longest first.
var particles = []string{
	"으로부터", "에서부터", "에서는", "에게는", "으로는", "으로서", "으로써",
	"이라는", "입니다", "라는", "에서", "에게", "으로", "부터", "까지", "처럼",
	"보다", "이나", "이며", "이고", "에는", "와의", "과의", "와는", "과는",
	"이다", "이란", "상", "은", "는", "이", "가", "을", "를", "의", "에", "와",
	"과", "도", "만", "로", "께",
}

// ExtractProperNouns returns the deduplicated, sorted proper nouns in text:
// quoted or bracketed titles, capitalised Latin names and acronyms, Korean
// institution names and statute names.
func ExtractProperNouns(text string) []string {
	text = urlPattern.ReplaceAllString(text, " ")
	found := make(map[string]bool)

	for _, re := range quotedPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if t := strings.TrimSpace(m[1]); t != "" {
				found[t] = true
			}
		}
	}

	for _, m := range latinPattern.FindAllString(text, -1) {
		if name := latinName(m); name != "" {
			found[name] = true
		}
	}

	for _, tok := range hangulPattern.FindAllString(text, -1) {
		if name, ok := institutionName(tok); ok {
			found[name] = true
		}
		if name, ok := lawName(tok); ok {
			found[name] = true
		}
	}

	for _, m := range decreePattern.FindAllStringSubmatch(text, -1) {
		if _, stop := lawStopWords[m[1]]; !stop {
			found[m[1]+" 시행령"] = true
		}
	}

	nouns := lo.Keys(found)
	sort.Strings(nouns)
	return nouns
}

func latinName(m string) string {
	words := strings.Fields(strings.TrimRight(m, "-'&"))
	for len(words) > 0 {
		if _, stop := latinStopWords[words[0]]; !stop {
			break
		}
		words = words[1:]
	}
	name := strings.Join(words, " ")
	if len(name) < 2 {
		return ""
	}
	return name
}

func institutionName(tok string) (string, bool) {
	for _, cand := range stems(tok) {
		if commonNoun(cand) {
			return "", false
		}
		for _, suf := range institutionSuffixes {
			if !strings.HasSuffix(cand, suf) {
				continue
			}
			stem := utf8.RuneCountInString(cand) - utf8.RuneCountInString(suf)
			minStem := 1
			if utf8.RuneCountInString(suf) == 1 {
				minStem = 2
			}
			if stem >= minStem {
				return cand, true
			}
		}
	}
	return "", false
}

// commonNoun reports whether cand ends in an institutional suffix without
// naming an organisation.
func commonNoun(cand string) bool {
	if _, stop := institutionStopWords[cand]; stop {
		return true
	}
	for _, end := range commonEndings {
		if strings.HasSuffix(cand, end) {
			return true
		}
	}
	if q, ok := strings.CutSuffix(cand, "정부"); ok {
		if _, generic := governmentQualifiers[q]; generic {
			return true
		}
	}
	return false
}

func lawName(tok string) (string, bool) {
	for _, cand := range stems(tok) {
		if !strings.HasSuffix(cand, "법") || utf8.RuneCountInString(cand) < 2 {
			continue
		}
		if _, stop := lawStopWords[cand]; stop {
			return "", false
		}
		if _, howTo := howToStems[strings.TrimSuffix(cand, "법")]; howTo {
			return "", false
		}
		return cand, true
	}
	return "", false
}

// stems returns tok followed by tok with one trailing particle removed.
func stems(tok string) []string {
	out := []string{tok}
	for _, p := range particles {
		if strings.HasSuffix(tok, p) && len(tok) > len(p) {
			out = append(out, strings.TrimSuffix(tok, p))
			break
		}
	}
	return out
}

// ExtractURLs returns the URLs in text with trailing punctuation removed.
func ExtractURLs(text string) []string {
	var urls []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if u != "" {
			urls = append(urls, u)
		}
	}
	return lo.Uniq(urls)
}
