// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// FlagMarker is appended to unsupported sentences in flag mode.
const FlagMarker = " [확인 필요]"

var (
	headingPattern = regexp.MustCompile(`^#{1,6}\s`)
	markerPattern  = regexp.MustCompile(`^(?:[-*+]\s+|\d+[.)]\s+|>\s?|\|)`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)

	// dottedDates are press-release dates such as "2026. 12. 1.", whose
	// dots do not end a sentence.
	dottedDates = regexp.MustCompile(`\d{4}\.\s?\d{1,2}\.\s?\d{1,2}\.?`)
)

func isHeading(line string) bool {
	return headingPattern.MatchString(line)
}

// splitMarker separates a list, quote or table marker from the line body.
func splitMarker(line string) (marker, body string) {
	if loc := markerPattern.FindStringIndex(line); loc != nil {
		return line[:loc[1]], line[loc[1]:]
	}
	return "", line
}

// splitSentences splits after '.', '!', '?' or '。' when followed by
// whitespace, except inside a dotted date. A flag marker stays with the
// sentence before it. Sentences are returned trimmed.
func splitSentences(text string) []string {
	dates := dottedDates.FindAllStringIndex(text, -1)
	inDate := func(i int) bool {
		for _, d := range dates {
			if i >= d[0] && i < d[1] {
				return true
			}
		}
		return false
	}

	var out []string
	start := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' && r != '。' {
			continue
		}
		if r == '.' && inDate(i) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(text) {
			continue
		}
		nr, _ := utf8.DecodeRuneInString(text[next:])
		if !unicode.IsSpace(nr) {
			continue
		}
		out = appendSentence(out, text[start:next])
		start = next
	}
	return appendSentence(out, text[start:])
}

var flagText = strings.TrimSpace(FlagMarker)

// appendSentence adds s to out. A flag marker opening s belongs to the
// sentence before it.
func appendSentence(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if len(out) > 0 && strings.HasPrefix(s, flagText) {
		out[len(out)-1] += FlagMarker
		s = strings.TrimSpace(strings.TrimPrefix(s, flagText))
	}
	if s == "" {
		return out
	}
	return append(out, s)
}

// Sanitize removes or flags the sentences of markdown that carry a finding
// of report. In strip mode a flagged list item is removed whole and a
// paragraph left empty is dropped; in flag mode FlagMarker is appended to
// each flagged sentence not already carrying it. Headings and fenced code
// are never changed. Off mode, or an empty report, returns markdown
// unchanged.
func Sanitize(markdown string, report Report, mode types.GroundingMode) string {
	if mode == types.GroundingOff || report.Empty() {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	changed := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence || trimmed == "" || isHeading(trimmed) || isRule(trimmed) {
			out = append(out, line)
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		marker, body := splitMarker(trimmed)
		sentences := splitSentences(body)

		var kept []string
		flagged := false
		for _, s := range sentences {
			if !report.Flags(s) {
				kept = append(kept, s)
				continue
			}
			if mode == types.GroundingFlag && strings.HasSuffix(s, FlagMarker) {
				kept = append(kept, s)
				continue
			}
			flagged = true
			if mode == types.GroundingFlag {
				kept = append(kept, s+FlagMarker)
			}
		}
		if !flagged {
			out = append(out, line)
			continue
		}
		changed = true

		if mode == types.GroundingStrip && (marker != "" || len(kept) == 0) {
			continue
		}
		out = append(out, indent+marker+strings.Join(kept, " "))
	}

	if !changed {
		return markdown
	}
	result := blankRuns.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
	result = strings.Trim(result, "\n")
	if strings.HasSuffix(markdown, "\n") {
		result += "\n"
	}
	return result
}

func isRule(line string) bool {
	return line == "---" || line == "***" || line == "___"
}

// FilterText applies mode to a single field: strip returns "" when any
// sentence is flagged, flag appends FlagMarker to flagged sentences.
func FilterText(text string, report Report, mode types.GroundingMode) (string, bool) {
	if mode == types.GroundingOff || !report.FlagsText(text) {
		return text, true
	}
	if mode == types.GroundingStrip {
		return "", false
	}
	return Sanitize(text, report, types.GroundingFlag), true
}
