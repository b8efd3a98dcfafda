// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// DefaultDateRepeatThreshold is the number of distinct sentences that may
// share one ungrounded date before it is reported.
const DefaultDateRepeatThreshold = 3

// futureMarkers mark a sentence as a plan or forecast rather than a
// reported fact.
var futureMarkers = []string{
	"예정", "계획", "앞으로", "부터", "시행될", "전망", "까지",
	"will", "scheduled", "expected",
}

// Options controls a check.
type Options struct {
	Now                 time.Time
	DateRepeatThreshold int
	Mode                types.GroundingMode
}

// OptionsFrom builds options from configuration.
func OptionsFrom(cfg types.GroundingConfig, now time.Time) Options {
	return Options{Now: now, DateRepeatThreshold: cfg.DateRepeatThreshold, Mode: cfg.Mode}
}

func (o Options) threshold() int {
	if o.DateRepeatThreshold > 0 {
		return o.DateRepeatThreshold
	}
	return DefaultDateRepeatThreshold
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Report lists what a check found unsupported.
type Report struct {
	UnsupportedNouns []string `json:"unsupported_nouns,omitempty"`
	UnsupportedURLs  []string `json:"unsupported_urls,omitempty"`

	// RepeatedDates holds day keys (2006-01-02).
	RepeatedDates []string `json:"repeated_dates,omitempty"`

	// FutureClaims holds whole sentences.
	FutureClaims []string `json:"future_claims,omitempty"`
}

// Empty reports whether nothing was found.
func (r Report) Empty() bool {
	return r.Count() == 0
}

// Count returns the number of findings.
func (r Report) Count() int {
	return len(r.UnsupportedNouns) + len(r.UnsupportedURLs) + len(r.RepeatedDates) + len(r.FutureClaims)
}

// Summary renders the findings as a Korean bullet list for the editor.
func (r Report) Summary() string {
	if r.Empty() {
		return "- 검증 결과 문제 없음"
	}
	var lines []string
	if len(r.UnsupportedNouns) > 0 {
		lines = append(lines, "- 출처에서 확인되지 않은 고유명사: "+strings.Join(r.UnsupportedNouns, ", "))
	}
	if len(r.UnsupportedURLs) > 0 {
		lines = append(lines, "- 출처 목록에 없는 URL: "+strings.Join(r.UnsupportedURLs, ", "))
	}
	if len(r.RepeatedDates) > 0 {
		lines = append(lines, "- 근거 없이 반복되는 날짜: "+strings.Join(r.RepeatedDates, ", "))
	}
	for _, s := range r.FutureClaims {
		lines = append(lines, fmt.Sprintf("- 미래 시점을 사실처럼 서술: %q", s))
	}
	return strings.Join(lines, "\n")
}

// Merge combines two reports.
func (r Report) Merge(o Report) Report {
	return Report{
		UnsupportedNouns: sortedUniq(append(append([]string{}, r.UnsupportedNouns...), o.UnsupportedNouns...)),
		UnsupportedURLs:  sortedUniq(append(append([]string{}, r.UnsupportedURLs...), o.UnsupportedURLs...)),
		RepeatedDates:    sortedUniq(append(append([]string{}, r.RepeatedDates...), o.RepeatedDates...)),
		FutureClaims:     lo.Uniq(append(append([]string{}, r.FutureClaims...), o.FutureClaims...)),
	}
}

// Check scans text for proper nouns, URLs and dates the corpus does not
// support. An empty corpus yields an empty report: with nothing retrieved
// there is nothing to check against.
func Check(text string, corpus *Corpus, opts Options) Report {
	var r Report
	if corpus.Empty() {
		return r
	}
	now := opts.now()

	for _, u := range ExtractURLs(text) {
		if !corpus.HasURL(u) {
			r.UnsupportedURLs = append(r.UnsupportedURLs, u)
		}
	}

	for _, n := range ExtractProperNouns(stripMarkdown(text)) {
		if !corpus.Contains(n) {
			r.UnsupportedNouns = append(r.UnsupportedNouns, n)
		}
	}

	dateSentences := make(map[string]map[string]bool)
	dateMentions := make(map[string]DateMention)
	for _, s := range textSentences(text) {
		dates := ExtractDates(s, now)
		for _, d := range dates {
			if d.Precision != PrecisionDay || d.YearInferred {
				continue
			}
			if dateSentences[d.Key()] == nil {
				dateSentences[d.Key()] = make(map[string]bool)
				dateMentions[d.Key()] = d
			}
			dateSentences[d.Key()][s] = true
		}
		if hasFutureMarker(s) {
			continue
		}
		if lo.SomeBy(dates, func(d DateMention) bool { return d.IsFuture(now) }) {
			r.FutureClaims = append(r.FutureClaims, s)
		}
	}

	for key, sentences := range dateSentences {
		if len(sentences) >= opts.threshold() && !corpus.HasDate(dateMentions[key]) {
			r.RepeatedDates = append(r.RepeatedDates, key)
		}
	}

	r.UnsupportedURLs = sortedUniq(r.UnsupportedURLs)
	r.RepeatedDates = sortedUniq(r.RepeatedDates)
	r.FutureClaims = lo.Uniq(r.FutureClaims)
	return r
}

// Flags reports whether a sentence carries any finding of r.
func (r Report) Flags(sentence string) bool {
	s := strings.TrimSpace(sentence)
	if s == "" {
		return false
	}
	if lo.Contains(r.FutureClaims, s) {
		return true
	}
	plain := stripMarkdown(s)
	for _, n := range r.UnsupportedNouns {
		if strings.Contains(plain, n) {
			return true
		}
	}
	for _, u := range r.UnsupportedURLs {
		if strings.Contains(s, u) {
			return true
		}
	}
	if len(r.RepeatedDates) > 0 {
		for _, d := range ExtractDates(s, time.Time{}) {
			if !d.YearInferred && d.Precision == PrecisionDay && lo.Contains(r.RepeatedDates, d.Key()) {
				return true
			}
		}
	}
	return false
}

// FlagsText reports whether any sentence of text is flagged.
func (r Report) FlagsText(text string) bool {
	if r.Empty() {
		return false
	}
	return lo.SomeBy(textSentences(text), r.Flags)
}

func hasFutureMarker(s string) bool {
	lower := strings.ToLower(s)
	return lo.SomeBy(futureMarkers, func(m string) bool { return strings.Contains(lower, m) })
}

// textSentences splits markdown body text into sentences. Headings, fences
// and blank lines are skipped; list and quote markers are removed.
func textSentences(text string) []string {
	var out []string
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || isHeading(trimmed) {
			continue
		}
		_, body := splitMarker(trimmed)
		out = append(out, splitSentences(body)...)
	}
	return out
}

var emphasisPattern = regexp.MustCompile("\\*\\*|__|`")

func stripMarkdown(s string) string {
	return emphasisPattern.ReplaceAllString(s, "")
}

func sortedUniq(s []string) []string {
	s = lo.Uniq(s)
	sort.Strings(s)
	return s
}
