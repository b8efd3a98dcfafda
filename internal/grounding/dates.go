// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Precision is how much of a date a mention states.
type Precision int

const (
	PrecisionDay Precision = iota
	PrecisionMonth
)

// DateMention is a date found in text.
type DateMention struct {
	Text      string
	Date      time.Time
	Precision Precision

	// YearInferred is set for month-day mentions, whose year is taken from
	// the reference time.
	YearInferred bool

	start, end int
}

// Key identifies the calendar day ("2006-01-02") or month ("2006-01").
func (d DateMention) Key() string {
	if d.Precision == PrecisionMonth {
		return d.Date.Format("2006-01")
	}
	return d.Date.Format("2006-01-02")
}

var (
	fullDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`),
		regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
		regexp.MustCompile(`(\d{4})\.\s?(\d{1,2})\.\s?(\d{1,2})`),
		regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`),
	}
	yearMonthPattern = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월`)
	monthDayPattern  = regexp.MustCompile(`(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

// ExtractDates finds full dates, year-month mentions and month-day mentions
// in text, in order of appearance. Month-day mentions take their year from
// now. Spans already claimed by a more specific form are not matched again.
func ExtractDates(text string, now time.Time) []DateMention {
	var out []DateMention
	taken := func(start, end int) bool {
		for _, d := range out {
			if start < d.end && end > d.start {
				return true
			}
		}
		return false
	}

	for _, re := range fullDatePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if taken(m[0], m[1]) {
				continue
			}
			y, mo, d := atoi(text, m, 1), atoi(text, m, 2), atoi(text, m, 3)
			if t, ok := makeDate(y, mo, d); ok {
				out = append(out, DateMention{Text: text[m[0]:m[1]], Date: t, Precision: PrecisionDay, start: m[0], end: m[1]})
			}
		}
	}

	for _, m := range yearMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		if taken(m[0], m[1]) {
			continue
		}
		y, mo := atoi(text, m, 1), atoi(text, m, 2)
		if t, ok := makeDate(y, mo, 1); ok {
			out = append(out, DateMention{Text: text[m[0]:m[1]], Date: t, Precision: PrecisionMonth, start: m[0], end: m[1]})
		}
	}

	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		if taken(m[0], m[1]) {
			continue
		}
		mo, d := atoi(text, m, 1), atoi(text, m, 2)
		if t, ok := makeDate(now.Year(), mo, d); ok {
			out = append(out, DateMention{Text: text[m[0]:m[1]], Date: t, Precision: PrecisionDay, YearInferred: true, start: m[0], end: m[1]})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func atoi(text string, m []int, group int) int {
	n, _ := strconv.Atoi(text[m[2*group]:m[2*group+1]])
	return n
}

func makeDate(y, m, d int) (time.Time, bool) {
	if y < 1900 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// IsFuture reports whether the mention lies after now: a later calendar
// day, or for month mentions a later month.
func (d DateMention) IsFuture(now time.Time) bool {
	if d.Precision == PrecisionMonth {
		cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return d.Date.After(cur)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Date.After(today)
}
