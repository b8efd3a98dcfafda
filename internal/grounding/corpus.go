// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"strings"
	"time"
)

// DefaultAllow lists terms that are grounded everywhere: common economic
// acronyms and units the blog uses without a source.
var DefaultAllow = []string{
	"AI", "CEO", "CFO", "CPI", "DSR", "DTI", "ESG", "ETF", "EU", "FAQ", "FTA",
	"GDP", "GNI", "IMF", "IPO", "IT", "KOSDAQ", "KOSPI", "KRW", "LTV", "M&A",
	"OECD", "PCE", "PF", "PPI", "Q&A", "QoQ", "REITs", "SEO", "US", "USD",
	"WTO", "YoY",
}

// Corpus is the searchable form of every retrieved text fragment.
type Corpus struct {
	text      string
	compact   string
	urls      map[string]bool
	allow     map[string]bool
	dates     map[string]bool
	monthDays map[string]bool
	empty     bool
}

// NewCorpus indexes texts. Terms in allow, and DefaultAllow, are always
// considered grounded.
func NewCorpus(texts []string, allow []string) *Corpus {
	c := &Corpus{
		urls:      make(map[string]bool),
		allow:     make(map[string]bool),
		dates:     make(map[string]bool),
		monthDays: make(map[string]bool),
	}
	for _, a := range append(append([]string{}, DefaultAllow...), allow...) {
		if n := normalize(a); n != "" {
			c.allow[n] = true
			c.allow[normalizeURL(a)] = true
		}
	}

	var b strings.Builder
	nonEmpty := 0
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		nonEmpty++
		b.WriteString(t)
		b.WriteString("\n")
		for _, u := range ExtractURLs(t) {
			c.urls[normalizeURL(u)] = true
		}
		for _, d := range ExtractDates(t, time.Time{}) {
			if d.Precision != PrecisionDay {
				continue
			}
			if !d.YearInferred {
				c.dates[d.Key()] = true
			}
			c.monthDays[d.Date.Format("01-02")] = true
		}
	}

	c.text = normalize(b.String())
	c.compact = compact(c.text)
	c.empty = nonEmpty == 0
	return c
}

// Empty reports whether the corpus holds no text.
func (c *Corpus) Empty() bool {
	return c == nil || c.empty
}

// Allowed reports whether term is on the allow list.
func (c *Corpus) Allowed(term string) bool {
	return c.allow[normalize(term)]
}

// Contains reports whether term occurs in the corpus, ignoring case and
// whitespace differences, or is allowed.
func (c *Corpus) Contains(term string) bool {
	n := normalize(term)
	if n == "" || c.Allowed(n) {
		return true
	}
	if strings.Contains(c.text, n) {
		return true
	}
	return strings.Contains(c.compact, compact(n))
}

// HasURL reports whether u was retrieved or appears in a retrieved text.
// Any URL on an allowed host, such as law.go.kr, is accepted.
func (c *Corpus) HasURL(u string) bool {
	n := normalizeURL(u)
	host, _, _ := strings.Cut(n, "/")
	if c.Allowed(n) || c.Allowed(host) {
		return true
	}
	return c.urls[n] || strings.Contains(c.text, n)
}

// HasDate reports whether the corpus mentions the same day. A mention
// without a year matches any year.
func (c *Corpus) HasDate(d DateMention) bool {
	if d.Precision == PrecisionMonth {
		return strings.Contains(c.text, strings.ToLower(d.Text))
	}
	if d.YearInferred {
		return c.monthDays[d.Date.Format("01-02")]
	}
	return c.dates[d.Key()]
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// normalizeURL drops the scheme, a leading www., and a trailing slash.
func normalizeURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimRight(u, "/")
}
