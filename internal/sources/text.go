// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanHTML removes tags and collapses whitespace.
func CleanHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// kst is the zone of Korean government listings that print local times
// without an offset.
var kst = time.FixedZone("KST", 9*60*60)

// dateLayouts are the formats seen on Korean government sites and feeds
// whose dates gofeed could not parse.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006.01.02",
	"2006.01.02 15:04",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// ParseDate parses a date string in any of the known formats and returns it
// in UTC. Layouts without an offset are read as Korean local time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, kst); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
