// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish converts finished posts to HTML and publishes them to
// Blogger through its REST API or to Naver Blog through browser
// automation.
package publish

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// TOCMinHeadings is the number of section headings at which a table of
// contents is inserted.
const TOCMinHeadings = 3

var referenceHeadings = map[string]bool{
	"참고자료":       true,
	"참고 자료":      true,
	"출처":         true,
	"References": true,
}

var disclaimerMarkers = []string{
	"면책 고지", "면책고지", "본 글은 정보 제공 목적", "법률 자문이나 투자 권유가 아닙니다",
	"전문가와 상담", "법률·세무 문제",
}

var (
	frontmatterBlock = regexp.MustCompile(`(?s)^---\n.*?\n---\n*`)
	headingLine      = regexp.MustCompile(`^(#{1,4})\s+(.*)`)
	ruleLine         = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
	referenceMarker  = regexp.MustCompile(`^\*{0,2}\[참고자료\]\*{0,2}$`)
	orderedItem      = regexp.MustCompile(`^\d+\.\s+(.*)`)
	unorderedItem    = regexp.MustCompile(`^[-*+]\s+(.*)`)
	referenceItem    = regexp.MustCompile(`^(.+?):\s*(https?://\S+)\s*$`)
	nonWord          = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	htmlTag          = regexp.MustCompile(`<[^>]+>`)

	boldItalic = regexp.MustCompile(`\*\*\*(.*?)\*\*\*`)
	bold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italic     = regexp.MustCompile(`\*(.*?)\*`)
	code       = regexp.MustCompile("`(.*?)`")
	link       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

type tocItem struct {
	text   string
	anchor string
}

// StripFrontmatter removes a leading YAML frontmatter block.
func StripFrontmatter(md string) string {
	return frontmatterBlock.ReplaceAllString(md, "")
}

// MarkdownToHTML converts a post to the HTML of the blog theme. The H1 is
// dropped since the platform renders the title. With at least
// TOCMinHeadings section headings a nav.toc is inserted before the first
// one and every section heading gets an anchor. A references heading or
// a [참고자료] line opens div.references, whose "text: URL" items become
// links, and disclaimer lines are merged into one div.disclaimer.
func MarkdownToHTML(md string) string {
	md = StripFrontmatter(strings.ReplaceAll(md, "\r\n", "\n"))
	c := &converter{toc: collectTOC(md)}
	for _, line := range strings.Split(md, "\n") {
		c.line(line)
	}
	c.closeAll()
	return strings.Join(c.out, "\n")
}

func collectTOC(md string) []tocItem {
	var items []tocItem
	for _, line := range strings.Split(md, "\n") {
		m := headingLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || len(m[1]) != 2 {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(m[2], "*", ""))
		if referenceHeadings[text] {
			continue
		}
		items = append(items, tocItem{text: text, anchor: Anchor(text)})
	}
	return items
}

// Anchor returns the fragment id of a heading.
func Anchor(text string) string {
	return strings.ToLower(strings.Trim(nonWord.ReplaceAllString(text, "-"), "-"))
}

type converter struct {
	out []string
	toc []tocItem

	tocDone  bool
	tocIndex int

	inList, inOrdered, inSub, inQuote, inRefs bool
}

func (c *converter) emit(s string) { c.out = append(c.out, s) }

func (c *converter) closeLists() {
	if c.inSub {
		c.emit("</ul></li>")
		c.inSub = false
	}
	if c.inList {
		c.emit("</ul>")
		c.inList = false
	}
	if c.inOrdered {
		c.emit("</ol>")
		c.inOrdered = false
	}
}

func (c *converter) closeQuote() {
	if c.inQuote {
		c.emit("</blockquote>")
		c.inQuote = false
	}
}

func (c *converter) closeRefs() {
	if c.inRefs {
		c.emit("</ul></div>")
		c.inRefs = false
	}
}

func (c *converter) closeAll() {
	c.closeLists()
	c.closeQuote()
	c.closeRefs()
}

func (c *converter) openRefs() {
	c.closeAll()
	c.inRefs = true
	c.emit(`<div class="references">`)
	c.emit("<h4>참고자료</h4>")
	c.emit("<ul>")
}

func (c *converter) line(line string) {
	trimmed := strings.TrimSpace(line)
	indent := len(line) - len(strings.TrimLeft(line, " \t"))

	if trimmed == "" {
		c.closeLists()
		c.closeQuote()
		return
	}

	if m := headingLine.FindStringSubmatch(trimmed); m != nil {
		c.heading(len(m[1]), m[2])
		return
	}

	if ruleLine.MatchString(trimmed) {
		c.closeAll()
		c.emit("<hr/>")
		return
	}

	if referenceMarker.MatchString(trimmed) {
		c.openRefs()
		return
	}

	if c.inRefs {
		m := unorderedItem.FindStringSubmatch(trimmed)
		if m == nil {
			m = orderedItem.FindStringSubmatch(trimmed)
		}
		if m != nil {
			c.emit(`  <li><span class="ref-dot">·</span>` + formatReference(m[1]) + "</li>")
			return
		}
	}

	if isDisclaimer(trimmed) {
		c.disclaimer(trimmed)
		return
	}

	if m := orderedItem.FindStringSubmatch(trimmed); m != nil {
		if !c.inOrdered {
			c.emit("<ol>")
			c.inOrdered = true
		}
		c.emit("  <li>" + inline(m[1]) + "</li>")
		return
	}

	if m := unorderedItem.FindStringSubmatch(trimmed); m != nil {
		c.listItem(m[1], indent)
		return
	}

	if strings.HasPrefix(trimmed, ">") {
		if !c.inQuote {
			c.closeLists()
			c.emit("<blockquote>")
			c.inQuote = true
		}
		c.emit("<p>" + inline(strings.TrimLeft(trimmed, "> ")) + "</p>")
		return
	}

	c.closeAll()
	c.emit("<p>" + inline(trimmed) + "</p>")
}

func (c *converter) heading(level int, raw string) {
	if level == 1 {
		return
	}
	text := inline(raw)
	clean := strings.TrimSpace(htmlTag.ReplaceAllString(text, ""))

	if level == 2 && referenceHeadings[html.UnescapeString(clean)] {
		c.openRefs()
		return
	}
	c.closeAll()

	if level == 2 && !c.tocDone && len(c.toc) >= TOCMinHeadings {
		c.emit(buildTOC(c.toc))
		c.tocDone = true
	}
	if level == 2 && c.tocIndex < len(c.toc) {
		anchor := c.toc[c.tocIndex].anchor
		c.tocIndex++
		c.emit(fmt.Sprintf(`<a name="%s"></a>`, anchor))
		c.emit(fmt.Sprintf(`<h2 id="%s">%s</h2>`, anchor, text))
		return
	}
	c.emit(fmt.Sprintf("<h%d>%s</h%d>", level, text, level))
}

func (c *converter) listItem(raw string, indent int) {
	text := inline(raw)
	if indent >= 4 && c.inList {
		if !c.inSub {
			if last := len(c.out) - 1; last >= 0 && strings.HasSuffix(c.out[last], "</li>") {
				c.out[last] = strings.TrimSuffix(c.out[last], "</li>")
			}
			c.emit("<ul>")
			c.inSub = true
		}
		c.emit("    <li>" + text + "</li>")
		return
	}
	if c.inSub {
		c.emit("</ul></li>")
		c.inSub = false
	}
	if c.inOrdered {
		c.emit("</ol>")
		c.inOrdered = false
	}
	c.closeQuote()
	if !c.inList {
		c.emit("<ul>")
		c.inList = true
	}
	c.emit("  <li>" + text + "</li>")
}

func (c *converter) disclaimer(trimmed string) {
	text := inline(strings.TrimRight(strings.TrimLeft(trimmed, "*> "), "*"))
	c.closeAll()
	if last := len(c.out) - 1; last >= 0 && strings.HasPrefix(c.out[last], `<div class="disclaimer">`) {
		c.out[last] = strings.TrimSuffix(c.out[last], "</div>") + "<br/>" + text + "</div>"
		return
	}
	c.emit(`<div class="disclaimer"><span class="disclaimer-icon">ⓘ</span>` + text + "</div>")
}

func isDisclaimer(s string) bool {
	for _, m := range disclaimerMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func buildTOC(items []tocItem) string {
	lines := []string{`<nav class="toc">`, "<h4>목차</h4>", "<ol>"}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf(`  <li><a href="#%s">%s</a></li>`, it.anchor, html.EscapeString(it.text)))
	}
	lines = append(lines, "</ol>", "</nav>")
	return strings.Join(lines, "\n")
}

// formatReference links a "title: URL" reference item.
func formatReference(text string) string {
	if m := referenceItem.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`,
			html.EscapeString(m[2]), inline(strings.TrimSpace(m[1])))
	}
	return inline(text)
}

// inline escapes text and converts emphasis, code spans and links.
func inline(text string) string {
	text = html.EscapeString(text)
	text = boldItalic.ReplaceAllString(text, "<strong><em>$1</em></strong>")
	text = bold.ReplaceAllString(text, "<strong>$1</strong>")
	text = italic.ReplaceAllString(text, "<em>$1</em>")
	text = code.ReplaceAllString(text, "<code>$1</code>")
	text = link.ReplaceAllString(text, `<a href="$2">$1</a>`)
	return text
}
