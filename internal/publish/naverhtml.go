// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

// The SmartEditor drops most inline styles on paste but keeps the border,
// background and padding of table cells, so boxes are built as tables.
const (
	naverParagraph = `text-align:left; font-size:16.5px; line-height:2.0; color:#333; margin:0 0 22px; word-break:keep-all;`
	naverRule      = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
)

// NaverHTML restyles blog HTML from MarkdownToHTML for the Naver
// SmartEditor. Section boxes become tables, lists become paragraphs,
// strong and em become b and i, and every paragraph gets inline styles.
func NaverHTML(src string) (string, error) {
	src = strings.ReplaceAll(src, "<!--more-->", "")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parsing post HTML: %w", err)
	}

	doc.Find("a[name]").Remove()
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		inner, _ := s.Html()
		s.ReplaceWithHtml(inner)
	})
	doc.Find("[id]").RemoveAttr("id")

	doc.Find(".toc").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(naverTOC(innerItems(s.Find("li"))))
	})
	doc.Find(".references").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(naverReferences(innerItems(s.Find("li"))))
	})
	convertLists(doc)

	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(`<table style="width:100%; border-collapse:collapse; margin:48px 0 24px;"><tr>` +
			`<td style="text-align:left; padding:0 0 14px; border-top:0; border-right:0; border-left:0; border-bottom:2px solid #1A1A1A;">` +
			`<p style="font-size:22px; color:#1A1A1A; margin:0; text-align:left;"><b>` + innerHTML(s) + `</b></p></td></tr></table>`)
	})
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(`<table style="width:100%; border-collapse:collapse; margin:36px 0 16px;"><tr>` +
			`<td style="text-align:left; padding:14px 0 14px 20px; border-top:0; border-right:0; border-bottom:0; border-left:3px solid #888;">` +
			`<p style="font-size:18px; color:#1A1A1A; margin:0; text-align:left;"><b>` + innerHTML(s) + `</b></p></td></tr></table>`)
	})
	doc.Find("h4").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(`<p style="font-size:16px; color:#1A1A1A; margin:24px 0 12px;"><b>` + innerHTML(s) + `</b></p>`)
	})
	doc.Find("blockquote").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(naverQuote(s))
	})
	doc.Find(".disclaimer").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(`<table style="width:100%; border-collapse:collapse; border:1px solid #EBEBEB; margin:0;"><tr>` +
			`<td style="text-align:left; padding:20px 24px; background-color:#FAFAFA;">` +
			`<p style="font-size:12px; color:#AAA; margin:0; line-height:1.7;">` + innerHTML(s) + `</p></td></tr></table>`)
	})
	doc.Find("hr").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(`<p style="text-align:center; color:#E0E0E0; margin:56px 0;">` + naverRule + `</p>`)
	})

	doc.Find("p:not([style])").SetAttr("style", naverParagraph)
	doc.Find("strong").Each(func(_ int, s *goquery.Selection) { rename(s, "b", atom.B) })
	doc.Find("em").Each(func(_ int, s *goquery.Selection) { rename(s, "i", atom.I) })
	doc.Find(`a[href^="http"]:not([style])`).SetAttr("style", "color:#1A1A1A;")

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("rendering post HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func innerHTML(s *goquery.Selection) string {
	h, _ := s.Html()
	return strings.TrimSpace(h)
}

func innerItems(items *goquery.Selection) []string {
	return items.Map(func(_ int, s *goquery.Selection) string { return innerHTML(s) })
}

func rename(s *goquery.Selection, tag string, a atom.Atom) {
	for _, n := range s.Nodes {
		n.Data, n.DataAtom, n.Attr = tag, a, nil
	}
}

func naverTOC(items []string) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%; border-collapse:collapse; border:1px solid #E5E5E5; margin:0 0 48px;">`)
	b.WriteString(`<tr><td style="text-align:left; padding:24px 28px 12px; background-color:#FAFAFA; border-bottom:1px solid #E5E5E5;">`)
	b.WriteString(`<p style="font-size:11px; color:#1A1A1A; margin:0; text-align:left;"><b>CONTENTS</b></p></td></tr>`)
	b.WriteString(`<tr><td style="text-align:left; padding:16px 28px 24px; background-color:#FAFAFA;">`)
	for i, it := range items {
		fmt.Fprintf(&b, `<p style="margin:8px 0; font-size:14.5px; color:#444; line-height:1.9; padding-left:4px;">%d. %s</p>`, i+1, it)
	}
	b.WriteString(`</td></tr></table>`)
	return b.String()
}

func naverReferences(items []string) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%; border-collapse:collapse; margin:0 0 40px;"><tr>`)
	b.WriteString(`<td style="text-align:left; padding:24px 28px; background-color:#F8F8F8; border-top:2px solid #1A1A1A; border-right:0; border-bottom:0; border-left:0;">`)
	b.WriteString(`<p style="font-size:11px; color:#1A1A1A; margin:0 0 14px;"><b>REFERENCES</b></p>`)
	for _, it := range items {
		it = strings.TrimSpace(strings.TrimPrefix(it, `<span class="ref-dot">·</span>`))
		fmt.Fprintf(&b, `<p style="margin:6px 0; font-size:13.5px; color:#666; line-height:1.7;">%s</p>`, it)
	}
	b.WriteString(`</td></tr></table>`)
	return b.String()
}

// convertLists rewrites lists innermost first. Ordered lists become a
// table with row separators, unordered lists become bullet paragraphs,
// and the blocks of a nested list follow the paragraph of their item.
func convertLists(doc *goquery.Document) {
	lists := doc.Find("ul, ol")
	for i := lists.Length() - 1; i >= 0; i-- {
		list := lists.Eq(i)
		items := list.ChildrenFiltered("li")
		ordered := goquery.NodeName(list) == "ol"

		var b strings.Builder
		if ordered {
			b.WriteString(`<table style="width:100%; border-collapse:collapse; margin:12px 0;">`)
		}
		items.Each(func(j int, li *goquery.Selection) {
			var nested strings.Builder
			blocks := li.ChildrenFiltered("p, table")
			blocks.Each(func(_ int, blk *goquery.Selection) {
				h, _ := goquery.OuterHtml(blk)
				nested.WriteString(h)
			})
			blocks.Remove()
			text := innerHTML(li)

			if !ordered {
				fmt.Fprintf(&b, `<p style="margin:6px 0; font-size:15.5px; color:#333;">• %s</p>%s`, text, nested.String())
				return
			}
			border := ""
			if j < items.Length()-1 {
				border = "border-bottom:1px solid #F0F0F0;"
			}
			fmt.Fprintf(&b, `<tr><td style="text-align:left; padding:10px 0 10px 4px; %s">`+
				`<p style="font-size:15.5px; color:#333; margin:0; line-height:1.8; text-align:left;">`+
				`<b style="color:#1A1A1A;">%d.</b>  %s</p>%s</td></tr>`, border, j+1, text, nested.String())
		})
		if ordered {
			b.WriteString(`</table>`)
		}
		list.ReplaceWithHtml(b.String())
	}
}

// naverQuote turns a blockquote into a left-bordered box. Paragraphs
// starting with a dash are set apart as the attribution.
func naverQuote(s *goquery.Selection) string {
	var quote, attr []string
	paras := s.Find("p")
	if paras.Length() == 0 {
		quote = append(quote, innerHTML(s))
	}
	paras.Each(func(_ int, p *goquery.Selection) {
		text := innerHTML(p)
		if strings.HasPrefix(text, "—") {
			attr = append(attr, text)
			return
		}
		quote = append(quote, text)
	})

	inner := `<p style="font-size:18px; color:#444; margin:0; line-height:1.7;"><i>` + strings.Join(quote, "<br/>") + `</i></p>`
	if len(attr) > 0 {
		inner += `<p style="font-size:13px; color:#999; margin:12px 0 0;">` + strings.Join(attr, "<br/>") + `</p>`
	}
	return `<table style="width:100%; border-collapse:collapse; margin:40px 0;"><tr>` +
		`<td style="text-align:left; padding:28px 32px; border-top:0; border-right:0; border-bottom:0; border-left:3px solid #1A1A1A;">` +
		inner + `</td></tr></table>`
}
