// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui renders pipeline results for the terminal: panels, topic
// lists, review score tables and markdown previews.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/blog-agents/internal/corpus"
	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// Palette of the blog theme.
var (
	Accent  = lipgloss.Color("#D35400")
	Ink     = lipgloss.Color("#2D2320")
	Muted   = lipgloss.Color("#8A817C")
	Success = lipgloss.Color("#2E7D32")
	Danger  = lipgloss.Color("#C62828")
)

// Styles groups the lipgloss styles used by every view.
type Styles struct {
	Title  lipgloss.Style
	Panel  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
}

// DefaultStyles returns the styles of the blog theme.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(Muted),
		Good:   lipgloss.NewStyle().Bold(true).Foreground(Success),
		Bad:    lipgloss.NewStyle().Bold(true).Foreground(Danger),
	}
}

var styles = DefaultStyles()

// Panel draws body in a bordered box under a bold title.
func Panel(title, body string) string {
	content := styles.Title.Render(title)
	if body != "" {
		content += "\n" + body
	}
	return styles.Panel.Render(content)
}

// Table renders rows under headers with columns sized to their widest
// cell.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	sep := styles.Muted.Render("│")
	var b strings.Builder
	line := func(style lipgloss.Style, cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(strings.Join(parts, sep))
		b.WriteString("\n")
	}

	line(styles.Header, headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w+2)
	}
	b.WriteString(styles.Muted.Render(strings.Join(rule, "┼")))
	b.WriteString("\n")
	for _, row := range rows {
		line(styles.Cell, row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TopicList numbers the proposed topics with their angle and keywords.
func TopicList(topics []types.TopicSuggestion) string {
	var b strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&b, "%s %s %s\n", styles.Title.Render(fmt.Sprintf("%d.", i+1)), t.Title,
			styles.Muted.Render(fmt.Sprintf("(관심도 %.0f%%)", t.EstimatedInterest*100)))
		if t.Angle != "" {
			fmt.Fprintf(&b, "   관점: %s\n", t.Angle)
		}
		if t.Timeliness != "" {
			fmt.Fprintf(&b, "   시의성: %s\n", t.Timeliness)
		}
		if len(t.TargetKeywords) > 0 {
			fmt.Fprintf(&b, "   키워드: %s\n", strings.Join(t.TargetKeywords, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Verdict renders the approval state.
func Verdict(approved bool) string {
	if approved {
		return styles.Good.Render("승인")
	}
	return styles.Bad.Render("수정 필요")
}

// ReviewTable shows the per-dimension scores of a review followed by the
// overall score and verdict.
func ReviewTable(r types.EditReview) string {
	rows := make([][]string, 0, len(r.Dimensions))
	for _, d := range r.Dimensions {
		rows = append(rows, []string{d.Dimension, fmt.Sprintf("%.1f", d.Score), d.Feedback})
	}
	return Table([]string{"차원", "점수", "피드백"}, rows) +
		fmt.Sprintf("\n\n종합 %.1f/10  %s", r.OverallScore, Verdict(r.Approved))
}

// Findings lists the grounding findings of a report.
func Findings(r grounding.Report) string {
	if r.Empty() {
		return styles.Good.Render("근거 없는 항목이 없습니다.")
	}
	return r.Summary()
}

// RunTable lists recorded pipeline runs.
func RunTable(runs []corpus.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Category.DisplayName(),
			r.Topic,
			string(r.Status),
			fmt.Sprintf("%.1f", r.Score),
			fmt.Sprintf("%d", r.Rounds),
		})
	}
	return Table([]string{"시작", "카테고리", "주제", "상태", "점수", "라운드"}, rows)
}

// RenderMarkdown renders md for the terminal. An empty style picks one
// from the terminal background.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
