// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/internal/llm"
	"github.com/pdiddy/blog-agents/internal/prompt"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// Writer limits.
const (
	WriterMaxTokens    = 6000
	readRunesPerMinute = 400
	metaMaxRunes       = 155
	metaMinCut         = 80
	maxBriefSources    = 10
)

// Writer drafts blog posts from research briefs.
type Writer struct {
	base

	LLM     *llm.Client
	Prompts *prompt.Loader
}

// NewWriter returns a writer agent using model.
func NewWriter(model string, client *llm.Client, prompts *prompt.Loader) *Writer {
	return &Writer{base: base{Model: model}, LLM: client, Prompts: prompts}
}

// WriteDraft writes version of the post for brief. When review is an
// unapproved review of the previous version, its revision instructions
// and line edits go into the system prompt.
func (wr *Writer) WriteDraft(ctx context.Context, brief types.ResearchBrief, version int, review *types.EditReview) (types.Draft, error) {
	w := wr.out()
	fmt.Fprintf(w, "writer: drafting %q (v%d)\n", brief.Topic.Title, version)

	system, err := wr.systemPrompt(brief.Category, review)
	if err != nil {
		return types.Draft{}, err
	}

	body, err := wr.LLM.Text(ctx, llm.Request{
		Model:     wr.Model,
		System:    system,
		User:      FormatBriefForWriting(brief, version, review),
		MaxTokens: WriterMaxTokens,
	})
	if err != nil {
		return types.Draft{}, fmt.Errorf("writing draft v%d: %w", version, err)
	}

	meta := ExtractMetadata(body, brief)
	draft := types.Draft{
		ID:                       uuid.NewString(),
		ResearchBriefID:          brief.ID,
		Version:                  version,
		CreatedAt:                wr.now(),
		Category:                 brief.Category,
		Title:                    meta.Title,
		MetaDescription:          meta.MetaDescription,
		KeywordsUsed:             meta.Keywords,
		EstimatedReadTimeMinutes: meta.EstimatedReadTimeMinutes,
		FullMarkdown:             body,
		SourcesCited:             brief.Sources,
	}
	fmt.Fprintf(w, "writer: v%d done (%d chars, %d min read)\n",
		version, utf8.RuneCountInString(body), draft.EstimatedReadTimeMinutes)
	return draft, nil
}

func (wr *Writer) systemPrompt(cat types.Category, review *types.EditReview) (string, error) {
	var data prompt.WriterData
	if review != nil && !review.Approved {
		data.RevisionInstructions = review.RevisionInstructions
		data.LineEdits = review.LineEdits
	}
	system, err := wr.Prompts.Render(prompt.Writer, data)
	if err != nil {
		return "", err
	}
	if style := prompt.WriterStyle(cat); wr.Prompts.Has(style) {
		stylePrompt, err := wr.Prompts.Render(style, nil)
		if err != nil {
			return "", err
		}
		system += "\n\n" + stylePrompt
	}
	return system, nil
}

// FormatBriefForWriting renders brief as the writer's user message.
func FormatBriefForWriting(brief types.ResearchBrief, version int, review *types.EditReview) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 리서치 브리핑: %s\n", brief.Topic.Title)
	fmt.Fprintf(&sb, "\n## 카테고리: %s\n", brief.Category.DisplayName())
	fmt.Fprintf(&sb, "\n## 작성 관점\n%s\n", brief.Topic.Angle)
	fmt.Fprintf(&sb, "\n## 시의성\n%s\n", brief.Topic.Timeliness)
	fmt.Fprintf(&sb, "\n## 타겟 키워드\n%s\n", strings.Join(brief.Topic.TargetKeywords, ", "))
	fmt.Fprintf(&sb, "\n## 배경\n%s\n", brief.BackgroundContext)

	writeList(&sb, "핵심 팩트", brief.KeyFacts)
	writeList(&sb, "관련 법령", brief.LegalReferences)
	writeList(&sb, "전문가 의견", brief.ExpertOpinions)
	writeList(&sb, "데이터/통계", brief.DataPoints)

	if len(brief.Sources) > 0 {
		sb.WriteString("\n## 참고 출처\n")
		for _, src := range firstN(brief.Sources, maxBriefSources) {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", src.Title, src.Publisher, src.URL)
		}
	}

	if version > 1 && review != nil {
		fmt.Fprintf(&sb, "\n## 이전 초안 (v%d) 편집 피드백\n", version-1)
		fmt.Fprintf(&sb, "종합 점수: %.1f/10\n", review.OverallScore)
		if len(review.Strengths) > 0 {
			sb.WriteString("강점:\n")
			for _, s := range review.Strengths {
				fmt.Fprintf(&sb, "  - %s\n", s)
			}
		}
	}

	writeList(&sb, "고유명사 목록 (반드시 이 표기 그대로 사용)", grounding.ExtractProperNouns(brief.Text()))

	sb.WriteString("\n---\n위 브리핑을 바탕으로 1,500~2,500자 분량의 전문적인 블로그 포스트를 " +
		"마크다운 형식으로 작성해주세요. 제목은 H1(#)으로, 소제목은 H2(##)로 시작하십시오.")
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n", heading)
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", it)
	}
}

// ExtractMetadata derives the title, meta description, keywords and read
// time of a generated markdown body.
func ExtractMetadata(markdown string, brief types.ResearchBrief) types.DraftMetadata {
	title := brief.Topic.Title
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimLeft(line, "# "))
			break
		}
	}

	chars := utf8.RuneCountInString(strings.NewReplacer(" ", "", "\n", "").Replace(markdown))
	readTime := int(math.Round(float64(chars) / readRunesPerMinute))
	readTime = max(1, min(readTime, 30))

	return types.DraftMetadata{
		Title:                    title,
		MetaDescription:          MetaDescription(markdown, title, brief.Topic.Angle),
		Keywords:                 brief.Topic.TargetKeywords,
		EstimatedReadTimeMinutes: readTime,
	}
}

var emphasisStripper = strings.NewReplacer("**", "", "*", "", "`", "")

// MetaDescription returns the first one or two body paragraphs longer
// than 20 runes, cut to 155 runes at a sentence end past rune 80 or else
// at a word boundary with "...". Without such a paragraph it falls back
// to "<title> - <angle>", or the title alone when there is no angle.
func MetaDescription(markdown, title, angle string) string {
	var paragraphs []string
	for _, line := range strings.Split(markdown, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, ">") {
			continue
		}
		clean := emphasisStripper.Replace(s)
		if utf8.RuneCountInString(clean) > 20 {
			paragraphs = append(paragraphs, clean)
			if len(paragraphs) >= 2 {
				break
			}
		}
	}

	if len(paragraphs) == 0 {
		if angle == "" {
			return truncateRunes(title, metaMaxRunes)
		}
		return truncateRunes(title+" - "+angle, metaMaxRunes)
	}

	desc := strings.Join(paragraphs, " ")
	runes := []rune(desc)
	if len(runes) <= metaMaxRunes {
		return desc
	}
	cut := runes[:metaMaxRunes]
	if last := lastRune(cut, '.'); last > metaMinCut {
		return string(cut[:last+1])
	}
	if sp := lastRune(cut, ' '); sp > 0 {
		return string(cut[:sp]) + "..."
	}
	return string(cut) + "..."
}

func lastRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
