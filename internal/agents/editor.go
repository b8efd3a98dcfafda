// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/internal/llm"
	"github.com/pdiddy/blog-agents/internal/prompt"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// EditorMaxTokens bounds the review response.
const EditorMaxTokens = 4096

// DefaultApprovalThreshold is the overall score at which a draft is approved.
const DefaultApprovalThreshold = 7.0

// Editor scores drafts and decides approval.
type Editor struct {
	base

	LLM       *llm.Client
	Prompts   *prompt.Loader
	Threshold float64
}

// NewEditor returns an editor agent approving at threshold.
func NewEditor(model string, client *llm.Client, prompts *prompt.Loader, threshold float64) *Editor {
	if threshold <= 0 {
		threshold = DefaultApprovalThreshold
	}
	return &Editor{base: base{Model: model}, LLM: client, Prompts: prompts, Threshold: threshold}
}

// ReviewDraft reviews draft against brief. Findings of the grounding
// check are passed to the model as fact-check input. Approval is decided
// here from the overall score, whatever the model said.
func (e *Editor) ReviewDraft(ctx context.Context, draft types.Draft, brief types.ResearchBrief, findings grounding.Report) (types.EditReview, error) {
	w := e.out()
	fmt.Fprintf(w, "editor: reviewing %q (v%d)\n", draft.Title, draft.Version)

	system, err := e.Prompts.Render(prompt.Editor, prompt.EditorData{Threshold: e.Threshold})
	if err != nil {
		return types.EditReview{}, err
	}

	out, err := llm.Structured[types.ReviewOutput](ctx, e.LLM, llm.Request{
		Model:     e.Model,
		System:    system,
		User:      FormatForReview(draft, brief, findings),
		MaxTokens: EditorMaxTokens,
	})
	if err != nil {
		return types.EditReview{}, fmt.Errorf("reviewing draft v%d: %w", draft.Version, err)
	}

	review := out.Review()
	review.ID = uuid.NewString()
	review.DraftID = draft.ID
	review.DraftVersion = draft.Version
	review.CreatedAt = e.now()
	review.Approved = review.OverallScore >= e.Threshold

	verdict := "revise"
	if review.Approved {
		verdict = "approved"
	}
	fmt.Fprintf(w, "editor: v%d scored %.1f/10 (%s)\n", draft.Version, review.OverallScore, verdict)
	return review, nil
}

// FormatForReview renders the draft and the brief it must agree with.
func FormatForReview(draft types.Draft, brief types.ResearchBrief, findings grounding.Report) string {
	var sb strings.Builder
	sb.WriteString("# 검토 대상 초안\n")
	fmt.Fprintf(&sb, "제목: %s\n", draft.Title)
	fmt.Fprintf(&sb, "카테고리: %s\n", draft.Category.DisplayName())
	fmt.Fprintf(&sb, "버전: v%d\n", draft.Version)
	fmt.Fprintf(&sb, "글자 수: %d자\n", utf8.RuneCountInString(draft.FullMarkdown))
	fmt.Fprintf(&sb, "\n## 초안 본문\n%s\n", draft.FullMarkdown)

	sb.WriteString("\n---\n\n# 원본 리서치 브리핑 (팩트체크 기준)\n")
	fmt.Fprintf(&sb, "\n## 배경\n%s\n", brief.BackgroundContext)
	writeList(&sb, "핵심 팩트 (초안과 교차 검증할 것)", brief.KeyFacts)
	writeList(&sb, "관련 법령 (용어·조문 정확성 확인)", brief.LegalReferences)
	writeList(&sb, "데이터 (수치 정확성 확인)", brief.DataPoints)
	fmt.Fprintf(&sb, "\n## SEO 키워드\n%s\n", strings.Join(brief.Topic.TargetKeywords, ", "))

	if !findings.Empty() {
		sb.WriteString("\n## 자동 팩트체크 결과 (수집 자료에서 확인되지 않은 항목)\n")
		sb.WriteString(findings.Summary())
		sb.WriteString("\n")
	}

	sb.WriteString("\n---\n위 초안을 6가지 차원(사실정확성, 법률용어, 가독성, SEO, 구조, 독창성)으로 " +
		"평가하고 구체적인 피드백을 제공해주세요.")
	return sb.String()
}
