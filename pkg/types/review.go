// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AutoApproveScore is the overall score at which a review that does not
// state approval explicitly counts as approved.
const AutoApproveScore = 8.5

// ScoreDimension is the editor's score on one evaluation axis.
type ScoreDimension struct {
	Dimension string  `json:"dimension" jsonschema:"description=평가 차원명"`
	Score     float64 `json:"score" jsonschema:"minimum=1,maximum=10,description=점수 (1~10)"`
	Feedback  string  `json:"feedback" jsonschema:"description=구체적 피드백"`
}

// LineEdit is a concrete edit proposed by the editor.
type LineEdit struct {
	Location   string `json:"location" jsonschema:"description=수정 위치 (섹션 또는 문단 설명)"`
	Original   string `json:"original,omitempty" jsonschema:"description=원문"`
	Suggestion string `json:"suggestion,omitempty" jsonschema:"description=수정 제안"`
	Reason     string `json:"reason" jsonschema:"description=수정 이유"`
}

// EditReview is the editor's structured verdict on one draft version.
type EditReview struct {
	ID                   string           `json:"id"`
	DraftID              string           `json:"draft_id"`
	DraftVersion         int              `json:"draft_version"`
	CreatedAt            time.Time        `json:"created_at"`
	OverallScore         float64          `json:"overall_score"`
	Dimensions           []ScoreDimension `json:"dimensions"`
	Approved             bool             `json:"approved"`
	RevisionInstructions string           `json:"revision_instructions,omitempty"`
	LineEdits            []LineEdit       `json:"line_edits"`
	Strengths            []string         `json:"strengths"`
}

// ReviewOutput is the part of a review the LLM produces. Approved is a
// pointer so an omitted verdict can be told apart from an explicit false.
type ReviewOutput struct {
	OverallScore         float64          `json:"overall_score" jsonschema:"minimum=1,maximum=10,description=종합 점수"`
	Dimensions           []ScoreDimension `json:"dimensions" jsonschema:"description=6개 차원별 평가"`
	Approved             *bool            `json:"approved,omitempty" jsonschema:"description=승인 여부"`
	RevisionInstructions string           `json:"revision_instructions,omitempty" jsonschema:"description=수정 요청 사항 (비승인 시)"`
	LineEdits            []LineEdit       `json:"line_edits,omitempty" jsonschema:"description=구체적 라인 수정 제안"`
	Strengths            []string         `json:"strengths,omitempty" jsonschema:"description=잘된 점"`
}

// Review converts the model output into an EditReview. A missing approval
// verdict is derived from AutoApproveScore.
func (o ReviewOutput) Review() EditReview {
	approved := o.OverallScore >= AutoApproveScore
	if o.Approved != nil {
		approved = *o.Approved
	}
	return EditReview{
		OverallScore:         o.OverallScore,
		Dimensions:           o.Dimensions,
		Approved:             approved,
		RevisionInstructions: o.RevisionInstructions,
		LineEdits:            o.LineEdits,
		Strengths:            o.Strengths,
	}
}
