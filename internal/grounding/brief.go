// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grounding

import (
	"github.com/pdiddy/blog-agents/pkg/types"
)

// FilterBrief checks the brief's prose against corpus and applies
// opts.Mode: in strip mode unsupported list items are dropped and
// unsupported sentences of the background context removed; in flag mode
// they are marked. The returned report covers the brief before filtering.
func FilterBrief(brief types.ResearchBrief, corpus *Corpus, opts Options) (types.ResearchBrief, Report) {
	report := Check(brief.Text(), corpus, opts)
	mode := opts.Mode
	if mode == "" {
		mode = types.GroundingStrip
	}
	if report.Empty() || mode == types.GroundingOff {
		return brief, report
	}

	filtered := brief
	filtered.BackgroundContext = Sanitize(brief.BackgroundContext, report, mode)
	filtered.KeyFacts = filterItems(brief.KeyFacts, report, mode)
	filtered.LegalReferences = filterItems(brief.LegalReferences, report, mode)
	filtered.ExpertOpinions = filterItems(brief.ExpertOpinions, report, mode)
	filtered.DataPoints = filterItems(brief.DataPoints, report, mode)
	return filtered, report
}

func filterItems(items []string, report Report, mode types.GroundingMode) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if text, keep := FilterText(it, report, mode); keep {
			out = append(out, text)
		}
	}
	return out
}
