// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator runs the content pipeline: research, the
// write/edit feedback loop, grounding of the chosen draft, and
// persistence of every artifact.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/internal/agents"
	"github.com/pdiddy/blog-agents/internal/corpus"
	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// ErrNoTopics is returned when topic discovery proposes nothing.
var ErrNoTopics = errors.New("no topics proposed")

// DefaultMaxRounds is the number of editor reviews before the best draft
// is taken.
const DefaultMaxRounds = 3

// Researcher proposes topics and builds briefs.
type Researcher interface {
	DiscoverTopics(ctx context.Context, category types.Category) ([]types.TopicSuggestion, *sources.Bundle, error)
	BuildBrief(ctx context.Context, topic types.TopicSuggestion, category types.Category, bundle *sources.Bundle) (types.ResearchBrief, grounding.Report, error)
}

// Writer drafts posts.
type Writer interface {
	WriteDraft(ctx context.Context, brief types.ResearchBrief, version int, review *types.EditReview) (types.Draft, error)
}

// Editor reviews drafts.
type Editor interface {
	ReviewDraft(ctx context.Context, draft types.Draft, brief types.ResearchBrief, findings grounding.Report) (types.EditReview, error)
}

// TopicSelector picks one of the proposed topics.
type TopicSelector interface {
	SelectTopic(ctx context.Context, topics []types.TopicSuggestion) (types.TopicSuggestion, error)
}

// History stores pipeline runs and serves the stored source texts used
// to ground drafts. *corpus.Store implements it.
type History interface {
	RecordRun(ctx context.Context, run corpus.Run) error
	Texts(ctx context.Context, category types.Category) ([]string, error)
}

// Orchestrator wires the agents to storage.
type Orchestrator struct {
	Research Researcher
	Writer   Writer
	Editor   Editor
	Storage  *storage.Manager

	// History is optional; without it runs are not recorded and drafts
	// are grounded against the brief alone.
	History History

	// Selector is consulted when a run is not auto-selecting. Nil picks
	// the first topic.
	Selector TopicSelector

	Grounding types.GroundingConfig
	MaxRounds int

	// StatePath is the rotation state file (config/rotation_state.json).
	StatePath string

	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

// Result describes a finished pipeline run.
type Result struct {
	Post       types.BlogPost
	Review     types.EditReview
	Findings   grounding.Report
	Approved   bool
	Rounds     int
	BriefPath  string
	OutputPath string
}

// LoopResult is the outcome of the write/edit loop.
type LoopResult struct {
	Draft    types.Draft
	Review   types.EditReview
	Findings grounding.Report
	Approved bool
	Rounds   int
}

func (o *Orchestrator) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) maxRounds() int {
	if o.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return o.MaxRounds
}

// RunResearchOnly collects sources and returns the proposed topics.
func (o *Orchestrator) RunResearchOnly(ctx context.Context, category types.Category) ([]types.TopicSuggestion, error) {
	topics, _, err := o.Research.DiscoverTopics(ctx, category)
	return topics, err
}

// RunFullPipeline runs research, topic selection, the write/edit loop and
// the final save for category. The run is recorded whatever the outcome.
func (o *Orchestrator) RunFullPipeline(ctx context.Context, category types.Category, autoSelect bool) (*Result, error) {
	w := o.out()
	run := corpus.Run{ID: uuid.NewString(), Category: category, StartedAt: o.now()}

	res, err := o.runPipeline(ctx, category, autoSelect, &run)
	run.FinishedAt = o.now()
	switch {
	case err != nil:
		run.Status = corpus.RunFailed
		run.Error = err.Error()
	case res.Approved:
		run.Status = corpus.RunApproved
	default:
		run.Status = corpus.RunBestEffort
	}
	if res != nil {
		run.Score = res.Review.OverallScore
		run.Rounds = res.Rounds
		run.OutputPath = res.OutputPath
	}
	o.recordRun(run)

	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "pipeline: done %q score %.1f/10 after %d rounds -> %s\n",
		res.Post.Draft.Title, res.Review.OverallScore, res.Rounds, res.OutputPath)
	return res, nil
}

func (o *Orchestrator) runPipeline(ctx context.Context, category types.Category, autoSelect bool, run *corpus.Run) (*Result, error) {
	w := o.out()
	fmt.Fprintf(w, "pipeline: %s\n", category.DisplayName())

	fmt.Fprintln(w, "phase 1: research")
	topics, bundle, err := o.Research.DiscoverTopics(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	topic := topics[0]
	if !autoSelect && o.Selector != nil {
		topic, err = o.Selector.SelectTopic(ctx, topics)
		if err != nil {
			return nil, fmt.Errorf("selecting topic: %w", err)
		}
	}
	run.Topic = topic.Title
	fmt.Fprintf(w, "pipeline: topic %q\n", topic.Title)

	brief, _, err := o.Research.BuildBrief(ctx, topic, category, bundle)
	if err != nil {
		return nil, err
	}
	briefPath, err := o.Storage.SaveJSON(storage.ResearchDir, brief, category, topic.Title, "_brief")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "pipeline: brief saved to %s\n", briefPath)

	fmt.Fprintln(w, "phase 2: write and edit")
	loop, err := o.RunWriteEditLoop(ctx, brief, category)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(w, "phase 3: publish")
	draft := loop.Draft
	draft.FullMarkdown = grounding.Sanitize(draft.FullMarkdown, loop.Findings, o.Grounding.Mode)
	if o.Grounding.Mode != types.GroundingOff && !loop.Findings.Empty() {
		// The description is published as page metadata, where a flag
		// marker cannot be shown, so it is always built from the stripped
		// body.
		stripped := grounding.Sanitize(loop.Draft.FullMarkdown, loop.Findings, types.GroundingStrip)
		draft.MetaDescription = agents.MetaDescription(stripped, draft.Title, brief.Topic.Angle)
	}
	if draft.FullMarkdown != loop.Draft.FullMarkdown {
		o.logger().Info("final draft sanitized",
			zap.Int("findings", loop.Findings.Count()),
			zap.String("mode", string(o.Grounding.Mode)))
	}

	post := types.BlogPost{
		Draft:       draft,
		FinalScore:  loop.Review.OverallScore,
		ApprovedAt:  o.now(),
		EditorNotes: strings.Join(loop.Review.Strengths, "; "),
	}
	fm := post.Frontmatter()
	path, err := o.Storage.SaveMarkdown(storage.PublishedDir, draft.FullMarkdown, category, draft.Title, "_final", &fm)
	if err != nil {
		return nil, err
	}

	if err := o.SaveRotationState(category); err != nil {
		o.logger().Warn("saving rotation state failed", zap.Error(err))
	}

	return &Result{
		Post:       post,
		Review:     loop.Review,
		Findings:   loop.Findings,
		Approved:   loop.Approved,
		Rounds:     loop.Rounds,
		BriefPath:  briefPath,
		OutputPath: path,
	}, nil
}

// RunWriteEditLoop drafts, reviews and rewrites until the editor approves
// or the round limit is reached. Each draft is grounded before review and
// the findings go to the editor. Without approval the best-scoring draft
// is returned; a later draft must score strictly higher to replace it.
func (o *Orchestrator) RunWriteEditLoop(ctx context.Context, brief types.ResearchBrief, category types.Category) (*LoopResult, error) {
	w := o.out()
	corp := o.groundingCorpus(ctx, brief, category)
	opts := grounding.OptionsFrom(o.Grounding, o.now())

	draft, err := o.Writer.WriteDraft(ctx, brief, 1, nil)
	if err != nil {
		return nil, err
	}
	if err := o.saveDraft(draft, category); err != nil {
		return nil, err
	}

	var best *LoopResult
	maxRounds := o.maxRounds()
	for round := 1; round <= maxRounds; round++ {
		fmt.Fprintf(w, "--- round %d/%d ---\n", round, maxRounds)

		findings := grounding.Check(draft.FullMarkdown, corp, opts)
		if !findings.Empty() {
			fmt.Fprintf(w, "grounding: v%d has %d unsupported items\n", draft.Version, findings.Count())
		}

		review, err := o.Editor.ReviewDraft(ctx, draft, brief, findings)
		if err != nil {
			return nil, err
		}
		suffix := fmt.Sprintf("_review_v%d", draft.Version)
		if _, err := o.Storage.SaveJSON(storage.ReviewsDir, review, category, draft.Title, suffix); err != nil {
			return nil, err
		}

		current := &LoopResult{Draft: draft, Review: review, Findings: findings, Rounds: round}
		if best == nil || review.OverallScore > best.Review.OverallScore {
			best = current
		}

		if review.Approved {
			fmt.Fprintf(w, "v%d approved (%.1f)\n", draft.Version, review.OverallScore)
			current.Approved = true
			return current, nil
		}
		if round == maxRounds {
			fmt.Fprintf(w, "round limit reached, using v%d (%.1f)\n", best.Draft.Version, best.Review.OverallScore)
			best.Rounds = round
			return best, nil
		}

		fmt.Fprintf(w, "revision requested (%.1f)\n", review.OverallScore)
		draft, err = o.Writer.WriteDraft(ctx, brief, round+1, &review)
		if err != nil {
			return nil, err
		}
		if err := o.saveDraft(draft, category); err != nil {
			return nil, err
		}
	}
	return best, nil
}

func (o *Orchestrator) saveDraft(d types.Draft, category types.Category) error {
	_, err := o.Storage.SaveMarkdown(storage.DraftsDir, d.FullMarkdown, category, d.Title, fmt.Sprintf("_v%d", d.Version), nil)
	return err
}

// groundingCorpus is the brief, its sources and, with History set, every
// stored source text of the category.
func (o *Orchestrator) groundingCorpus(ctx context.Context, brief types.ResearchBrief, category types.Category) *grounding.Corpus {
	texts := []string{brief.Text(), brief.Topic.Title}
	for _, s := range brief.Sources {
		texts = append(texts, s.Title, s.Snippet, s.URL, s.Publisher)
	}
	if o.History != nil {
		stored, err := o.History.Texts(ctx, category)
		if err != nil {
			o.logger().Warn("loading stored sources failed", zap.Error(err))
		}
		texts = append(texts, stored...)
	}
	return grounding.NewCorpus(texts, o.Grounding.Allow)
}

func (o *Orchestrator) recordRun(run corpus.Run) {
	if o.History == nil {
		return
	}
	// The run outlives a cancelled pipeline context.
	if err := o.History.RecordRun(context.Background(), run); err != nil {
		o.logger().Warn("recording run failed", zap.String("run", run.ID), zap.Error(err))
	}
}
