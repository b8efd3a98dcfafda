// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agents implements the three LLM roles of the pipeline: the
// research agent proposes topics and builds grounded briefs, the writer
// agent drafts markdown from a brief, and the editor agent scores drafts.
package agents

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// Collector gathers research material for a category.
type Collector interface {
	Collect(ctx context.Context, category types.Category) (*sources.Bundle, error)
}

// NewsSearch runs a news search query.
type NewsSearch interface {
	Search(ctx context.Context, query string, max int) ([]sources.SearchResult, error)
}

// SourceStore persists retrieved sources.
type SourceStore interface {
	AddSources(ctx context.Context, cat types.Category, srcs []types.Source) (int, error)
}

// base carries what every agent shares.
type base struct {
	Model  string
	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

func (b *base) out() io.Writer {
	if b.Out == nil {
		return io.Discard
	}
	return b.Out
}

func (b *base) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *base) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
