// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Entry is a stored source.
type Entry struct {
	ID           string         `json:"id" yaml:"id"`
	Category     types.Category `json:"category" yaml:"category"`
	FetchedAt    time.Time      `json:"fetched_at" yaml:"fetched_at"`
	types.Source `yaml:",inline"`
}

// Query selects stored sources.
type Query struct {
	// Text matches title or snippet as a substring; empty matches all.
	Text string

	// Category filters by category; empty means all.
	Category types.Category

	// Since drops sources fetched before it; zero means no bound.
	Since time.Time

	// Limit caps the result count (default 20, negative means unlimited).
	Limit int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the sources matching q, most recently fetched first.
func (s *Store) Search(ctx context.Context, q Query) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, category, title, url, source_type, publisher, published_date, snippet, relevance, fetched_at
		FROM sources WHERE 1=1`)

	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + likeEscaper.Replace(text) + "%"
		qb.WriteString(` AND (title LIKE ? ESCAPE '\' OR snippet LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if q.Category != "" {
		qb.WriteString(` AND category = ?`)
		args = append(args, string(q.Category))
	}
	if !q.Since.IsZero() {
		qb.WriteString(` AND fetched_at >= ?`)
		args = append(args, formatTime(q.Since))
	}
	qb.WriteString(` ORDER BY fetched_at DESC, title`)

	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                                  Entry
			cat, srcType, fetched              string
			url, publisher, published, snippet sql.NullString
			relevance                          sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &cat, &e.Title, &url, &srcType, &publisher, &published, &snippet, &relevance, &fetched); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		e.Category = types.Category(cat)
		e.SourceType = types.SourceType(srcType)
		e.URL = url.String
		e.Publisher = publisher.String
		e.PublishedDate = published.String
		e.Snippet = snippet.String
		e.RelevanceScore = relevance.Float64
		e.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetched)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Texts returns the grounding corpus of cat: the title, snippet and URL of
// every stored source of that category (all categories when empty).
func (s *Store) Texts(ctx context.Context, cat types.Category) ([]string, error) {
	entries, err := s.Search(ctx, Query{Category: cat, Limit: -1})
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(entries)*3)
	for _, e := range entries {
		for _, t := range []string{e.Title, e.Snippet, e.URL} {
			if strings.TrimSpace(t) != "" {
				texts = append(texts, t)
			}
		}
	}
	return texts, nil
}
