// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// RunStatus is the outcome of a pipeline run.
type RunStatus string

const (
	RunApproved   RunStatus = "approved"
	RunBestEffort RunStatus = "best_effort"
	RunFailed     RunStatus = "failed"
)

// Run records one pipeline execution.
type Run struct {
	ID         string         `json:"id" yaml:"id"`
	Category   types.Category `json:"category" yaml:"category"`
	Topic      string         `json:"topic" yaml:"topic"`
	Status     RunStatus      `json:"status" yaml:"status"`
	Score      float64        `json:"score" yaml:"score"`
	Rounds     int            `json:"rounds" yaml:"rounds"`
	OutputPath string         `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
}

// RecordRun inserts or replaces a run by ID.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	if r.ID == "" {
		return fmt.Errorf("run has no id")
	}
	finished := ""
	if !r.FinishedAt.IsZero() {
		finished = formatTime(r.FinishedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, category, topic, status, score, rounds, output_path, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			category=excluded.category, topic=excluded.topic, status=excluded.status,
			score=excluded.score, rounds=excluded.rounds, output_path=excluded.output_path,
			error=excluded.error, started_at=excluded.started_at, finished_at=excluded.finished_at`,
		r.ID, string(r.Category), r.Topic, string(r.Status), r.Score, r.Rounds,
		r.OutputPath, r.Error, formatTime(r.StartedAt), finished,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, topic, status, score, rounds, output_path, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                             Run
			cat, status, started          string
			topic, output, errText, ended sql.NullString
			score                         sql.NullFloat64
			rounds                        sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &cat, &topic, &status, &score, &rounds, &output, &errText, &started, &ended); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Category = types.Category(cat)
		r.Status = RunStatus(status)
		r.Topic = topic.String
		r.Score = score.Float64
		r.Rounds = int(rounds.Int64)
		r.OutputPath = output.String
		r.Error = errText.String
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if ended.String != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, ended.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
