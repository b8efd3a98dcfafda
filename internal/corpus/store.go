// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists every retrieved source and every pipeline run in
// a SQLite database at <output>/index/corpus.db. The stored sources back
// the fact-grounding filter when a draft is checked outside the pipeline.
package corpus

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "corpus.db"

	defaultLimit = 20

	// timeLayout is a fixed-width UTC timestamp, so stored times sort as
	// text in time order. Values are parsed back with time.RFC3339Nano.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// Store manages the corpus database.
type Store struct {
	db       *sql.DB
	indexDir string
	now      func() time.Time
}

// Open opens or creates the corpus database under outputDir/index.
func Open(outputDir string) (*Store, error) {
	dir := filepath.Join(outputDir, indexDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, indexDir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the directory holding the database and exports.
func (s *Store) Path() string {
	return s.indexDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT,
			source_type TEXT,
			publisher TEXT,
			published_date TEXT,
			snippet TEXT,
			relevance REAL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_category ON sources(category)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_fetched_at ON sources(fetched_at)`,
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			topic TEXT,
			status TEXT NOT NULL,
			score REAL,
			rounds INTEGER,
			output_path TEXT,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SourceID is the stable key of a source: the first 12 hex characters of
// SHA-256 over the normalised URL, or over the title when there is no URL.
func SourceID(src types.Source) string {
	key := sources.NormalizeURL(src.URL)
	if key == "" {
		key = "title:" + strings.ToLower(strings.TrimSpace(src.Title))
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))[:12]
}

// AddSources upserts srcs under cat and returns the number written.
// Sources with neither title nor URL are skipped.
func (s *Store) AddSources(ctx context.Context, cat types.Category, srcs []types.Source) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sources (id, category, title, url, source_type, publisher, published_date, snippet, relevance, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			category=excluded.category, title=excluded.title, url=excluded.url,
			source_type=excluded.source_type, publisher=excluded.publisher,
			published_date=COALESCE(NULLIF(excluded.published_date, ''), sources.published_date),
			snippet=CASE WHEN length(excluded.snippet) > length(sources.snippet) THEN excluded.snippet ELSE sources.snippet END,
			relevance=excluded.relevance, fetched_at=excluded.fetched_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := formatTime(s.now())
	n := 0
	for _, src := range srcs {
		if strings.TrimSpace(src.Title) == "" && strings.TrimSpace(src.URL) == "" {
			continue
		}
		relevance := src.RelevanceScore
		if relevance == 0 {
			relevance = types.DefaultRelevance
		}
		_, err := stmt.ExecContext(ctx,
			SourceID(src), string(cat), src.Title, src.URL, string(src.SourceType),
			src.Publisher, src.PublishedDate, src.Snippet, relevance, fetchedAt,
		)
		if err != nil {
			return n, fmt.Errorf("inserting source %q: %w", src.Title, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sources: %w", err)
	}
	return n, nil
}

// Count returns the number of stored sources.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sources: %w", err)
	}
	return n, nil
}
