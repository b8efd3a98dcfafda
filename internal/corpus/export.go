// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Sources []Entry `json:"sources" yaml:"sources"`
	Runs    []Run   `json:"runs" yaml:"runs"`
}

const exportLimit = 100000

// ExportYAML writes the corpus of cat (all when empty) to index/export.yaml
// and returns the path.
func (s *Store) ExportYAML(ctx context.Context, cat types.Category) (string, error) {
	return s.export(ctx, cat, FormatYAML)
}

// ExportJSON writes the corpus of cat (all when empty) to index/export.json
// and returns the path.
func (s *Store) ExportJSON(ctx context.Context, cat types.Category) (string, error) {
	return s.export(ctx, cat, FormatJSON)
}

func (s *Store) export(ctx context.Context, cat types.Category, format string) (string, error) {
	entries, err := s.Search(ctx, Query{Category: cat, Limit: exportLimit})
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	runs, err := s.RecentRuns(ctx, exportLimit)
	if err != nil {
		return "", fmt.Errorf("querying runs for export: %w", err)
	}
	doc := Export{Sources: entries, Runs: runs}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", format, err)
	}

	path := filepath.Join(s.indexDir, "export."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
