// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage writes pipeline artifacts to the output tree:
// research briefs, drafts, reviews, and published markdown.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Artifact subdirectories.
const (
	ResearchDir  = "research"
	DraftsDir    = "drafts"
	ReviewsDir   = "reviews"
	PublishedDir = "published"
)

// Subdirs lists every artifact subdirectory.
var Subdirs = []string{ResearchDir, DraftsDir, ReviewsDir, PublishedDir}

// DefaultSlugLength is the rune limit of Slugify.
const DefaultSlugLength = 30

// Slugify turns text into a file-name-safe slug of at most max runes.
// Spaces and slashes become '-'; only ASCII letters, digits, '-', '_' and
// Hangul syllables are kept.
func Slugify(text string, max int) string {
	if max <= 0 {
		max = DefaultSlugLength
	}
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n >= max {
			break
		}
		switch {
		case r == ' ' || r == '/' || r == '\\':
			r = '-'
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		case r >= '가' && r <= '힣':
		default:
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Manager owns the output tree.
type Manager struct {
	Root string

	// Now stamps file names; tests pin it.
	Now func() time.Time
}

// NewManager creates the artifact subdirectories under root.
func NewManager(root string) (*Manager, error) {
	for _, sub := range Subdirs {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", sub, err)
		}
	}
	return &Manager{Root: root, Now: time.Now}, nil
}

// FileName returns <YYYY-MM-DD>_<category>_<slug><suffix>.<ext>.
func (m *Manager) FileName(cat types.Category, slug, suffix, ext string) string {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return fmt.Sprintf("%s_%s_%s%s.%s", now().Format("2006-01-02"), cat, Slugify(slug, DefaultSlugLength), suffix, ext)
}

// SaveJSON writes v as indented JSON and returns the file path.
func (m *Manager) SaveJSON(subdir string, v any, cat types.Category, slug, suffix string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshaling %s: %w", subdir, err)
	}

	path := filepath.Join(m.Root, subdir, m.FileName(cat, slug, suffix, "json"))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SaveMarkdown writes content, preceded by a YAML frontmatter block when
// fm is not nil, and returns the file path.
func (m *Manager) SaveMarkdown(subdir, content string, cat types.Category, slug, suffix string, fm *types.Frontmatter) (string, error) {
	doc, err := RenderMarkdown(content, fm)
	if err != nil {
		return "", err
	}
	path := filepath.Join(m.Root, subdir, m.FileName(cat, slug, suffix, "md"))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// RenderMarkdown prefixes content with fm as a YAML frontmatter block.
// A nil fm returns content unchanged.
func RenderMarkdown(content string, fm *types.Frontmatter) (string, error) {
	if fm == nil {
		return content, nil
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(content)
	return buf.String(), nil
}

// ListFiles returns the files of subdir matching pattern, newest name first.
func (m *Manager) ListFiles(subdir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.json"
	}
	paths, err := filepath.Glob(filepath.Join(m.Root, subdir, pattern))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", subdir, err)
	}
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) > filepath.Base(paths[j])
	})
	return paths, nil
}

// LoadJSON decodes the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ParseFrontmatter splits a markdown document into its YAML frontmatter
// and body. A document without frontmatter yields a zero Frontmatter and
// the whole text as body.
func ParseFrontmatter(md string) (types.Frontmatter, string, error) {
	var fm types.Frontmatter
	text := strings.TrimPrefix(md, "\ufeff")
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return fm, md, nil
	}
	rest := text[strings.Index(text, "\n")+1:]

	end := -1
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.TrimRight(line, "\r\n") == "---" {
			end = offset
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return fm, md, nil
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, md, fmt.Errorf("parsing frontmatter: %w", err)
	}
	body := ""
	if nl := strings.Index(rest[end:], "\n"); nl >= 0 {
		body = rest[end+nl+1:]
	}
	return fm, strings.TrimLeft(body, "\r\n"), nil
}
