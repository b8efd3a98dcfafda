// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the system prompts of the agents. Built-in
// templates are embedded; a file of the same name in the override
// directory (config/prompts) takes precedence.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Template names.
const (
	Research = "research_agent.tmpl"
	Writer   = "writer_agent.tmpl"
	Editor   = "editor_agent.tmpl"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// WriterStyle returns the name of the category style template.
func WriterStyle(cat types.Category) string {
	return "writer_" + string(cat) + ".tmpl"
}

// ResearchData is the data of the research template.
type ResearchData struct {
	Category     types.Category
	CategoryName string
}

// WriterData is the data of the writer template.
type WriterData struct {
	RevisionInstructions string
	LineEdits            []types.LineEdit
}

// EditorData is the data of the editor template.
type EditorData struct {
	Threshold float64
}

// Loader finds and renders templates.
type Loader struct {
	// Dir is the override directory; empty means embedded templates only.
	Dir string
}

// NewLoader returns a Loader that prefers templates in dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Has reports whether a template named name exists.
func (l *Loader) Has(name string) bool {
	_, err := l.source(name)
	return err == nil
}

// Render executes the template named name with data.
func (l *Loader) Render(name string, data any) (string, error) {
	src, err := l.source(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parsing prompt %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

func (l *Loader) source(name string) ([]byte, error) {
	if l != nil && l.Dir != "" {
		data, err := os.ReadFile(filepath.Join(l.Dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading prompt %s: %w", name, err)
		}
	}
	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("prompt %s not found: %w", name, err)
	}
	return data, nil
}
