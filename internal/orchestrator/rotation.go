// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// RotationStateFile is the rotation state path relative to the project root.
const RotationStateFile = "config/rotation_state.json"

// RotationState records the category of the last generated post.
type RotationState struct {
	LastCategory  types.Category `json:"last_category"`
	LastGenerated string         `json:"last_generated"`
}

// NextCategory returns the category after the last one generated, in
// types.Categories order. The last category is read from the state file,
// else from the newest published file name, else the rotation starts over.
func (o *Orchestrator) NextCategory() types.Category {
	last := o.lastCategory()
	i := slices.Index(types.Categories, last)
	if i < 0 {
		return types.Categories[0]
	}
	return types.Categories[(i+1)%len(types.Categories)]
}

func (o *Orchestrator) lastCategory() types.Category {
	if o.StatePath != "" {
		if data, err := os.ReadFile(o.StatePath); err == nil {
			var st RotationState
			if json.Unmarshal(data, &st) == nil && st.LastCategory != "" {
				return st.LastCategory
			}
		}
	}

	if o.Storage == nil {
		return ""
	}
	files, err := o.Storage.ListFiles(storage.PublishedDir, "*.md")
	if err != nil || len(files) == 0 {
		return ""
	}
	name := filepath.Base(files[0])
	for _, c := range types.Categories {
		if strings.Contains(name, "_"+string(c)+"_") {
			return c
		}
	}
	return ""
}

// SaveRotationState records category as the last generated one.
func (o *Orchestrator) SaveRotationState(category types.Category) error {
	if o.StatePath == "" {
		return nil
	}
	st := RotationState{LastCategory: category, LastGenerated: o.now().Format("2006-01-02 15:04")}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(o.StatePath), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(o.StatePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing rotation state: %w", err)
	}
	return nil
}
