// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/pkg/types"
)

func writeState(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestNextCategory(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		published []string
		want      types.Category
	}{
		{name: "nothing yet", want: types.CategoryMacroFinance},
		{name: "state file", state: `{"last_category":"real_estate_tax"}`, want: types.CategoryCorporateFair},
		{name: "wraps around", state: `{"last_category":"global_news"}`, want: types.CategoryMacroFinance},
		{name: "unknown restarts", state: `{"last_category":"seoul_exhibition"}`, want: types.CategoryMacroFinance},
		{
			name:      "newest published file",
			published: []string{"2026-10-12_global_news_a_final.md", "2026-10-18_corporate_fair_b_final.md"},
			want:      types.CategoryGlobalNews,
		},
		{
			name:      "state file wins",
			state:     `{"last_category":"macro_finance"}`,
			published: []string{"2026-10-18_corporate_fair_b_final.md"},
			want:      types.CategoryRealEstateTax,
		},
		{
			name:      "broken state falls back",
			state:     `{not json`,
			published: []string{"2026-10-18_macro_finance_b_final.md"},
			want:      types.CategoryRealEstateTax,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, _ := newTestOrchestrator(t, &fakeWriter{}, &fakeEditor{})
			if tt.state != "" {
				writeState(t, o.StatePath, tt.state)
			}
			for _, name := range tt.published {
				path := filepath.Join(o.Storage.Root, storage.PublishedDir, name)
				require.NoError(t, os.WriteFile(path, []byte("# x\n"), 0o644))
			}
			assert.Equal(t, tt.want, o.NextCategory())
		})
	}
}

func TestSaveRotationState(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, &fakeWriter{}, &fakeEditor{})
	require.NoError(t, o.SaveRotationState(types.CategoryCorporateFair))

	data, err := os.ReadFile(o.StatePath)
	require.NoError(t, err)
	var st RotationState
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, types.CategoryCorporateFair, st.LastCategory)
	assert.Equal(t, "2026-10-19 09:30", st.LastGenerated)
	assert.Equal(t, types.CategoryGlobalNews, o.NextCategory())

	o.StatePath = ""
	assert.NoError(t, o.SaveRotationState(types.CategoryGlobalNews))
}
