// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files, trims whitespace, normalises names",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "  sk-ant-123  \n")
				writeFile(t, dir, "BLOGGER_BLOG_ID", "987654321")
				return dir
			},
			want: map[string]string{
				"ANTHROPIC_API_KEY": "sk-ant-123",
				"BLOGGER_BLOG_ID":   "987654321",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "gemini-api-key", "g-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				return dir
			},
			want: map[string]string{
				"GEMINI_API_KEY": "g-key",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "naver-blog-id", "writer01")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"NAVER_BLOG_ID": "writer01",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "ANTHROPIC_API_KEY=from-dotenv\n# comment\nBLOGGER_BLOG_ID=\"42\"\n")

	got, err := LoadDotEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", got["ANTHROPIC_API_KEY"])
	assert.Equal(t, "42", got["BLOGGER_BLOG_ID"])

	missing, err := LoadDotEnv(filepath.Join(dir, "nope.env"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestStorePrecedence(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".secrets"), 0o755))
	writeFile(t, filepath.Join(root, ".secrets"), "anthropic-api-key", "from-file")
	writeFile(t, filepath.Join(root, ".secrets"), "naver-blog-id", "file-naver")
	writeFile(t, root, ".env", "ANTHROPIC_API_KEY=from-dotenv\nBLOGGER_BLOG_ID=dotenv-blog\n")

	s, err := Open(root)
	require.NoError(t, err)
	env := map[string]string{"BLOGGER_BLOG_ID": "env-blog"}
	s.getenv = func(k string) string { return env[k] }

	assert.Equal(t, "from-dotenv", s.Get(AnthropicAPIKey))
	assert.Equal(t, "env-blog", s.Get("blogger-blog-id"))
	assert.Equal(t, "file-naver", s.Get(NaverBlogID))
	assert.Equal(t, "fallback", s.GetDefault(GeminiAPIKey, "fallback"))
	assert.Equal(t, []string{"ANTHROPIC_API_KEY", "BLOGGER_BLOG_ID", "NAVER_BLOG_ID"}, s.Keys())
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 000 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["GOOD_KEY"])
	_, hasBad := got["BAD_KEY"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
