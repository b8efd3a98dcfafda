// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-agents/pkg/types"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	path := write(t, t.TempDir(), "settings.yaml", `
models:
  writer: gemini-2.5-pro
quality:
  approval_threshold: 7.5
grounding:
  mode: flag
  allow: [KOSPI, 이코노로]
http:
  timeout: 10s
`)
	s, err := LoadSettings(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", s.Models.Writer)
	assert.Equal(t, types.DefaultResearchModel, s.Models.Research)
	assert.Equal(t, 7.5, s.Quality.ApprovalThreshold)
	assert.Equal(t, 3, s.Quality.MaxRevisionRounds)
	assert.Equal(t, types.GroundingFlag, s.Grounding.Mode)
	assert.Equal(t, []string{"KOSPI", "이코노로"}, s.Grounding.Allow)
	assert.Equal(t, 10*time.Second, s.HTTP.Timeout)
	assert.Equal(t, "./output", s.Storage.BasePath)
	assert.NotEmpty(t, s.HTTP.UserAgent)
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(viper.New(), filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, types.GroundingStrip, s.Grounding.Mode)
	assert.Equal(t, 7.0, s.Quality.ApprovalThreshold)
	assert.Equal(t, 30*time.Second, s.HTTP.Timeout)
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("BLOG_AGENTS_QUALITY_MAX_REVISION_ROUNDS", "5")
	s, err := LoadSettings(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 5, s.Quality.MaxRevisionRounds)
}

func TestLoadSettingsRejectsUnknownMode(t *testing.T) {
	path := write(t, t.TempDir(), "settings.yaml", "grounding:\n  mode: delete\n")
	_, err := LoadSettings(viper.New(), path)
	assert.ErrorContains(t, err, "grounding.mode")
}

func TestLoadSources(t *testing.T) {
	path := write(t, t.TempDir(), "sources.yaml", `
rss_groups:
  institution_rss:
    한국은행:
      press: https://www.bok.or.kr/portal/bbs/B0000338/news.rss
government_scrape:
  공정거래위원회:
    url: https://www.ftc.go.kr/www/selectReportUserList.do?key=10
    list_selector: table tbody tr
    title_selector: td.tl a
    date_selector: td:last-child
    base_url: https://www.ftc.go.kr
category_source_mapping:
  macro_finance:
    news_keywords: [기준금리]
    rss_groups: [institution_rss]
  corporate_fair:
    government: [공정거래위원회]
`)
	cfg, err := LoadSources(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.bok.or.kr/portal/bbs/B0000338/news.rss", cfg.RSSGroups["institution_rss"]["한국은행"]["press"])
	assert.Equal(t, "https://www.ftc.go.kr", cfg.GovernmentScrape["공정거래위원회"].BaseURL)
	assert.Equal(t, []string{"기준금리"}, cfg.Mapping(types.CategoryMacroFinance).NewsKeywords)
	assert.Equal(t, []string{"공정거래위원회"}, cfg.Mapping(types.CategoryCorporateFair).Government)
}

func TestLoadSourcesErrors(t *testing.T) {
	cfg, err := LoadSources(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.CategoryMapping)

	path := write(t, t.TempDir(), "sources.yaml", "category_source_mapping:\n  seoul_exhibition:\n    news_keywords: [전시]\n")
	_, err = LoadSources(path)
	assert.ErrorContains(t, err, "seoul_exhibition")
}
