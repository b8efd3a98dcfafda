// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads config/settings.yaml through viper and
// config/sources.yaml through yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/blog-agents/pkg/types"
)

// Project-relative configuration paths.
const (
	SettingsFile = "config/settings.yaml"
	SourcesFile  = "config/sources.yaml"
	PromptsDir   = "config/prompts"
)

// EnvPrefix prefixes environment overrides of settings keys, e.g.
// BLOG_AGENTS_QUALITY_APPROVAL_THRESHOLD.
const EnvPrefix = "BLOG_AGENTS"

// defaults registers every settings key so environment overrides apply
// even when the file omits the key.
var defaults = map[string]any{
	"models.research":                 types.DefaultResearchModel,
	"models.writer":                   types.DefaultWriterModel,
	"models.editor":                   types.DefaultEditorModel,
	"quality.approval_threshold":      7.0,
	"quality.max_revision_rounds":     3,
	"quality.max_retries":             2,
	"grounding.mode":                  string(types.GroundingStrip),
	"grounding.date_repeat_threshold": 3,
	"grounding.allow":                 []string{},
	"storage.base_path":               "./output",
	"http.timeout":                    "30s",
	"http.user_agent":                 "",
}

// LoadSettings reads the settings file at path into v and decodes it. A
// missing file is not an error; the defaults apply.
func LoadSettings(v *viper.Viper, path string) (types.Settings, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return types.Settings{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var s types.Settings
	if err := v.Unmarshal(&s); err != nil {
		return types.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if !validMode(s.Grounding.Mode) {
		return types.Settings{}, fmt.Errorf("grounding.mode %q: use strip, flag or off", s.Grounding.Mode)
	}
	return s.WithDefaults(), nil
}

func validMode(m types.GroundingMode) bool {
	switch m {
	case "", types.GroundingStrip, types.GroundingFlag, types.GroundingOff:
		return true
	}
	return false
}

// LoadSources reads the source catalogue. A missing file yields an empty
// catalogue, which collects nothing but news searches.
func LoadSources(path string) (types.SourcesConfig, error) {
	var cfg types.SourcesConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading sources: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	for cat := range cfg.CategoryMapping {
		if !cat.Valid() {
			return cfg, fmt.Errorf("%s: unknown category %q in category_source_mapping", filepath.Base(path), cat)
		}
	}
	return cfg, nil
}
