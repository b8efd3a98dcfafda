// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the blog-agents CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/blog-agents/internal/config"
	"github.com/pdiddy/blog-agents/internal/secrets"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Secret keys.
const (
	keyAnthropic   = "ANTHROPIC_API_KEY"
	keyGemini      = "GEMINI_API_KEY"
	keyCredentials = "GOOGLE_CREDENTIALS_PATH"
	keyBlogID      = "BLOGGER_BLOG_ID"
	keyNaverID     = "NAVER_BLOG_ID"
)

const defaultCredentialsPath = "config/google/credentials.json"

var (
	// loadedSecrets resolves API keys from the environment, .env and .secrets/.
	loadedSecrets *secrets.Store

	// settings is config/settings.yaml with defaults applied.
	settings types.Settings

	logger = zap.NewNop()
)

// rootCmd is the base command for the blog-agents CLI.
var rootCmd = &cobra.Command{
	Use:   "blog-agents",
	Short: "Research, write, review and publish posts for a Korean economics and law blog",
	Long: `blog-agents runs a three-agent content pipeline. The research agent collects
feeds, government press releases and news searches and proposes topics; the
writer drafts a post from a grounded research brief; the editor scores it and
asks for revisions until it is approved. Finished posts are published to
Blogger or Naver Blog.

Every artifact (briefs, drafts, reviews, final markdown) is written under the
output directory, and every retrieved source is kept in a SQLite corpus that
later drafts are fact-checked against.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		dir := projectDir(cmd)
		s, err := secrets.Open(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		if cfgFile == "" {
			cfgFile = filepath.Join(dir, config.SettingsFile)
		}
		settings, err = config.LoadSettings(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("settings loaded", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("project-dir", "d", ".", "project root holding config/, .env and .secrets/")
	rootCmd.PersistentFlags().String("config", "", "settings file (default: <project-dir>/config/settings.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("grounding", "", "grounding mode: strip, flag or off (overrides settings)")
	_ = viper.BindPFlag("grounding.mode", rootCmd.PersistentFlags().Lookup("grounding"))
}

func projectDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("project-dir")
	if dir == "" {
		return "."
	}
	return dir
}

// projectPath resolves p against the project directory unless absolute.
func projectPath(cmd *cobra.Command, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir(cmd), p)
}

// secret returns the resolved secret for key, or fallback.
func secret(key, fallback string) string {
	if loadedSecrets == nil {
		return fallback
	}
	return loadedSecrets.GetDefault(key, fallback)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
