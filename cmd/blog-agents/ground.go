// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/agents"
	"github.com/pdiddy/blog-agents/internal/grounding"
	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/internal/ui"
	"github.com/pdiddy/blog-agents/pkg/types"
)

var groundCmd = &cobra.Command{
	Use:   "ground <file>",
	Short: "Fact-check a markdown post against the stored corpus",
	Long: `Ground checks the proper nouns, URLs and dates of a markdown post
against every stored source of the post's category plus the configured
allow list, and lists whatever the corpus does not support.

With --write the post is rewritten in place using the configured grounding
mode: strip removes unsupported sentences, flag marks them.`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	groundCmd.Flags().String("category", "", "category corpus to check against (default: from the file name)")
	groundCmd.Flags().Bool("write", false, "rewrite the file with unsupported claims handled")
	rootCmd.AddCommand(groundCmd)
}

// categoryFromFile returns the category encoded in a
// <date>_<category>_<slug> file name, or "".
func categoryFromFile(path string) types.Category {
	name := filepath.Base(path)
	for _, c := range types.Categories {
		if strings.Contains(name, "_"+string(c)+"_") {
			return c
		}
	}
	return ""
}

func runGround(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	path, err := resolveFile(cmd, args[0])
	if err != nil {
		return err
	}
	cat, err := categoryFlag(cmd)
	if err != nil {
		return err
	}
	if cat == "" {
		cat = categoryFromFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	texts, err := store.Texts(cmd.Context(), cat)
	if err != nil {
		return err
	}
	corp := grounding.NewCorpus(texts, settings.Grounding.Allow)
	report := grounding.Check(string(data), corp, grounding.OptionsFrom(settings.Grounding, time.Now()))

	out := cmd.OutOrStdout()
	title := "근거 점검"
	if cat != "" {
		title += " · " + cat.DisplayName()
	}
	fmt.Fprintln(out, ui.Panel(title, ui.Findings(report)))

	if !write || report.Empty() || settings.Grounding.Mode == types.GroundingOff {
		return nil
	}
	fixed, err := sanitizeDocument(string(data), report, settings.Grounding.Mode)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "%s rewritten (%s, %d findings)\n", path, settings.Grounding.Mode, report.Count())
	return nil
}

// sanitizeDocument sanitizes the body of a markdown post. When the post has
// frontmatter its meta description is rebuilt from the stripped body.
func sanitizeDocument(text string, report grounding.Report, mode types.GroundingMode) (string, error) {
	fm, body, err := storage.ParseFrontmatter(text)
	if err != nil {
		return "", err
	}
	fixed := grounding.Sanitize(body, report, mode)
	if body == text {
		return fixed, nil
	}
	if fm.MetaDescription != "" {
		stripped := grounding.Sanitize(body, report, types.GroundingStrip)
		fm.MetaDescription = agents.MetaDescription(stripped, fm.Title, "")
	}
	return storage.RenderMarkdown(strings.TrimLeft(fixed, "\n"), &fm)
}
