// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/corpus"
	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/internal/ui"
	"github.com/pdiddy/blog-agents/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Query and export the stored source corpus",
	Long: `Corpus reads the SQLite database of every source the research agent has
retrieved. Drafts are fact-checked against it.`,
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored sources by title or snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCorpusSearch,
}

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored sources and runs as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runCorpusExport,
}

func init() {
	corpusSearchCmd.Flags().String("category", "", "limit to a category")
	corpusSearchCmd.Flags().Int("limit", 20, "maximum results (-1 for all)")
	corpusSearchCmd.Flags().Duration("since", 0, "only sources fetched within this window, e.g. 168h")

	corpusExportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	corpusExportCmd.Flags().String("category", "", "limit to a category")

	corpusCmd.AddCommand(corpusSearchCmd, corpusExportCmd)
	rootCmd.AddCommand(corpusCmd)
}

// categoryFlag parses an optional --category value.
func categoryFlag(cmd *cobra.Command) (types.Category, error) {
	s, _ := cmd.Flags().GetString("category")
	if s == "" {
		return "", nil
	}
	return types.ParseCategory(s)
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	cat, err := categoryFlag(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")

	q := corpus.Query{Category: cat, Limit: limit}
	if len(args) == 1 {
		q.Text = args[0]
	}
	if since > 0 {
		q.Since = time.Now().Add(-since)
	}

	_, store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(cmd.Context(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.FetchedAt.Local().Format("2006-01-02"),
			e.Category.DisplayName(),
			sources.Truncate(e.Title, 50),
			e.Publisher,
			e.URL,
		})
	}
	fmt.Fprintln(out, ui.Table([]string{"수집일", "카테고리", "제목", "출처", "URL"}, rows))
	fmt.Fprintf(out, "\n%d sources\n", len(entries))
	return nil
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	cat, err := categoryFlag(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	_, store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var doc string
	switch strings.ToLower(format) {
	case "yaml", "yml":
		doc, err = store.ExportYAML(cmd.Context(), cat)
	case "json":
		doc, err = store.ExportJSON(cmd.Context(), cat)
	default:
		return fmt.Errorf("unknown format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)
	return nil
}
