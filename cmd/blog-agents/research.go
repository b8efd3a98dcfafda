// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/ui"
)

var researchCmd = &cobra.Command{
	Use:   "research [category]",
	Short: "Collect sources and list proposed topics without writing",
	Long: `Research collects feeds, press releases and news searches for a
category, stores every source in the corpus, and prints the topics the
research agent proposes. Nothing is drafted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	category, err := categoryArg(args, p.NextCategory)
	if err != nil {
		return err
	}
	topics, err := p.RunResearchOnly(cmd.Context(), category)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(topics) == 0 {
		fmt.Fprintln(out, "No topics proposed.")
		return nil
	}
	fmt.Fprintln(out, ui.Panel(category.DisplayName()+" 주제 후보", ui.TopicList(topics)))
	return nil
}
