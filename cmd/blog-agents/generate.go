// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/publish"
	"github.com/pdiddy/blog-agents/internal/ui"
	"github.com/pdiddy/blog-agents/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [category]",
	Short: "Research, write and review one post",
	Long: `Generate runs the full pipeline for a category: source collection and
topic discovery, a grounded research brief, then the write/edit loop until
the editor approves or the round limit is reached. The best draft is saved
under published/.

Without a category the next one in the rotation is used. Categories are
macro, realestate, corporate and global.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("auto", false, "pick the first proposed topic without asking")
	generateCmd.Flags().Bool("publish", false, "publish the result to Blogger")
	generateCmd.Flags().Bool("draft", false, "publish as a Blogger draft")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	auto, _ := cmd.Flags().GetBool("auto")
	doPublish, _ := cmd.Flags().GetBool("publish")
	draft, _ := cmd.Flags().GetBool("draft")

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	category, err := categoryArg(args, p.NextCategory)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Panel("블로그 에이전트", fmt.Sprintf("카테고리: %s", category.DisplayName())))

	res, err := p.RunFullPipeline(cmd.Context(), category, auto)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.ReviewTable(res.Review))
	if !res.Findings.Empty() {
		fmt.Fprintln(out, ui.Panel("근거 점검", ui.Findings(res.Findings)))
	}
	fmt.Fprintln(out, ui.Panel(res.Post.Draft.Title, fmt.Sprintf("%d 라운드 · %s", res.Rounds, res.OutputPath)))

	if !doPublish && !draft {
		return nil
	}
	pub, err := newBlogger(cmd)
	if err != nil {
		return err
	}
	post, err := pub.PublishMarkdownFile(cmd.Context(), res.OutputPath, publish.LabelsForFile(res.OutputPath), draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Published: %s\n", post.Url)
	return nil
}

// categoryArg parses the optional category argument, falling back to next.
func categoryArg(args []string, next func() types.Category) (types.Category, error) {
	if len(args) == 0 {
		return next(), nil
	}
	return types.ParseCategory(args[0])
}
