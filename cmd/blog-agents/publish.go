// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/blogger/v3"

	"github.com/pdiddy/blog-agents/internal/publish"
	"github.com/pdiddy/blog-agents/internal/ui"
)

// recentChoices is the number of published files offered when publish is
// run without a file.
const recentChoices = 5

var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Publish a finished post to Blogger",
	Long: `Publish converts a published markdown file to styled HTML with JSON-LD
metadata and posts it to Blogger. Labels come from the category in the file
name. Without a file the newest published posts are offered for selection.

The first run opens a browser for Google consent; the token is cached in
token.json next to the credentials file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

var fixLabelsCmd = &cobra.Command{
	Use:   "fix-labels",
	Short: "Give every Blogger post exactly one category label",
	Long: `Fix-labels inspects the most recent Blogger posts. A post whose labels
are not exactly one category name gets the category inferred from its
title. Posts whose title matches no category are left alone.`,
	Args: cobra.NoArgs,
	RunE: runFixLabels,
}

var restyleCmd = &cobra.Command{
	Use:   "restyle",
	Short: "Apply the blog stylesheet to Blogger posts that lack it",
	Args:  cobra.NoArgs,
	RunE:  runRestyle,
}

var blogInfoCmd = &cobra.Command{
	Use:   "blog-info",
	Short: "Show the configured Blogger blog's name, address and post count",
	Args:  cobra.NoArgs,
	RunE:  runBlogInfo,
}

func init() {
	publishCmd.Flags().Bool("draft", false, "create the post as a draft")
	rootCmd.AddCommand(publishCmd, fixLabelsCmd, restyleCmd, blogInfoCmd)
}

// pickFile returns args[0] resolved, or asks the user to choose one of the
// newest published files.
func pickFile(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return resolveFile(cmd, args[0])
	}
	files, err := publishedFiles(cmd, recentChoices)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no published posts under %s", outputDir(cmd))
	}
	out := cmd.OutOrStdout()
	for i, f := range files {
		fmt.Fprintf(out, "%d. %s\n", i+1, filepath.Base(f))
	}
	idx, err := choose(cmd.InOrStdin(), out, fmt.Sprintf("발행할 글을 선택하세요 [1-%d, 기본 1]: ", len(files)), len(files))
	if err != nil {
		return "", err
	}
	return files[idx], nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	draft, _ := cmd.Flags().GetBool("draft")
	path, err := pickFile(cmd, args)
	if err != nil {
		return err
	}
	pub, err := newBlogger(cmd)
	if err != nil {
		return err
	}
	post, err := pub.PublishMarkdownFile(cmd.Context(), path, publish.LabelsForFile(path), draft)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Panel(post.Title, post.Url))
	return nil
}

func runFixLabels(cmd *cobra.Command, args []string) error {
	pub, err := newBlogger(cmd)
	if err != nil {
		return err
	}
	fixes, err := pub.FixLabels(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(fixes))
	changed := 0
	for _, f := range fixes {
		label := f.Label
		switch {
		case f.Skipped:
			label = "(유지)"
		case label == "":
			label = "(추론 실패)"
		default:
			changed++
		}
		rows = append(rows, []string{f.Title, strings.Join(f.Before, ", "), label})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Table([]string{"제목", "기존 라벨", "새 라벨"}, rows))
	fmt.Fprintf(out, "\n%d of %d posts relabeled\n", changed, len(fixes))
	return nil
}

func runRestyle(cmd *cobra.Command, args []string) error {
	pub, err := newBlogger(cmd)
	if err != nil {
		return err
	}
	n, err := pub.RestyleAll(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d posts restyled\n", n)
	return nil
}

func runBlogInfo(cmd *cobra.Command, args []string) error {
	pub, err := newBlogger(cmd)
	if err != nil {
		return err
	}
	b, err := pub.BlogInfo(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"항목", "값"}, blogRows(b)))
	return nil
}

func blogRows(b *blogger.Blog) [][]string {
	posts := "?"
	if b.Posts != nil {
		posts = fmt.Sprint(b.Posts.TotalItems)
	}
	return [][]string{
		{"이름", b.Name},
		{"주소", b.Url},
		{"글 수", posts},
		{"수정", b.Updated},
	}
}
