// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/publish"
	"github.com/pdiddy/blog-agents/internal/ui"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render a published post in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().String("style", "", "glamour style (dark, light, notty); default follows the terminal")
	previewCmd.Flags().Int("width", 100, "word-wrap width")
	previewCmd.Flags().Bool("html", false, "print the Blogger HTML instead of rendering")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")
	width, _ := cmd.Flags().GetInt("width")
	asHTML, _ := cmd.Flags().GetBool("html")

	path, err := pickFile(cmd, args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md := publish.StripFrontmatter(string(data))

	out := cmd.OutOrStdout()
	if asHTML {
		fmt.Fprintln(out, publish.MarkdownToHTML(md))
		return nil
	}
	rendered, err := ui.RenderMarkdown(md, style, width)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}
