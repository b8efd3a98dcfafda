// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/publish"
	"github.com/pdiddy/blog-agents/internal/ui"
)

var naverCmd = &cobra.Command{
	Use:   "naver",
	Short: "Publish to Naver Blog through a browser session",
	Long: `Naver drives the Naver Blog SmartEditor in a Chromium window. The login
session is kept under ~/.blog-agents/naver-session so it survives between
runs. Run "naver login" once before publishing.`,
}

var naverLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Naver and save the browser session",
	Args:  cobra.NoArgs,
	RunE:  runNaverLogin,
}

var naverPublishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Publish a finished post to Naver Blog",
	Long: `Publish converts a published markdown file to inline-styled HTML the
SmartEditor accepts, pastes it into a new post and publishes it. Tags default
to the post's keywords. With --draft the post is saved but not published.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNaverPublish,
}

func init() {
	naverPublishCmd.Flags().Bool("draft", false, "save as a draft instead of publishing")
	naverPublishCmd.Flags().String("category", "", "Naver blog category to file the post under")
	naverPublishCmd.Flags().StringSlice("tags", nil, "tags (default: the post keywords)")
	naverCmd.AddCommand(naverLoginCmd, naverPublishCmd)
	rootCmd.AddCommand(naverCmd)
}

func runNaverLogin(cmd *cobra.Command, args []string) error {
	pub, err := newNaver(cmd)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.Login(cmd.Context())
}

func runNaverPublish(cmd *cobra.Command, args []string) error {
	draft, _ := cmd.Flags().GetBool("draft")
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tags")

	path, err := pickFile(cmd, args)
	if err != nil {
		return err
	}
	pub, err := newNaver(cmd)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.Login(cmd.Context()); err != nil {
		return err
	}
	res, err := pub.PublishMarkdownFile(cmd.Context(), path, publish.NaverPostOptions{
		Tags:     tags,
		Draft:    draft,
		Category: category,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Panel(res.Title, fmt.Sprintf("%s %s", res.Action, res.URL)))
	return nil
}
