// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/internal/ui"
)

const (
	statusPosts = 10
	statusRuns  = 10
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show artifact counts, recent posts and recent pipeline runs",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	out := cmd.OutOrStdout()

	var counts []string
	for _, sub := range storage.Subdirs {
		pattern := "*.json"
		if sub == storage.PublishedDir || sub == storage.DraftsDir {
			pattern = "*.md"
		}
		files, err := mgr.ListFiles(sub, pattern)
		if err != nil {
			return err
		}
		counts = append(counts, fmt.Sprintf("%s %d", sub, len(files)))
	}
	sources, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	counts = append(counts, fmt.Sprintf("sources %d", sources))

	next := "-"
	if o, err := rotation(cmd); err == nil {
		next = o.NextCategory().DisplayName()
	}
	fmt.Fprintln(out, ui.Panel("블로그 에이전트 현황",
		strings.Join(counts, " · ")+"\n다음 카테고리: "+next))

	published, err := mgr.ListFiles(storage.PublishedDir, "*.md")
	if err != nil {
		return err
	}
	if len(published) > statusPosts {
		published = published[:statusPosts]
	}
	if len(published) > 0 {
		rows := make([][]string, 0, len(published))
		for _, p := range published {
			name := filepath.Base(p)
			date := ""
			if len(name) >= 10 {
				date = name[:10]
			}
			rows = append(rows, []string{date, name})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Table([]string{"날짜", "파일"}, rows))
	}

	runs, err := store.RecentRuns(cmd.Context(), statusRuns)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.RunTable(runs))
	}
	return nil
}
