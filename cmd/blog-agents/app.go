// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/internal/agents"
	"github.com/pdiddy/blog-agents/internal/config"
	"github.com/pdiddy/blog-agents/internal/corpus"
	"github.com/pdiddy/blog-agents/internal/llm"
	"github.com/pdiddy/blog-agents/internal/orchestrator"
	"github.com/pdiddy/blog-agents/internal/prompt"
	"github.com/pdiddy/blog-agents/internal/publish"
	"github.com/pdiddy/blog-agents/internal/sources"
	"github.com/pdiddy/blog-agents/internal/storage"
)

// politeness is the minimum interval between requests to one host.
const politeness = 500 * time.Millisecond

// outputDir returns the artifact root resolved against the project dir.
func outputDir(cmd *cobra.Command) string {
	return projectPath(cmd, settings.Storage.BasePath)
}

// openStorage opens the artifact tree and its corpus database. The
// caller closes the store.
func openStorage(cmd *cobra.Command) (*storage.Manager, *corpus.Store, error) {
	dir := outputDir(cmd)
	mgr, err := storage.NewManager(dir)
	if err != nil {
		return nil, nil, err
	}
	store, err := corpus.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	return mgr, store, nil
}

// newLLMClient routes Claude models to the Messages API and Gemini models
// to the genai SDK. Gemini is wired only when its key is present.
func newLLMClient(ctx context.Context) (*llm.Client, error) {
	router := &llm.Router{}
	if key := secret(keyAnthropic, ""); key != "" {
		router.Claude = &llm.ClaudeBackend{APIKey: key}
	}
	if key := secret(keyGemini, ""); key != "" {
		g, err := llm.NewGeminiBackend(ctx, key)
		if err != nil {
			return nil, err
		}
		router.Gemini = g
	}
	if router.Claude == nil && router.Gemini == nil {
		return nil, fmt.Errorf("no LLM key configured: set %s or %s", keyAnthropic, keyGemini)
	}
	return llm.NewClient(router, settings.Quality.MaxRetries, logger), nil
}

// newCollector builds the feed, scrape and news fetchers over one shared
// client and per-host limiter.
func newCollector(cmd *cobra.Command) (*sources.Collector, *sources.NewsSearcher, error) {
	cat, err := config.LoadSources(projectPath(cmd, config.SourcesFile))
	if err != nil {
		return nil, nil, err
	}
	client := sources.NewHTTPClient(settings.HTTP.Timeout)
	limiter := sources.NewHostLimiter(politeness)
	ua := settings.HTTP.UserAgent

	news := &sources.NewsSearcher{
		Client:    client,
		UserAgent: ua,
		Limiter:   limiter,
		Resolver:  &sources.Resolver{Client: client, Limiter: limiter, Logger: logger},
		Logger:    logger,
	}
	return &sources.Collector{
		Config:  cat,
		Feeds:   &sources.FeedReader{Client: client, UserAgent: ua, Limiter: limiter, Logger: logger},
		Scraper: &sources.Scraper{Targets: cat.GovernmentScrape, Client: client, Limiter: limiter, Logger: logger},
		News:    news,
		Logger:  logger,
	}, news, nil
}

// pipeline bundles the orchestrator with the resources it holds open.
type pipeline struct {
	*orchestrator.Orchestrator
	store *corpus.Store
}

func (p *pipeline) Close() error { return p.store.Close() }

// newPipeline wires the three agents and the orchestrator.
func newPipeline(cmd *cobra.Command) (*pipeline, error) {
	ctx := cmd.Context()
	client, err := newLLMClient(ctx)
	if err != nil {
		return nil, err
	}
	collector, news, err := newCollector(cmd)
	if err != nil {
		return nil, err
	}
	mgr, store, err := openStorage(cmd)
	if err != nil {
		return nil, err
	}

	prompts := prompt.NewLoader(projectPath(cmd, config.PromptsDir))
	out := cmd.OutOrStdout()

	research := agents.NewResearch(agents.ResearchConfig{
		Model:     settings.Models.Research,
		LLM:       client,
		Prompts:   prompts,
		Collector: collector,
		News:      news,
		Store:     store,
		Sources:   collector.Config,
		Grounding: settings.Grounding,
	})
	research.Out, research.Logger = out, logger

	writer := agents.NewWriter(settings.Models.Writer, client, prompts)
	writer.Out, writer.Logger = out, logger

	editor := agents.NewEditor(settings.Models.Editor, client, prompts, settings.Quality.ApprovalThreshold)
	editor.Out, editor.Logger = out, logger

	return &pipeline{
		Orchestrator: &orchestrator.Orchestrator{
			Research:  research,
			Writer:    writer,
			Editor:    editor,
			Storage:   mgr,
			History:   store,
			Selector:  &stdinSelector{In: cmd.InOrStdin(), Out: out},
			Grounding: settings.Grounding,
			MaxRounds: settings.Quality.MaxRevisionRounds,
			StatePath: projectPath(cmd, orchestrator.RotationStateFile),
			Out:       out,
			Logger:    logger,
		},
		store: store,
	}, nil
}

// rotation returns an orchestrator that can only answer rotation queries.
func rotation(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	mgr, err := storage.NewManager(outputDir(cmd))
	if err != nil {
		return nil, err
	}
	return &orchestrator.Orchestrator{
		Storage:   mgr,
		StatePath: projectPath(cmd, orchestrator.RotationStateFile),
		Logger:    logger,
	}, nil
}

// newBlogger authorizes against Google and returns a Blogger publisher.
func newBlogger(cmd *cobra.Command) (*publish.BloggerPublisher, error) {
	ctx := cmd.Context()
	blogID := secret(keyBlogID, "")
	if blogID == "" {
		return nil, fmt.Errorf("%w: set %s", publish.ErrMissingBlogID, keyBlogID)
	}
	auth := &publish.Authenticator{
		CredentialsPath: projectPath(cmd, secret(keyCredentials, defaultCredentialsPath)),
		Out:             cmd.ErrOrStderr(),
		Logger:          logger,
	}
	if _, err := os.Stat(auth.CredentialsPath); err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	httpClient, err := auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := publish.NewPostService(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	return publish.NewBloggerPublisher(svc, blogID, cmd.OutOrStdout(), logger)
}

// newNaver returns a Naver publisher keeping its browser session under
// the user's home directory.
func newNaver(cmd *cobra.Command) (*publish.NaverPublisher, error) {
	blogID := secret(keyNaverID, "")
	if blogID == "" {
		return nil, fmt.Errorf("%w: set %s", publish.ErrMissingNaverID, keyNaverID)
	}
	return publish.NewNaverPublisher(blogID, "", cmd.OutOrStdout(), logger.With(zap.String("publisher", "naver")))
}

// publishedFiles lists the newest n published markdown files.
func publishedFiles(cmd *cobra.Command, n int) ([]string, error) {
	mgr, err := storage.NewManager(outputDir(cmd))
	if err != nil {
		return nil, err
	}
	files, err := mgr.ListFiles(storage.PublishedDir, "*.md")
	if err != nil {
		return nil, err
	}
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	return files, nil
}

// resolveFile accepts a path as given, or a bare name under published/.
func resolveFile(cmd *cobra.Command, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	candidate := filepath.Join(outputDir(cmd), storage.PublishedDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
}
