// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every stage that makes
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ModelsConfig names the LLM model used by each agent. A model whose name
// starts with "gemini" is served by the Gemini backend; anything else by Claude.
type ModelsConfig struct {
	Research string `json:"research" yaml:"research" mapstructure:"research"`
	Writer   string `json:"writer" yaml:"writer" mapstructure:"writer"`
	Editor   string `json:"editor" yaml:"editor" mapstructure:"editor"`
}

// QualityConfig bounds the write/edit loop.
type QualityConfig struct {
	// ApprovalThreshold is the overall score at which the editor approves (default 7.0).
	ApprovalThreshold float64 `json:"approval_threshold" yaml:"approval_threshold" mapstructure:"approval_threshold"`

	// MaxRevisionRounds is the number of editor reviews before the best draft is taken (default 3).
	MaxRevisionRounds int `json:"max_revision_rounds" yaml:"max_revision_rounds" mapstructure:"max_revision_rounds"`

	// MaxRetries is the retry count for failed or malformed LLM calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// GroundingMode selects what the fact-grounding filter does with
// unsupported claims.
type GroundingMode string

const (
	GroundingStrip GroundingMode = "strip"
	GroundingFlag  GroundingMode = "flag"
	GroundingOff   GroundingMode = "off"
)

// GroundingConfig configures the fact-grounding filter.
type GroundingConfig struct {
	Mode GroundingMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// DateRepeatThreshold is the number of distinct sentences sharing one
	// ungrounded date before the date is treated as fabricated (default 3).
	DateRepeatThreshold int `json:"date_repeat_threshold" yaml:"date_repeat_threshold" mapstructure:"date_repeat_threshold"`

	// Allow lists terms that are always considered grounded (house style
	// names, common acronyms).
	Allow []string `json:"allow" yaml:"allow" mapstructure:"allow"`
}

// StorageConfig locates the artifact tree.
type StorageConfig struct {
	BasePath string `json:"base_path" yaml:"base_path" mapstructure:"base_path"`
}

// Settings is the content of config/settings.yaml.
type Settings struct {
	Models    ModelsConfig    `json:"models" yaml:"models" mapstructure:"models"`
	Quality   QualityConfig   `json:"quality" yaml:"quality" mapstructure:"quality"`
	Grounding GroundingConfig `json:"grounding" yaml:"grounding" mapstructure:"grounding"`
	Storage   StorageConfig   `json:"storage" yaml:"storage" mapstructure:"storage"`
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
}

// Default model identifiers.
const (
	DefaultResearchModel = "claude-haiku-4-5-20251001"
	DefaultWriterModel   = "claude-sonnet-4-5-20250929"
	DefaultEditorModel   = "claude-sonnet-4-5-20250929"
)

// WithDefaults fills zero fields with their documented defaults.
func (s Settings) WithDefaults() Settings {
	if s.Models.Research == "" {
		s.Models.Research = DefaultResearchModel
	}
	if s.Models.Writer == "" {
		s.Models.Writer = DefaultWriterModel
	}
	if s.Models.Editor == "" {
		s.Models.Editor = DefaultEditorModel
	}
	if s.Quality.ApprovalThreshold <= 0 {
		s.Quality.ApprovalThreshold = 7.0
	}
	if s.Quality.MaxRevisionRounds <= 0 {
		s.Quality.MaxRevisionRounds = 3
	}
	if s.Quality.MaxRetries <= 0 {
		s.Quality.MaxRetries = 2
	}
	if s.Grounding.Mode == "" {
		s.Grounding.Mode = GroundingStrip
	}
	if s.Grounding.DateRepeatThreshold <= 0 {
		s.Grounding.DateRepeatThreshold = 3
	}
	if s.Storage.BasePath == "" {
		s.Storage.BasePath = "./output"
	}
	if s.HTTP.Timeout <= 0 {
		s.HTTP.Timeout = 30 * time.Second
	}
	if s.HTTP.UserAgent == "" {
		s.HTTP.UserAgent = "BlogAgents/1.0 (+https://econlaw-lab.blogspot.com)"
	}
	return s
}

// FeedGroups maps a group name to publishers, and each publisher to its
// named feed URLs.
type FeedGroups map[string]map[string]map[string]string

// ScrapeTarget describes how to read a press-release listing that has no feed.
type ScrapeTarget struct {
	URL           string `json:"url" yaml:"url"`
	ListSelector  string `json:"list_selector" yaml:"list_selector"`
	TitleSelector string `json:"title_selector" yaml:"title_selector"`
	DateSelector  string `json:"date_selector" yaml:"date_selector"`
	BaseURL       string `json:"base_url" yaml:"base_url"`

	// Encoding forces a page charset (e.g. "euc-kr"); empty means detect.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// CategoryMapping lists the sources consulted for one category.
type CategoryMapping struct {
	Government   []string `json:"government" yaml:"government"`
	NewsKeywords []string `json:"news_keywords" yaml:"news_keywords"`
	RSSGroups    []string `json:"rss_groups" yaml:"rss_groups"`
}

// SourcesConfig is the content of config/sources.yaml.
type SourcesConfig struct {
	RSSGroups        FeedGroups                   `json:"rss_groups" yaml:"rss_groups"`
	GovernmentScrape map[string]ScrapeTarget      `json:"government_scrape" yaml:"government_scrape"`
	CategoryMapping  map[Category]CategoryMapping `json:"category_source_mapping" yaml:"category_source_mapping"`
}

// Mapping returns the source mapping for a category (zero value if absent).
func (c SourcesConfig) Mapping(cat Category) CategoryMapping {
	return c.CategoryMapping[cat]
}
