// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DraftMetadata is derived from a generated markdown body.
type DraftMetadata struct {
	Title string `json:"title"`

	// MetaDescription is the SEO description (at most 155 runes in practice,
	// 200 allowed).
	MetaDescription string `json:"meta_description"`

	Keywords []string `json:"keywords"`

	// EstimatedReadTimeMinutes is between 1 and 30.
	EstimatedReadTimeMinutes int `json:"estimated_read_time_minutes"`
}

// Draft is one version of a blog post produced by the writer agent.
type Draft struct {
	ID                       string    `json:"id"`
	ResearchBriefID          string    `json:"research_brief_id"`
	Version                  int       `json:"version"`
	CreatedAt                time.Time `json:"created_at"`
	Category                 Category  `json:"category"`
	Title                    string    `json:"title"`
	MetaDescription          string    `json:"meta_description"`
	KeywordsUsed             []string  `json:"keywords_used"`
	EstimatedReadTimeMinutes int       `json:"estimated_read_time_minutes"`
	FullMarkdown             string    `json:"full_markdown"`
	SourcesCited             []Source  `json:"sources_cited"`
}

// BlogPost is an approved (or best-effort) draft ready for publishing.
type BlogPost struct {
	Draft       Draft     `json:"draft"`
	FinalScore  float64   `json:"final_score"`
	ApprovedAt  time.Time `json:"approved_at"`
	EditorNotes string    `json:"editor_notes"`
	HTMLContent string    `json:"html_content,omitempty"`
}

// Frontmatter is the YAML header written above published markdown. Field
// order is the order it appears in the file.
type Frontmatter struct {
	Title           string   `yaml:"title"`
	Date            string   `yaml:"date"`
	Category        Category `yaml:"category"`
	Keywords        []string `yaml:"keywords,flow"`
	MetaDescription string   `yaml:"meta_description"`
	QualityScore    float64  `yaml:"quality_score"`
	RevisionRounds  int      `yaml:"revision_rounds"`
}

// Frontmatter returns the publishing header for the post.
func (p *BlogPost) Frontmatter() Frontmatter {
	return Frontmatter{
		Title:           p.Draft.Title,
		Date:            p.Draft.CreatedAt.Format("2006-01-02"),
		Category:        p.Draft.Category,
		Keywords:        p.Draft.KeywordsUsed,
		MetaDescription: p.Draft.MetaDescription,
		QualityScore:    p.FinalScore,
		RevisionRounds:  p.Draft.Version,
	}
}
