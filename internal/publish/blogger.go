// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/blogger/v3"
	"google.golang.org/api/option"

	"github.com/pdiddy/blog-agents/internal/storage"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// ErrMissingBlogID is returned when no Blogger blog ID is configured.
var ErrMissingBlogID = errors.New("BLOGGER_BLOG_ID is not set")

// PostMarker is the class of the wrapper div of styled posts.
const PostMarker = "econlaw-post"

// Blog identity used in the structured data of every post.
const (
	BlogURL       = "https://econlaw-lab.blogspot.com"
	AuthorName    = "이코노로"
	PublisherName = "이코노로: 법과 숫자, 그 사이 이야기"
)

// RestyleBatch is the number of recent posts examined by RestyleAll and
// FixLabels.
const RestyleBatch = 50

//go:embed assets/post.css
var postCSS string

var kst = time.FixedZone("KST", 9*60*60)

var h1Line = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// PostService is the subset of the Blogger API used by the publisher.
type PostService interface {
	Insert(ctx context.Context, blogID string, post *blogger.Post, draft bool) (*blogger.Post, error)
	Patch(ctx context.Context, blogID, postID string, post *blogger.Post) (*blogger.Post, error)
	List(ctx context.Context, blogID string, max int64) ([]*blogger.Post, error)
	Blog(ctx context.Context, blogID string) (*blogger.Blog, error)
}

type apiService struct {
	svc *blogger.Service
}

// NewPostService returns a PostService backed by the Blogger v3 API.
// The HTTP client carries the OAuth credentials.
func NewPostService(ctx context.Context, client *http.Client, opts ...option.ClientOption) (PostService, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := blogger.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Blogger service: %w", err)
	}
	return &apiService{svc: svc}, nil
}

func (a *apiService) Insert(ctx context.Context, blogID string, post *blogger.Post, draft bool) (*blogger.Post, error) {
	return a.svc.Posts.Insert(blogID, post).IsDraft(draft).Context(ctx).Do()
}

func (a *apiService) Patch(ctx context.Context, blogID, postID string, post *blogger.Post) (*blogger.Post, error) {
	return a.svc.Posts.Patch(blogID, postID, post).Context(ctx).Do()
}

func (a *apiService) List(ctx context.Context, blogID string, max int64) ([]*blogger.Post, error) {
	resp, err := a.svc.Posts.List(blogID).MaxResults(max).FetchBodies(true).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (a *apiService) Blog(ctx context.Context, blogID string) (*blogger.Blog, error) {
	return a.svc.Blogs.Get(blogID).Context(ctx).Do()
}

// BloggerPublisher publishes markdown posts to one Blogger blog.
type BloggerPublisher struct {
	Service PostService
	BlogID  string

	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

// NewBloggerPublisher returns a publisher for blogID.
func NewBloggerPublisher(svc PostService, blogID string, out io.Writer, logger *zap.Logger) (*BloggerPublisher, error) {
	if blogID == "" {
		return nil, ErrMissingBlogID
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BloggerPublisher{Service: svc, BlogID: blogID, Out: out, Logger: logger, Now: time.Now}, nil
}

func (p *BloggerPublisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// PublishMarkdownFile converts the markdown file at path and inserts it
// as a new post. The title comes from the frontmatter, else the H1, else
// the file name. Labels default to the frontmatter keywords.
func (p *BloggerPublisher) PublishMarkdownFile(ctx context.Context, path string, labels []string, draft bool) (*blogger.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	md := string(data)
	fm, body, err := storage.ParseFrontmatter(md)
	if err != nil {
		p.Logger.Warn("ignoring unparseable frontmatter", zap.String("path", path), zap.Error(err))
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		if m := h1Line.FindStringSubmatch(body); m != nil {
			title = strings.TrimSpace(m[1])
		} else {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	if labels == nil {
		labels = fm.Keywords
	}

	content := WrapWithStyle(MarkdownToHTML(md), BuildJSONLD(title, fm.MetaDescription, labels, p.now()))
	return p.PublishHTML(ctx, title, content, labels, draft)
}

// PublishHTML inserts an already rendered post.
func (p *BloggerPublisher) PublishHTML(ctx context.Context, title, content string, labels []string, draft bool) (*blogger.Post, error) {
	post := &blogger.Post{
		Kind:    "blogger#post",
		Blog:    &blogger.PostBlog{Id: p.BlogID},
		Title:   title,
		Content: content,
		Labels:  labels,
	}
	fmt.Fprintf(p.Out, "publish: sending %q to Blogger\n", title)
	resp, err := p.Service.Insert(ctx, p.BlogID, post, draft)
	if err != nil {
		return nil, fmt.Errorf("inserting post %q: %w", title, err)
	}
	status := "published"
	if draft {
		status = "saved as draft"
	}
	fmt.Fprintf(p.Out, "publish: %s %s\n", status, resp.Url)
	return resp, nil
}

// UpdatePost replaces the content of an existing post, and its title
// when one is given.
func (p *BloggerPublisher) UpdatePost(ctx context.Context, postID, content, title string) (*blogger.Post, error) {
	patch := &blogger.Post{Content: content, Title: title}
	resp, err := p.Service.Patch(ctx, p.BlogID, postID, patch)
	if err != nil {
		return nil, fmt.Errorf("updating post %s: %w", postID, err)
	}
	return resp, nil
}

// UpdateLabels replaces the labels of an existing post.
func (p *BloggerPublisher) UpdateLabels(ctx context.Context, postID string, labels []string) (*blogger.Post, error) {
	resp, err := p.Service.Patch(ctx, p.BlogID, postID, &blogger.Post{Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("updating labels of post %s: %w", postID, err)
	}
	return resp, nil
}

// ListPosts returns up to max recent posts with their bodies.
func (p *BloggerPublisher) ListPosts(ctx context.Context, max int64) ([]*blogger.Post, error) {
	posts, err := p.Service.List(ctx, p.BlogID, max)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// BlogInfo returns the blog's metadata.
func (p *BloggerPublisher) BlogInfo(ctx context.Context) (*blogger.Blog, error) {
	b, err := p.Service.Blog(ctx, p.BlogID)
	if err != nil {
		return nil, fmt.Errorf("getting blog %s: %w", p.BlogID, err)
	}
	return b, nil
}

// RestyleAll wraps recent posts that lack the post stylesheet and
// returns how many were updated.
func (p *BloggerPublisher) RestyleAll(ctx context.Context) (int, error) {
	posts, err := p.ListPosts(ctx, RestyleBatch)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, post := range posts {
		if strings.Contains(post.Content, PostMarker) {
			fmt.Fprintf(p.Out, "restyle: skip %q (already styled)\n", post.Title)
			continue
		}
		if _, err := p.UpdatePost(ctx, post.Id, WrapWithStyle(post.Content, ""), ""); err != nil {
			return updated, err
		}
		fmt.Fprintf(p.Out, "restyle: updated %q\n", post.Title)
		updated++
	}
	return updated, nil
}

// LabelFix describes the outcome of FixLabels for one post.
type LabelFix struct {
	PostID string
	Title  string
	Before []string

	// Label is the inferred category label, empty when none matched.
	Label   string
	Skipped bool
}

// FixLabels gives every recent post exactly one category label, inferred
// from its title. Posts already carrying one valid label are skipped.
func (p *BloggerPublisher) FixLabels(ctx context.Context) ([]LabelFix, error) {
	posts, err := p.ListPosts(ctx, RestyleBatch)
	if err != nil {
		return nil, err
	}
	var fixes []LabelFix
	for _, post := range posts {
		fix := LabelFix{PostID: post.Id, Title: post.Title, Before: post.Labels}
		if len(post.Labels) == 1 {
			if _, ok := types.CategoryForLabel(post.Labels[0]); ok {
				fix.Skipped = true
				fixes = append(fixes, fix)
				continue
			}
		}
		fix.Label = InferLabel(post.Title)
		if fix.Label != "" {
			if _, err := p.UpdateLabels(ctx, post.Id, []string{fix.Label}); err != nil {
				return fixes, err
			}
		}
		fixes = append(fixes, fix)
	}
	return fixes, nil
}

// categoryKeywords are the title keywords of each category label.
var categoryKeywords = map[types.Category][]string{
	types.CategoryMacroFinance:  {"금리", "경제", "GDP", "인플레", "통화", "연준", "한국은행", "금값", "환율", "물가", "기준금리"},
	types.CategoryRealEstateTax: {"부동산", "주택", "세금", "임대", "아파트", "분양", "세법", "양도세", "종부세", "취득세"},
	types.CategoryCorporateFair: {"기업", "공정거래", "독점", "M&A", "지배구조", "상법", "하도급", "ESG"},
	types.CategoryGlobalNews:    {"글로벌", "국제", "무역", "관세", "지정학"},
}

// InferLabel returns the label of the first category, in rotation order,
// with a keyword in title. It returns "" when none matches.
func InferLabel(title string) string {
	for _, c := range types.Categories {
		for _, kw := range categoryKeywords[c] {
			if strings.Contains(title, kw) {
				return c.DisplayName()
			}
		}
	}
	return ""
}

// LabelsForFile returns the category label encoded in a published file
// name (<date>_<category>_<slug>...), or nil.
func LabelsForFile(path string) []string {
	name := filepath.Base(path)
	for _, c := range types.Categories {
		if strings.Contains(name, "_"+string(c)+"_") {
			return []string{c.DisplayName()}
		}
	}
	return nil
}

type jsonLDThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type jsonLDArticle struct {
	Context          string      `json:"@context"`
	Type             string      `json:"@type"`
	Headline         string      `json:"headline"`
	Description      string      `json:"description"`
	Author           jsonLDThing `json:"author"`
	Publisher        jsonLDThing `json:"publisher"`
	DatePublished    string      `json:"datePublished"`
	DateModified     string      `json:"dateModified"`
	MainEntityOfPage jsonLDThing `json:"mainEntityOfPage"`
	Keywords         string      `json:"keywords"`
	InLanguage       string      `json:"inLanguage"`
	ArticleSection   string      `json:"articleSection"`
}

// BuildJSONLD returns a schema.org Article script element. The
// description is cut to 160 runes and falls back to the title.
func BuildJSONLD(title, description string, labels []string, now time.Time) string {
	if r := []rune(description); len(r) > 160 {
		description = string(r[:160])
	}
	if description == "" {
		description = title
	}
	section := "경제"
	if len(labels) > 0 {
		section = labels[0]
	}
	stamp := now.In(kst).Format(time.RFC3339)

	article := jsonLDArticle{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         title,
		Description:      description,
		Author:           jsonLDThing{Type: "Organization", Name: AuthorName, URL: BlogURL},
		Publisher:        jsonLDThing{Type: "Organization", Name: PublisherName},
		DatePublished:    stamp,
		DateModified:     stamp,
		MainEntityOfPage: jsonLDThing{Type: "WebPage", ID: BlogURL},
		Keywords:         strings.Join(labels, ", "),
		InLanguage:       "ko-KR",
		ArticleSection:   section,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(article); err != nil {
		return ""
	}
	return "<script type=\"application/ld+json\">\n" + strings.TrimRight(buf.String(), "\n") + "\n</script>"
}

// WrapWithStyle prepends the post stylesheet and optional structured data
// to content and wraps it in the post div.
func WrapWithStyle(content, jsonLD string) string {
	parts := []string{strings.TrimRight(postCSS, "\n")}
	if jsonLD != "" {
		parts = append(parts, jsonLD)
	}
	parts = append(parts, fmt.Sprintf("<div class=%q>\n%s\n</div>", PostMarker, content))
	return strings.Join(parts, "\n")
}
