// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pdiddy/blog-agents/internal/storage"
)

// Naver Blog endpoints.
const (
	NaverLoginURL = "https://nid.naver.com/nidlogin.login"
	NaverBlogHome = "https://blog.naver.com"
)

// MaxNaverTags is the tag limit of a Naver Blog post.
const MaxNaverTags = 30

// DefaultLoginTimeout bounds the wait for a manual login.
const DefaultLoginTimeout = 120 * time.Second

var (
	// ErrMissingNaverID is returned when no Naver blog ID is configured.
	ErrMissingNaverID = errors.New("NAVER_BLOG_ID is not set")

	// ErrNotLoggedIn is returned when the browser session has no login and
	// none was completed in time.
	ErrNotLoggedIn = errors.New("naver login required: run 'blog-agents naver login'")
)

// SmartEditor selectors.
const (
	selWriteButton   = `a[href*="postwrite"], .buddy_write`
	selEditorReady   = `.se-component, .blog_editor`
	selPopup         = `.se-popup-alert-confirm`
	selPopupCancel   = `button.se-popup-button-cancel, button:has-text("아니오")`
	selPopupConfirm  = `button.se-popup-button-confirm, button:has-text("확인")`
	selTitle         = `.se-title-text .se-text-paragraph`
	selBody          = `.se-section-text .se-text-paragraph`
	selSave          = `[data-click-area="tpb.save"]`
	selPublish       = `[data-click-area="tpb.publish"]`
	selPublishDialog = `[data-click-area="tpb*i.publish"]`
	selTagInput      = `#tag-input`
)

var categoryButtons = []string{
	`button.se-category-button`,
	`.blog_category button`,
	`[data-click-area="tpb.category"]`,
	`button:has-text("카테고리")`,
	`.se-header button:has-text("카테고리")`,
}

const pasteScript = `async (html) => {
	const item = new ClipboardItem({
		'text/html': new Blob([html], { type: 'text/html' }),
		'text/plain': new Blob([html], { type: 'text/plain' }),
	});
	await navigator.clipboard.write([item]);
}`

// DefaultNaverSessionDir returns ~/.blog-agents/naver-session.
func DefaultNaverSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".blog-agents", "naver-session")
	}
	return filepath.Join(home, ".blog-agents", "naver-session")
}

// NaverPostOptions controls a Naver publish.
type NaverPostOptions struct {
	// Tags default to the frontmatter keywords.
	Tags     []string
	Draft    bool
	Category string
}

// NaverResult describes a finished Naver publish.
type NaverResult struct {
	Title  string
	Action string
	URL    string
}

// NaverPublisher drives the Naver SmartEditor in a persistent Chromium
// session. The browser is started lazily and released by Close.
type NaverPublisher struct {
	BlogID       string
	SessionDir   string
	LoginTimeout time.Duration

	Out    io.Writer
	Logger *zap.Logger

	pw      *playwright.Playwright
	browser playwright.BrowserContext
	page    playwright.Page
}

// NewNaverPublisher returns a publisher for the blog of blogID.
func NewNaverPublisher(blogID, sessionDir string, out io.Writer, logger *zap.Logger) (*NaverPublisher, error) {
	if blogID == "" {
		return nil, ErrMissingNaverID
	}
	if sessionDir == "" {
		sessionDir = DefaultNaverSessionDir()
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NaverPublisher{
		BlogID:       blogID,
		SessionDir:   sessionDir,
		LoginTimeout: DefaultLoginTimeout,
		Out:          out,
		Logger:       logger,
	}, nil
}

func (n *NaverPublisher) start() error {
	if n.page != nil {
		return nil
	}
	if err := os.MkdirAll(n.SessionDir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}
	browser, err := pw.Chromium.LaunchPersistentContext(n.SessionDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(false),
		Locale:   playwright.String("ko-KR"),
		Viewport: &playwright.Size{Width: 1280, Height: 900},
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		return errors.Join(fmt.Errorf("launching chromium: %w", err), pw.Stop())
	}
	if err := browser.GrantPermissions([]string{"clipboard-read", "clipboard-write"},
		playwright.BrowserContextGrantPermissionsOptions{Origin: playwright.String(NaverBlogHome)}); err != nil {
		n.Logger.Warn("clipboard permission not granted", zap.Error(err))
	}

	var page playwright.Page
	if pages := browser.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = browser.NewPage(); err != nil {
		return errors.Join(fmt.Errorf("opening page: %w", err), browser.Close(), pw.Stop())
	}
	n.pw, n.browser, n.page = pw, browser, page
	return nil
}

// Close shuts the browser down. The session stays on disk.
func (n *NaverPublisher) Close() error {
	var errs []error
	if n.browser != nil {
		errs = append(errs, n.browser.Close())
	}
	if n.pw != nil {
		errs = append(errs, n.pw.Stop())
	}
	n.pw, n.browser, n.page = nil, nil, nil
	return errors.Join(errs...)
}

// Login checks the session for a login and otherwise opens the login page
// and waits for the user to sign in by hand.
func (n *NaverPublisher) Login(ctx context.Context) error {
	if err := n.start(); err != nil {
		return err
	}
	if _, err := n.page.Goto(NaverBlogHome+"/"+n.BlogID, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("opening blog home: %w", err)
	}
	if n.visible(selWriteButton) {
		fmt.Fprintln(n.Out, "naver: session is logged in")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(n.Out, "naver: log in to Naver in the browser window (waiting up to %s)\n", n.LoginTimeout)
	if _, err := n.page.Goto(NaverLoginURL); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	err := n.page.WaitForURL(func(u string) bool {
		return !strings.Contains(u, "nid.naver.com") && !strings.Contains(u, "nidlogin")
	}, playwright.PageWaitForURLOptions{Timeout: playwright.Float(float64(n.LoginTimeout.Milliseconds()))})
	if err != nil {
		n.Logger.Debug("login wait ended", zap.Error(err))
		return ErrNotLoggedIn
	}
	fmt.Fprintln(n.Out, "naver: logged in, session saved")
	return nil
}

// PublishMarkdownFile posts the markdown file at path through the
// SmartEditor.
func (n *NaverPublisher) PublishMarkdownFile(ctx context.Context, path string, opts NaverPostOptions) (*NaverResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	md := string(data)
	fm, body, err := storage.ParseFrontmatter(md)
	if err != nil {
		n.Logger.Warn("ignoring unparseable frontmatter", zap.String("path", path), zap.Error(err))
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		if m := h1Line.FindStringSubmatch(body); m != nil {
			title = strings.TrimSpace(m[1])
		} else {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	tags := opts.Tags
	if tags == nil {
		tags = fm.Keywords
	}

	content, err := NaverHTML(MarkdownToHTML(md))
	if err != nil {
		return nil, err
	}

	if err := n.Login(ctx); err != nil {
		return nil, err
	}
	if err := n.openEditor(); err != nil {
		return nil, err
	}
	if opts.Category != "" {
		n.selectCategory(opts.Category)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := n.fillTitle(title); err != nil {
		return nil, err
	}
	if err := n.paste(content); err != nil {
		return nil, err
	}

	res := &NaverResult{Title: title}
	if opts.Draft {
		res.Action = "draft_saved"
		err = n.save()
	} else {
		res.Action = "published"
		err = n.publish(tags)
		res.URL = n.page.URL()
	}
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(n.Out, "naver: %s %q\n", res.Action, title)
	return res, nil
}

func (n *NaverPublisher) visible(selector string) bool {
	ok, err := n.page.Locator(selector).First().IsVisible()
	return err == nil && ok
}

func (n *NaverPublisher) click(selector string) error {
	return n.page.Locator(selector).First().Click()
}

func (n *NaverPublisher) openEditor() error {
	fmt.Fprintln(n.Out, "naver: opening editor")
	if _, err := n.page.Goto(NaverBlogHome+"/"+n.BlogID+"/postwrite", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("opening editor: %w", err)
	}
	if err := n.page.Locator(selEditorReady).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(15_000),
	}); err != nil {
		return fmt.Errorf("waiting for editor: %w", err)
	}
	n.page.WaitForTimeout(2_000)
	n.dismissPopup()
	return nil
}

// dismissPopup answers the draft-restore alert with "no" so the post
// starts empty.
func (n *NaverPublisher) dismissPopup() {
	if !n.visible(selPopup) {
		return
	}
	popup := n.page.Locator(selPopup).First()
	btn := popup.Locator(selPopupCancel).First()
	if c, _ := btn.Count(); c == 0 {
		btn = popup.Locator(selPopupConfirm).First()
	}
	if err := btn.Click(); err != nil {
		n.Logger.Debug("popup dismiss failed", zap.Error(err))
	}
	n.page.WaitForTimeout(1_000)
}

func (n *NaverPublisher) selectCategory(name string) {
	var btn string
	for _, sel := range categoryButtons {
		if n.visible(sel) {
			btn = sel
			break
		}
	}
	if btn == "" {
		fmt.Fprintln(n.Out, "naver: category button not found, keeping the default category")
		return
	}
	if err := n.click(btn); err != nil {
		n.Logger.Warn("category button click failed", zap.Error(err))
		return
	}
	n.page.WaitForTimeout(1_000)

	item := n.page.Locator(fmt.Sprintf(`text="%s"`, name)).First()
	if c, _ := item.Count(); c == 0 {
		item = n.page.Locator(fmt.Sprintf(`li:has-text("%[1]s"), a:has-text("%[1]s"), span:has-text("%[1]s"), button:has-text("%[1]s")`, name)).First()
	}
	if err := item.Click(); err != nil {
		fmt.Fprintf(n.Out, "naver: category %q not found\n", name)
		_ = n.page.Keyboard().Press("Escape")
		return
	}
	n.page.WaitForTimeout(500)
}

func modifierKey() string {
	if runtime.GOOS == "darwin" {
		return "Meta"
	}
	return "Control"
}

func (n *NaverPublisher) fillTitle(title string) error {
	if n.visible(selTitle) {
		if err := n.click(selTitle); err != nil {
			return fmt.Errorf("focusing title: %w", err)
		}
		n.page.WaitForTimeout(300)
		if err := n.page.Keyboard().Press(modifierKey() + "+a"); err != nil {
			return err
		}
	}
	if err := n.page.Keyboard().Type(title, playwright.KeyboardTypeOptions{Delay: playwright.Float(20)}); err != nil {
		return fmt.Errorf("typing title: %w", err)
	}
	return nil
}

// paste puts html on the clipboard and pastes it into the body, which
// keeps the table styles the SmartEditor would drop from typed input.
func (n *NaverPublisher) paste(html string) error {
	if n.visible(selBody) {
		if err := n.click(selBody); err != nil {
			return fmt.Errorf("focusing body: %w", err)
		}
	} else if err := n.page.Keyboard().Press("Tab"); err != nil {
		return err
	}
	n.page.WaitForTimeout(500)

	if _, err := n.page.Evaluate(pasteScript, html); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	n.page.WaitForTimeout(300)
	if err := n.page.Keyboard().Press(modifierKey() + "+v"); err != nil {
		return fmt.Errorf("pasting body: %w", err)
	}
	n.page.WaitForTimeout(2_000)
	return nil
}

func (n *NaverPublisher) save() error {
	if !n.visible(selSave) {
		return errors.New("naver: save button not found")
	}
	if err := n.click(selSave); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	n.page.WaitForTimeout(2_000)
	return nil
}

func (n *NaverPublisher) publish(tags []string) error {
	if err := n.click(selPublish); err != nil {
		return fmt.Errorf("opening publish dialog: %w", err)
	}
	n.page.WaitForTimeout(2_000)

	if len(tags) > 0 {
		n.fillTags(tags)
	}
	if err := n.click(selPublishDialog); err != nil {
		return fmt.Errorf("confirming publish: %w", err)
	}
	n.page.WaitForTimeout(5_000)
	return nil
}

func (n *NaverPublisher) fillTags(tags []string) {
	input := n.page.Locator(selTagInput).First()
	if c, _ := input.Count(); c == 0 {
		fmt.Fprintln(n.Out, "naver: tag input not found, skipping tags")
		return
	}
	if len(tags) > MaxNaverTags {
		tags = tags[:MaxNaverTags]
	}
	for _, tag := range tags {
		if err := input.Click(); err != nil {
			n.Logger.Warn("tag input click failed", zap.Error(err))
			return
		}
		if err := input.PressSequentially(strings.TrimSpace(tag), playwright.LocatorPressSequentiallyOptions{Delay: playwright.Float(20)}); err != nil {
			n.Logger.Warn("typing tag failed", zap.String("tag", tag), zap.Error(err))
			return
		}
		_ = n.page.Keyboard().Press("Enter")
		n.page.WaitForTimeout(300)
	}
}
