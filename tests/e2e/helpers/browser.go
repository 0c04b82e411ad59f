package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gotrs-io/console-e2e/tests/e2e/config"
	"github.com/playwright-community/playwright-go"
)

// BrowserHelper provides browser setup and teardown for tests
type BrowserHelper struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.TestConfig
	t          *testing.T
	expect     playwright.PlaywrightAssertions
}

// NewBrowserHelper creates a new browser helper instance
func NewBrowserHelper(t *testing.T) *BrowserHelper {
	cfg := config.GetConfig()
	return &BrowserHelper{
		Config: cfg,
		t:      t,
		expect: playwright.NewPlaywrightAssertions(ms(cfg.ExpectTimeout)),
	}
}

// Setup initializes the browser and creates a new page
func (b *BrowserHelper) Setup() error {
	var pw *playwright.Playwright
	var err error
	if !b.Config.PlaywrightPreinstalled {
		if err = playwright.Install(); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err = playwright.Run()
	if err != nil {
		// Fallback: attempt install driver explicitly then retry
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright after retry (ensure driver version matches image): %w", err)
		}
	}
	b.Playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Config.Headless),
		SlowMo:   playwright.Float(float64(b.Config.SlowMo)),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	b.Browser = browser

	opts := playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(b.Config.BaseURL),
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	}
	if b.Config.Videos {
		opts.RecordVideo = &playwright.RecordVideo{Dir: "./test-results/videos"}
	}
	context, err := browser.NewContext(opts)
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	b.Context = context

	if err := context.GrantPermissions([]string{"clipboard-read", "clipboard-write"}); err != nil {
		return fmt.Errorf("could not grant clipboard permissions: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page

	page.SetDefaultTimeout(ms(b.Config.Timeout))

	return nil
}

// TearDown closes the browser and cleans up resources
func (b *BrowserHelper) TearDown() {
	if b.t.Failed() && b.Config.Screenshots && b.Page != nil {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(b.t.Name())
		path := filepath.Join("test-results", "screenshots", fmt.Sprintf("%s_%d.png", name, time.Now().Unix()))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.t.Logf("failed to make screenshots directory: %v", err)
		} else if _, err := b.Page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
			b.t.Logf("failed to take screenshot: %v", err)
		} else {
			b.t.Logf("screenshot saved to %s", path)
		}
	}

	if b.Page != nil {
		_ = b.Page.Close()
	}
	if b.Context != nil {
		_ = b.Context.Close()
	}
	if b.Browser != nil {
		_ = b.Browser.Close()
	}
	if b.Playwright != nil {
		_ = b.Playwright.Stop()
	}
}

// NavigateTo navigates to a path relative to the base URL
func (b *BrowserHelper) NavigateTo(path string) error {
	url := b.Config.BaseURL + path
	_, err := b.Page.Goto(url)
	if err != nil && strings.Contains(err.Error(), "ERR_TOO_MANY_REDIRECTS") {
		return fmt.Errorf("redirect loop navigating to %s (check BASE_URL port / login redirect configuration): %w", url, err)
	}
	return err
}

// WaitForNetworkIdle blocks until in-flight requests settle. Scenarios call it
// after navigation and before interacting with the page.
func (b *BrowserHelper) WaitForNetworkIdle() error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// Open navigates to path and waits for the network to go idle.
func (b *BrowserHelper) Open(path string) error {
	if err := b.NavigateTo(path); err != nil {
		return fmt.Errorf("navigating to %s: %w", path, err)
	}
	if err := b.WaitForNetworkIdle(); err != nil {
		return fmt.Errorf("waiting for %s to settle: %w", path, err)
	}
	return nil
}

// Expect returns assertions bound to the configured expect timeout.
func (b *BrowserHelper) Expect() playwright.PlaywrightAssertions {
	return b.expect
}

func (b *BrowserHelper) Dialog() *Dialog {
	return NewDialog(b.Page, b.expect, b.Config.ExpectTimeout)
}

func (b *BrowserHelper) Table() *Table {
	return NewTable(b.Page, b.expect, b.Config.ExpectTimeout)
}

func (b *BrowserHelper) Cards() *Cards {
	return NewCards(b.Page, b.expect)
}

func (b *BrowserHelper) Toasts() *Toasts {
	return NewToasts(b.Page, b.expect, b.Config.ExpectTimeout)
}

// ms converts d to the float milliseconds playwright expects.
func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
