package helpers

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const toastSelector = "[data-sonner-toast]"

// Toasts wraps the transient notifications the console shows after every
// create, update and delete.
type Toasts struct {
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
	timeout time.Duration
}

func NewToasts(page playwright.Page, expect playwright.PlaywrightAssertions, timeout time.Duration) *Toasts {
	return &Toasts{page: page, expect: expect, timeout: timeout}
}

func (t *Toasts) Locator() playwright.Locator {
	return t.page.Locator(toastSelector)
}

// WithText returns the toasts containing text (case-insensitive).
func (t *Toasts) WithText(text string) playwright.Locator {
	return t.Locator().Filter(playwright.LocatorFilterOptions{HasText: text})
}

// ExpectAny waits for any toast to become visible.
func (t *Toasts) ExpectAny() error {
	err := t.expect.Locator(t.Locator().First()).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: playwright.Float(ms(t.timeout)),
	})
	if err != nil {
		return fmt.Errorf("no notification within %s: %w", t.timeout, err)
	}
	return nil
}

// ExpectText waits for a toast containing text.
func (t *Toasts) ExpectText(text string) error {
	err := t.expect.Locator(t.WithText(text).First()).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: playwright.Float(ms(t.timeout)),
	})
	if err != nil {
		return fmt.Errorf("no %q notification within %s: %w", text, t.timeout, err)
	}
	return nil
}

// Dismiss waits for a toast containing text and clicks it away.
func (t *Toasts) Dismiss(text string) error {
	if err := t.ExpectText(text); err != nil {
		return err
	}
	return t.WithText(text).First().Click()
}
