package helpers

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// exactName matches an accessible name equal to name, ignoring case.
func exactName(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(name) + `\s*$`)
}

// containsName matches an accessible name containing name, ignoring case.
func containsName(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
}

// Button returns the page button whose accessible name contains name.
func Button(page playwright.Page, name string) playwright.Locator {
	return page.GetByRole("button", playwright.PageGetByRoleOptions{Name: containsName(name)})
}

// SelectOption opens the first combobox inside scope and picks the option
// containing text. Options render in a portal, so they are looked up on page.
func SelectOption(page playwright.Page, scope playwright.Locator, text string) error {
	if err := scope.Locator(`button[role="combobox"]`).First().Click(); err != nil {
		return fmt.Errorf("opening select: %w", err)
	}
	opt := page.Locator(`[role="option"]`).Filter(playwright.LocatorFilterOptions{HasText: text}).First()
	if err := opt.Click(); err != nil {
		return fmt.Errorf("choosing option %q: %w", text, err)
	}
	return nil
}

// preferNamed returns the first control in scope with the given accessible
// name, or the control at index when nothing carries that name.
func preferNamed(scope playwright.Locator, name string, index int) (playwright.Locator, error) {
	named := scope.GetByRole("button", playwright.LocatorGetByRoleOptions{Name: containsName(name)})
	n, err := named.Count()
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	if n > 0 {
		return named.First(), nil
	}
	return scope.Locator("button").Nth(index), nil
}
