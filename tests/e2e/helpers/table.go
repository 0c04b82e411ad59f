package helpers

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Table locates rows and their controls by the text they contain rather
// than by position.
type Table struct {
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
	timeout time.Duration
}

func NewTable(page playwright.Page, expect playwright.PlaywrightAssertions, timeout time.Duration) *Table {
	return &Table{page: page, expect: expect, timeout: timeout}
}

// Locator returns the listing table.
func (t *Table) Locator() playwright.Locator {
	return t.page.Locator("table").First()
}

// Row returns the rows containing text.
func (t *Table) Row(text string) playwright.Locator {
	return t.page.Locator("tr").Filter(playwright.LocatorFilterOptions{HasText: text})
}

// ExpectRow waits for the table to contain text.
func (t *Table) ExpectRow(text string) error {
	err := t.expect.Locator(t.Locator()).ToContainText(text, playwright.LocatorAssertionsToContainTextOptions{
		Timeout: playwright.Float(ms(t.timeout)),
	})
	if err != nil {
		return fmt.Errorf("row %q never appeared: %w", text, err)
	}
	return nil
}

// ExpectNoRow asserts no row contains text.
func (t *Table) ExpectNoRow(text string) error {
	err := t.expect.Locator(t.Row(text)).ToHaveCount(0, playwright.LocatorAssertionsToHaveCountOptions{
		Timeout: playwright.Float(ms(t.timeout)),
	})
	if err != nil {
		return fmt.Errorf("unexpected row %q: %w", text, err)
	}
	return nil
}

// ActionsCell returns the trailing cell of the row containing text.
func (t *Table) ActionsCell(text string) playwright.Locator {
	return t.Row(text).First().Locator("td").Last()
}

// RowAction returns the button named name in the row's actions cell,
// falling back to the button at index for icon-only controls.
func (t *Table) RowAction(text, name string, index int) (playwright.Locator, error) {
	return preferNamed(t.ActionsCell(text), name, index)
}

// RowActionAt returns the button at index in the row's actions cell.
func (t *Table) RowActionAt(text string, index int) playwright.Locator {
	return t.ActionsCell(text).Locator("button").Nth(index)
}

// RowSwitch returns the toggle in the row containing text.
func (t *Table) RowSwitch(text string) playwright.Locator {
	return t.Row(text).First().Locator(`button[role="switch"]`)
}
