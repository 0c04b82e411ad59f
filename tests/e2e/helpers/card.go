package helpers

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// HeadingTimeout bounds how long a freshly created card may take to render.
const HeadingTimeout = 10 * time.Second

// Cards locates entities rendered as a grid of cards, each titled by a
// heading.
type Cards struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewCards(page playwright.Page, expect playwright.PlaywrightAssertions) *Cards {
	return &Cards{page: page, expect: expect}
}

// Heading returns the card heading whose name is exactly title.
func (c *Cards) Heading(title string) playwright.Locator {
	return c.page.GetByRole("heading", playwright.PageGetByRoleOptions{
		Name:  title,
		Exact: playwright.Bool(true),
	})
}

// ExpectCard waits up to HeadingTimeout for the card titled title.
func (c *Cards) ExpectCard(title string) error {
	err := c.expect.Locator(c.Heading(title)).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: playwright.Float(ms(HeadingTimeout)),
	})
	if err != nil {
		return fmt.Errorf("card %q never appeared: %w", title, err)
	}
	return nil
}

// cardAncestor selects the nearest rounded div above a heading. Reverse axes
// number steps from the context node, so [1] is the innermost match.
const cardAncestor = `xpath=ancestor::div[contains(@class, "rounded")][1]`

// Card returns the rounded container around the heading.
func (c *Cards) Card(title string) playwright.Locator {
	return c.Heading(title).Locator(cardAncestor)
}

// CardAction returns the card's button named name, or the button at index
// when the card's controls are icon-only.
func (c *Cards) CardAction(title, name string, index int) (playwright.Locator, error) {
	return preferNamed(c.Card(title), name, index)
}

// CardActionAt returns the card's button at index.
func (c *Cards) CardActionAt(title string, index int) playwright.Locator {
	return c.Card(title).Locator("button").Nth(index)
}
