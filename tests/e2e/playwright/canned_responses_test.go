//go:build e2e

package playwright

import (
	"testing"

	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
	"github.com/gotrs-io/console-e2e/tests/e2e/helpers"
	"github.com/stretchr/testify/require"
)

const (
	cannedResponsesPath = "/settings/canned-responses"

	// Card footer buttons are copy, edit, delete.
	cardEditIndex   = 1
	cardDeleteIndex = 2
)

// createCannedResponse fills the create dialog from resp and waits for the
// card to render.
func createCannedResponse(t *testing.T, p *settingsPage, resp fixtures.CannedResponse) {
	t.Helper()
	p.openDialog(t, "Add Response")
	require.NoError(t, p.dialog.Fill("input", resp.Name))
	if resp.Shortcut != "" {
		require.NoError(t, p.dialog.Fill("input >> nth=1", resp.Shortcut))
	}
	require.NoError(t, p.dialog.Fill("textarea", resp.Content))
	if resp.Category != "" {
		require.NoError(t, p.dialog.SelectOption(resp.Category))
	}
	p.submit(t, "Create", "created")
	require.NoError(t, p.toasts.Dismiss("created"))
	require.NoError(t, p.cards.ExpectCard(resp.Name))
}

func TestCannedResponses(t *testing.T) {
	t.Run("page displays heading and add button", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		require.NoError(t, p.Expect().Locator(p.Page.Locator("h1").First()).ToContainText("Canned Responses"))
		// The empty state renders a second Add Response button.
		require.NoError(t, p.Expect().Locator(p.button("Add Response")).ToBeVisible())
	})

	t.Run("create dialog opens", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		p.openDialog(t, "Add Response")
		require.NoError(t, p.dialog.ExpectText("Canned Response"))
	})

	t.Run("empty name and content are rejected", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		p.openDialog(t, "Add Response")
		p.submitExpectingRejection(t, "Create")
	})

	t.Run("create response", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		resp := fixtures.NewCannedResponse(func(c *fixtures.CannedResponse) {
			c.Shortcut = "test"
			c.Category = "Greetings"
		})
		createCannedResponse(t, p, resp)
		require.NoError(t, p.Expect().Locator(p.Page.Locator("body")).ToContainText(resp.Name))
	})

	t.Run("edit response", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		resp := fixtures.NewCannedResponse(func(c *fixtures.CannedResponse) {
			c.Name = fixtures.UniqueName("Edit Response")
			c.Content = "Original content"
		})
		createCannedResponse(t, p, resp)

		edit, err := p.cards.CardAction(resp.Name, "Edit", cardEditIndex)
		require.NoError(t, err)
		require.NoError(t, p.dialog.Open(edit))
		require.NoError(t, p.dialog.WaitForOpen())
		require.NoError(t, p.dialog.Fill("textarea", "Updated content"))
		p.submit(t, "Update", "updated")
	})

	t.Run("delete response", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		resp := fixtures.NewCannedResponse(func(c *fixtures.CannedResponse) {
			c.Name = fixtures.UniqueName("Delete Response")
			c.Content = "To be deleted"
		})
		createCannedResponse(t, p, resp)

		del, err := p.cards.CardAction(resp.Name, "Delete", cardDeleteIndex)
		require.NoError(t, err)
		require.NoError(t, del.Click())
		p.confirmDelete(t)
		require.NoError(t, p.Expect().Locator(p.cards.Heading(resp.Name)).Not().ToBeVisible())
	})

	t.Run("filter by category", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		require.NoError(t, helpers.SelectOption(p.Page, p.Page.Locator("body"), "Greetings"))
		// Matches depend on existing data; the page only has to settle.
		require.NoError(t, p.WaitForNetworkIdle())
	})

	t.Run("search finds response", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		resp := fixtures.NewCannedResponse(func(c *fixtures.CannedResponse) {
			c.Name = fixtures.UniqueName("Unique")
			c.Content = "Search test content"
		})
		createCannedResponse(t, p, resp)

		require.NoError(t, p.Page.Locator(`input[placeholder*="Search"]`).First().Fill(resp.Name))
		require.NoError(t, p.WaitForNetworkIdle())
		require.NoError(t, p.cards.ExpectCard(resp.Name))
	})

	t.Run("cancel creates nothing", func(t *testing.T) {
		p := openSettings(t, cannedResponsesPath)
		name := fixtures.UniqueName("Cancelled Response")
		p.openDialog(t, "Add Response")
		require.NoError(t, p.dialog.Fill("input", name))
		p.cancel(t)
		require.NoError(t, p.Expect().Locator(p.cards.Heading(name)).Not().ToBeVisible())
	})
}
