//go:build e2e

package playwright

import (
	"testing"
	"time"

	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
	"github.com/stretchr/testify/require"
)

const apiKeysPath = "/settings/api-keys"

// createAPIKey runs the create flow through the one-time key reveal and
// returns once the key is listed.
func createAPIKey(t *testing.T, p *settingsPage, key fixtures.APIKey) {
	t.Helper()
	p.openDialog(t, "Create API Key")
	require.NoError(t, p.dialog.Fill("input#name", key.Name))
	if exp := key.ExpiryInput(); exp != "" {
		require.NoError(t, p.dialog.Fill("input#expiry", exp))
	}
	require.NoError(t, p.dialog.Submit("Create Key"))

	// The create dialog is replaced by the reveal dialog.
	require.NoError(t, p.dialog.WaitForOpen())
	require.NoError(t, p.dialog.ExpectText("API Key Created"))
	require.NoError(t, p.dialog.ExpectText(fixtures.APIKeyPrefix))
	require.NoError(t, p.dialog.Submit("Done"))
	require.NoError(t, p.dialog.WaitForClose())

	require.NoError(t, p.table.ExpectRow(key.Name))
}

func TestAPIKeys(t *testing.T) {
	t.Run("page displays heading and create button", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		require.NoError(t, p.Expect().Locator(p.Page.Locator("h1").First()).ToContainText("API Keys"))
		require.NoError(t, p.Expect().Locator(p.button("Create API Key")).ToBeVisible())
	})

	t.Run("create dialog opens", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		p.openDialog(t, "Create API Key")
		require.NoError(t, p.dialog.ExpectText("Create API Key"))
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		p.openDialog(t, "Create API Key")
		p.submitExpectingRejection(t, "Create Key")
	})

	t.Run("create key reveals token", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		createAPIKey(t, p, fixtures.NewAPIKey())
	})

	t.Run("create key with expiry", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		key := fixtures.NewAPIKey(func(k *fixtures.APIKey) {
			k.Name = fixtures.UniqueName("Expiring Key")
		}, fixtures.ExpiresIn(24*time.Hour))
		createAPIKey(t, p, key)
	})

	t.Run("delete key", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		key := fixtures.NewAPIKey(func(k *fixtures.APIKey) {
			k.Name = fixtures.UniqueName("Delete Key")
		})
		createAPIKey(t, p, key)

		del, err := p.table.RowAction(key.Name, "Delete", 0)
		require.NoError(t, err)
		require.NoError(t, del.Click())
		p.confirmDelete(t)
		require.NoError(t, p.table.ExpectNoRow(key.Name))
	})

	t.Run("cancel creates nothing", func(t *testing.T) {
		p := openSettings(t, apiKeysPath)
		name := fixtures.UniqueName("Cancelled Key")
		p.openDialog(t, "Create API Key")
		require.NoError(t, p.dialog.Fill("input#name", name))
		p.cancel(t)
		require.NoError(t, p.table.ExpectNoRow(name))
	})
}
