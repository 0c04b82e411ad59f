//go:build e2e

package playwright

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gotrs-io/console-e2e/tests/e2e/bootstrap"
	"github.com/gotrs-io/console-e2e/tests/e2e/config"
	"github.com/gotrs-io/console-e2e/tests/e2e/helpers"
	"github.com/gotrs-io/console-e2e/tests/e2e/sweep"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

const reachableWait = 60 * time.Second

func TestMain(m *testing.M) {
	cfg := config.GetConfig()
	log := config.Logger("suite")
	ctx := context.Background()
	// Names stamped after this belong to this run or to a suite started
	// alongside it.
	started := time.Now().Truncate(time.Millisecond)

	if err := config.WaitReachable(ctx, cfg.BaseURL, reachableWait); err != nil {
		log.Error(err, "system under test not reachable, scenarios will likely fail")
	}
	// Bootstrap problems are logged; the login step of each scenario is
	// where a missing account actually fails.
	if summary, err := bootstrap.Once(ctx, cfg); err != nil {
		log.Error(err, "bootstrap did not run")
	} else if !summary.OK() {
		log.Info("bootstrap incomplete", "summary", summary.String())
	}

	code := m.Run()

	if cfg.SweepAfter {
		if s, err := sweep.FromConfig(cfg, sweep.Options{Before: started}); err != nil {
			log.Error(err, "sweep not configured")
		} else if report, err := s.Run(ctx); err != nil {
			log.Error(err, "sweep failed")
		} else if err := report.Err(); err != nil {
			log.Error(err, "sweep incomplete", "deleted", report.Deleted())
		}
	}
	os.Exit(code)
}

// settingsPage is one scenario's browser, logged in as admin and parked on
// a settings page.
type settingsPage struct {
	*helpers.BrowserHelper
	dialog *helpers.Dialog
	table  *helpers.Table
	cards  *helpers.Cards
	toasts *helpers.Toasts
}

// openSettings starts a fresh browser for t, logs in as admin and opens
// path. The browser is torn down when t finishes.
func openSettings(t *testing.T, path string) *settingsPage {
	t.Helper()
	browser := helpers.NewBrowserHelper(t)
	if browser.Config.AdminEmail == "" || browser.Config.AdminPassword == "" {
		t.Skip("Admin credentials not configured")
	}
	require.NoError(t, browser.Setup())
	t.Cleanup(browser.TearDown)

	auth := helpers.NewAuthHelper(browser)
	require.NoError(t, auth.LoginAsAdmin())
	require.NoError(t, browser.Open(path))

	return &settingsPage{
		BrowserHelper: browser,
		dialog:        browser.Dialog(),
		table:         browser.Table(),
		cards:         browser.Cards(),
		toasts:        browser.Toasts(),
	}
}

// button returns the first page button whose name contains name.
func (p *settingsPage) button(name string) playwright.Locator {
	return helpers.Button(p.Page, name).First()
}

// openDialog clicks the first button named trigger and waits for the dialog.
func (p *settingsPage) openDialog(t *testing.T, trigger string) {
	t.Helper()
	require.NoError(t, p.dialog.Open(p.button(trigger)))
	require.NoError(t, p.dialog.WaitForOpen())
}

// submitExpectingRejection submits the open dialog, expects a "required"
// notification and that the dialog stays open.
func (p *settingsPage) submitExpectingRejection(t *testing.T, button string) {
	t.Helper()
	require.NoError(t, p.dialog.Submit(button))
	require.NoError(t, p.toasts.ExpectText("required"))
	require.NoError(t, p.dialog.WaitForOpen())
}

// submit submits the open dialog and waits for it to close and for a toast
// containing notice.
func (p *settingsPage) submit(t *testing.T, button, notice string) {
	t.Helper()
	require.NoError(t, p.dialog.Submit(button))
	require.NoError(t, p.dialog.WaitForClose())
	require.NoError(t, p.toasts.ExpectText(notice))
}

// cancel closes the open dialog through its Cancel button and checks that
// nothing is left open.
func (p *settingsPage) cancel(t *testing.T) {
	t.Helper()
	require.NoError(t, p.dialog.Cancel())
	require.NoError(t, p.dialog.WaitForClose())
	require.NoError(t, p.Expect().Locator(p.Page.Locator(`[role="dialog"]`).First()).Not().ToBeVisible())
}

func (p *settingsPage) confirmDelete(t *testing.T) {
	t.Helper()
	require.NoError(t, helpers.ConfirmAlert(p.Page, "Delete", p.Config.ExpectTimeout))
	require.NoError(t, p.toasts.ExpectText("deleted"))
}
