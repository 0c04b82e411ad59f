package helpers

import (
	"fmt"
	"strings"

	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
	"github.com/playwright-community/playwright-go"
)

const (
	loginPath = "/login"

	emailSelector    = "input#email, input[name='email'], input[type='email']"
	passwordSelector = "input#password, input[name='password'], input[type='password']"
	submitSelector   = "button[type='submit']"
)

// AuthHelper provides authentication utilities for tests
type AuthHelper struct {
	browser *BrowserHelper
}

// NewAuthHelper creates a new authentication helper
func NewAuthHelper(browser *BrowserHelper) *AuthHelper {
	return &AuthHelper{
		browser: browser,
	}
}

// Login submits the login form and waits until the app has navigated away
// from /login and the network is idle.
func (a *AuthHelper) Login(email, password string) error {
	page := a.browser.Page
	if err := a.browser.NavigateTo(loginPath); err != nil {
		return fmt.Errorf("failed to navigate to login: %w", err)
	}

	emailInput := page.Locator(emailSelector).First()
	if err := emailInput.WaitFor(); err != nil {
		return fmt.Errorf("email input not found: %w", err)
	}
	if err := emailInput.Fill(email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}
	if err := page.Locator(passwordSelector).First().Fill(password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := page.Locator(submitSelector).First().Click(); err != nil {
		return fmt.Errorf("failed to click submit: %w", err)
	}

	_, err := page.WaitForFunction(
		"path => !window.location.pathname.startsWith(path)",
		loginPath,
		playwright.PageWaitForFunctionOptions{Timeout: playwright.Float(ms(a.browser.Config.Timeout))},
	)
	if err != nil {
		if msg := a.loginError(); msg != "" {
			return fmt.Errorf("login failed for %s: %s", email, msg)
		}
		return fmt.Errorf("login as %s did not redirect: %w", email, err)
	}

	if err := a.browser.WaitForNetworkIdle(); err != nil {
		return fmt.Errorf("failed waiting for login response: %w", err)
	}
	return nil
}

// loginError returns the text of any visible error notification.
func (a *AuthHelper) loginError() string {
	errs := a.browser.Page.Locator("#error-message, [data-sonner-toast][data-type='error'], [role='alert']")
	if count, _ := errs.Count(); count > 0 {
		text, _ := errs.First().TextContent()
		return strings.TrimSpace(text)
	}
	return ""
}

// LoginAs logs in with the configured credentials for role.
func (a *AuthHelper) LoginAs(role fixtures.Role) error {
	creds, err := a.browser.Config.Credentials(role)
	if err != nil {
		return err
	}
	return a.Login(creds.Email, creds.Password)
}

// LoginAsAdmin logs in with admin credentials from config
func (a *AuthHelper) LoginAsAdmin() error {
	if a.browser.Config.AdminEmail == "" || a.browser.Config.AdminPassword == "" {
		return fmt.Errorf("admin credentials not configured")
	}
	return a.Login(a.browser.Config.AdminEmail, a.browser.Config.AdminPassword)
}

// Logout performs logout
func (a *AuthHelper) Logout() error {
	page := a.browser.Page
	wait := playwright.PageWaitForURLOptions{Timeout: playwright.Float(ms(a.browser.Config.ExpectTimeout))}

	logout := page.Locator("a[href='/logout'], button:has-text('Logout'), button:has-text('Log out')")
	if count, _ := logout.Count(); count > 0 {
		if err := logout.First().Click(); err == nil {
			if err := page.WaitForURL("**"+loginPath+"*", wait); err == nil {
				return nil
			}
		}
		// Fall through to clearing the session directly
	}

	if err := a.browser.Context.ClearCookies(); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	if _, err := page.Evaluate("() => { window.localStorage.clear(); window.sessionStorage.clear() }"); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	if err := a.browser.NavigateTo(loginPath); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", loginPath, err)
	}
	return nil
}

// IsLoggedIn checks if the user is currently logged in
func (a *AuthHelper) IsLoggedIn() bool {
	url := a.browser.Page.URL()
	base := a.browser.Config.BaseURL
	// Treat blank pages or non-app URLs as not logged in
	if url == "" || strings.HasPrefix(url, "about:") || !strings.HasPrefix(url, base) {
		return false
	}
	path := strings.TrimPrefix(url, base)
	return !strings.HasPrefix(path, loginPath) && path != "/" && path != ""
}
