package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	openDialogSelector = `[role="dialog"][data-state="open"]`
	alertSelector      = `[role="alertdialog"]`
)

// Dialog drives one modal through Closed -> Opening -> Open -> Closing ->
// Closed. Every method checks the transition first, so calling Cancel on a
// dialog that never opened fails before touching the page.
type Dialog struct {
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
	timeout time.Duration
	fsm     dialogFSM
}

func NewDialog(page playwright.Page, expect playwright.PlaywrightAssertions, timeout time.Duration) *Dialog {
	return &Dialog{page: page, expect: expect, timeout: timeout}
}

func (d *Dialog) State() DialogState { return d.fsm.state }

// Locator returns the currently open dialog.
func (d *Dialog) Locator() playwright.Locator {
	return d.page.Locator(openDialogSelector).Last()
}

// Open clicks trigger.
func (d *Dialog) Open(trigger playwright.Locator) error {
	if err := d.fsm.check(DialogOpening); err != nil {
		return err
	}
	if err := trigger.Click(); err != nil {
		return fmt.Errorf("clicking dialog trigger: %w", err)
	}
	return d.fsm.to(DialogOpening)
}

// WaitForOpen blocks until an open dialog is visible.
func (d *Dialog) WaitForOpen() error {
	if err := d.fsm.check(DialogOpen); err != nil {
		return err
	}
	err := d.Locator().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(d.timeout)),
	})
	if err != nil {
		return d.waitErr("open", err)
	}
	return d.fsm.to(DialogOpen)
}

// Submit clicks the dialog button whose accessible name is exactly name
// (case-insensitive).
func (d *Dialog) Submit(name string) error {
	return d.press(name)
}

// Cancel clicks the dialog's Cancel button.
func (d *Dialog) Cancel() error {
	return d.press("Cancel")
}

func (d *Dialog) press(name string) error {
	if err := d.fsm.check(DialogClosing); err != nil {
		return err
	}
	btn := d.Locator().GetByRole("button", playwright.LocatorGetByRoleOptions{Name: exactName(name)})
	if err := btn.Click(); err != nil {
		return fmt.Errorf("clicking %q in dialog: %w", name, err)
	}
	return d.fsm.to(DialogClosing)
}

// WaitForClose blocks until no dialog is open.
func (d *Dialog) WaitForClose() error {
	if err := d.fsm.check(DialogClosed); err != nil {
		return err
	}
	err := d.page.Locator(openDialogSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(ms(d.timeout)),
	})
	if err != nil {
		return d.waitErr("close", err)
	}
	return d.fsm.to(DialogClosed)
}

func (d *Dialog) waitErr(what string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w to %s after %s: %v", ErrDialogTimeout, what, d.timeout, err)
	}
	return fmt.Errorf("waiting for dialog to %s: %w", what, err)
}

// Field returns the first element matching selector inside the open dialog.
func (d *Dialog) Field(selector string) playwright.Locator {
	return d.Locator().Locator(selector).First()
}

// Fill fills the first element matching selector inside the open dialog.
func (d *Dialog) Fill(selector, value string) error {
	if d.fsm.state != DialogOpen {
		return fmt.Errorf("%w: fill %s while %s", ErrInvalidTransition, selector, d.fsm.state)
	}
	if err := d.Field(selector).Fill(value); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

// ExpectText asserts the open dialog contains text.
func (d *Dialog) ExpectText(text string) error {
	return d.expect.Locator(d.Locator()).ToContainText(text)
}

// PickRadio selects the radio whose accessible name contains label.
func (d *Dialog) PickRadio(label string) error {
	radio := d.Locator().GetByRole("radio", playwright.LocatorGetByRoleOptions{Name: containsName(label)})
	if err := radio.Click(); err != nil {
		return fmt.Errorf("selecting %q: %w", label, err)
	}
	return nil
}

// SelectOption opens the dialog's first combobox and picks option.
func (d *Dialog) SelectOption(option string) error {
	return SelectOption(d.page, d.Locator(), option)
}

// ConfirmAlert waits for the confirmation alertdialog, clicks button in it
// and waits for it to go away.
func ConfirmAlert(page playwright.Page, button string, timeout time.Duration) error {
	alert := page.Locator(alertSelector)
	err := alert.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		return fmt.Errorf("waiting for confirmation: %w", err)
	}
	btn := alert.GetByRole("button", playwright.LocatorGetByRoleOptions{Name: exactName(button)})
	if err := btn.Click(); err != nil {
		return fmt.Errorf("clicking %q in confirmation: %w", button, err)
	}
	return alert.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(ms(timeout)),
	})
}
