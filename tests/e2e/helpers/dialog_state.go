package helpers

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid dialog transition")
	ErrDialogTimeout     = errors.New("timed out waiting for dialog")
)

// DialogState is the lifecycle state of a modal dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpening
	DialogOpen
	DialogClosing
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogOpening:
		return "opening"
	case DialogOpen:
		return "open"
	case DialogClosing:
		return "closing"
	}
	return fmt.Sprintf("DialogState(%d)", int(s))
}

// Closing may lead back to Open: either validation kept the dialog up, or
// submitting replaced it with a follow-up dialog.
var dialogTransitions = map[DialogState][]DialogState{
	DialogClosed:  {DialogOpening},
	DialogOpening: {DialogOpen},
	DialogOpen:    {DialogClosing},
	DialogClosing: {DialogClosed, DialogOpen},
}

type dialogFSM struct {
	state DialogState
}

func (f *dialogFSM) can(next DialogState) bool {
	for _, s := range dialogTransitions[f.state] {
		if s == next {
			return true
		}
	}
	return false
}

// check returns ErrInvalidTransition when next is not reachable.
func (f *dialogFSM) check(next DialogState) error {
	if !f.can(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, next)
	}
	return nil
}

func (f *dialogFSM) to(next DialogState) error {
	if err := f.check(next); err != nil {
		return err
	}
	f.state = next
	return nil
}
