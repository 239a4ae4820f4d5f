package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned by Fill when the record still fails validation
	// after every field was prompted.
	ErrInvalid = errors.New("tui: form is invalid")
)
