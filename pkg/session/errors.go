package session

import "errors"

var (
	// ErrInvalidState is returned when an operation is called from a
	// lifecycle state it is not legal in, e.g. Login while already
	// Authenticated. The UI layer is expected to disable controls during
	// transient states rather than queue overlapping operations.
	ErrInvalidState = errors.New("session: operation not allowed in current state")

	// ErrManagerClosed is returned by operations invoked after Close.
	ErrManagerClosed = errors.New("session: manager is closed")

	// ErrNotAuthenticated is returned by operations that require a live
	// session, such as UpdateProfile.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)
