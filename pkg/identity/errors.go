package identity

import "errors"

// Terminal errors. These must never be retried: retrying cannot change the
// outcome, and each maps to exactly one user-facing message category.
var (
	ErrValidation         = errors.New("input validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnexpected         = errors.New("unexpected error")
)

// ErrServiceUnavailable is returned once a retry budget has been exhausted
// against transient backend faults. It is distinct from ErrInvalidCredentials
// so the UI can phrase "try again later" rather than "wrong password".
var ErrServiceUnavailable = errors.New("service temporarily unavailable")

// transientError marks an error as a transient backend fault that is safe to
// retry with backoff. The wrapped error stays reachable through errors.Is
// and errors.As.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// MarkTransient wraps err as retryable. Gateway implementations call this at
// the boundary for 5xx-class responses and connection-level failures; all
// other errors stay terminal.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked transient anywhere in its chain.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
