package kratos

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	kratosclient "github.com/ory/kratos-client-go"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

var (
	ErrInvalidURL      = errors.New("kratos: invalid endpoint URL")
	ErrMissingIdentity = errors.New("kratos: session response carries no identity")
	ErrMissingExpiry   = errors.New("kratos: session response carries no expiry")
)

const (
	opLogin        = "login"
	opRegistration = "registration"
	opWhoami       = "whoami"
	opLogout       = "logout"
	opAdmin        = "identity admin"
)

// Kratos UI message ids. These are stable protocol constants, unlike the
// human-readable message texts around them.
const (
	msgInvalidCredentials  = "4000006"
	msgDuplicateIdentifier = "4000007"
)

// normalize translates SDK and transport errors into the identity taxonomy.
// This is the only place raw Kratos error shapes are inspected.
func normalize(err error, resp *http.Response, op string) error {
	if err == nil {
		return nil
	}

	// No response at all means the request never completed: DNS, dial or
	// timeout failure. All of those are transient.
	if resp == nil {
		return identity.MarkTransient(fmt.Errorf("kratos %s: %w", op, err))
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return identity.MarkTransient(fmt.Errorf("kratos %s: status %d: %w", op, resp.StatusCode, err))
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return identity.MarkTransient(fmt.Errorf("kratos %s: rate limited: %w", op, err))
	}

	var apiErr *kratosclient.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		body := apiErr.Body()
		switch {
		case bytes.Contains(body, []byte(msgDuplicateIdentifier)):
			return fmt.Errorf("kratos %s: %w", op, identity.ErrDuplicateAccount)
		case bytes.Contains(body, []byte(msgInvalidCredentials)):
			return fmt.Errorf("kratos %s: %w", op, identity.ErrInvalidCredentials)
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if op == opLogin {
			return fmt.Errorf("kratos %s: %w", op, identity.ErrInvalidCredentials)
		}
		return fmt.Errorf("kratos %s: %w", op, identity.ErrSessionExpired)
	case http.StatusBadRequest:
		switch op {
		case opLogin:
			return fmt.Errorf("kratos %s: %w", op, identity.ErrInvalidCredentials)
		case opRegistration:
			// Provider-side schema validation the client-side checks missed.
			return fmt.Errorf("kratos %s: %w", op, identity.ErrValidation)
		}
	}

	return errors.Join(identity.ErrUnexpected, fmt.Errorf("kratos %s: status %d", op, resp.StatusCode), err)
}
