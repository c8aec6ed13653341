package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// emailRegex intentionally checks shape only; the identity provider is the
// authority on deliverability.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minSecretLength = 8
	maxSecretLength = 128
)

// validateRegistration checks registration input locally before any remote
// call is made. Failures wrap identity.ErrValidation so the UI can map them
// to the validation message category.
func validateRegistration(identifier, secret string, attrs identity.RegistrationAttrs) error {
	var errs []error

	if !emailRegex.MatchString(identifier) {
		errs = append(errs, fmt.Errorf("identifier %q is not a well-formed email address", identifier))
	}
	if len(secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("secret must be at least %d characters", minSecretLength))
	}
	if len(secret) > maxSecretLength {
		errs = append(errs, fmt.Errorf("secret must be at most %d characters", maxSecretLength))
	}
	if strings.TrimSpace(attrs.FullName) == "" {
		errs = append(errs, errors.New("full name is required"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{identity.ErrValidation}, errs...)...)
	}
	return nil
}
