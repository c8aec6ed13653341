package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
	"github.com/dmitrymomot/sessionkit/pkg/retry"
)

// registrationSaga creates a consistent (identity, profile) pair across two
// independent remote stores. There is no shared transaction boundary, so
// this is a best-effort two-step write: identity first, profile second, with
// a compensating identity delete when the profile write fails.
type registrationSaga struct {
	gateway  IdentityGateway
	profiles ProfileStore
	policy   retry.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// run executes the saga. On success both records exist and the returned
// profile's ID equals the returned identity's ID. On failure neither record
// should remain, except the documented orphaned-identity case when the
// rollback itself fails; that case is logged, never surfaced.
func (s *registrationSaga) run(ctx context.Context, cred identity.Credential, attrs identity.RegistrationAttrs) (*identity.Identity, *identity.Profile, error) {
	var ident *identity.Identity
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		var opErr error
		ident, opErr = s.gateway.CreateIdentity(ctx, cred.Identifier, cred.Secret, attrs)
		return opErr
	})
	if err != nil {
		// Duplicate accounts and other terminal rejections arrive here on
		// the first attempt; transient exhaustion arrives as
		// ErrServiceUnavailable. Either way no profile write has happened,
		// so there is nothing to roll back.
		return nil, nil, err
	}

	profile := identity.Profile{
		ID:          ident.ID,
		FullName:    attrs.FullName,
		PhoneNumber: attrs.PhoneNumber,
		Email:       cred.Identifier,
		CreatedAt:   s.now(),
	}

	if err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		return s.profiles.InsertProfile(ctx, profile)
	}); err != nil {
		s.compensate(ctx, ident.ID, err)
		return nil, nil, err
	}

	return ident, &profile, nil
}

// compensate destroys the just-created identity so it is not left without a
// profile. Best effort: when the rollback also fails the caller still gets
// the original insert error, because retrying the whole registration is the
// correct remedy either way; the orphaned identity is logged and accepted.
func (s *registrationSaga) compensate(ctx context.Context, identityID string, insertErr error) {
	// The insert may have failed because ctx was cancelled; the rollback
	// must still run or the identity is guaranteed to be orphaned.
	ctx = context.WithoutCancel(ctx)
	if err := s.gateway.DestroyIdentity(ctx, identityID); err != nil {
		s.logger.ErrorContext(ctx, "registration rollback failed, identity may be orphaned",
			slog.String("identity_id", identityID),
			slog.Any("insert_error", insertErr),
			slog.Any("rollback_error", err),
		)
		return
	}

	s.logger.InfoContext(ctx, "registration rolled back after profile insert failure",
		slog.String("identity_id", identityID),
		slog.Any("insert_error", insertErr),
	)
}
