package session

import (
	"context"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// IdentityGateway is the remote identity provider boundary. Implementations
// normalize raw SDK errors into the identity package taxonomy and mark
// transient backend faults with identity.MarkTransient before returning; the
// manager never inspects backend error strings.
type IdentityGateway interface {
	// Authenticate exchanges a credential for an identity with a live
	// remote session.
	Authenticate(ctx context.Context, identifier, secret string) (*identity.Identity, error)

	// CreateIdentity registers a new identity record. A registration
	// against an existing identifier returns identity.ErrDuplicateAccount.
	CreateIdentity(ctx context.Context, identifier, secret string, attrs identity.RegistrationAttrs) (*identity.Identity, error)

	// DestroyIdentity removes an identity record. Used as the compensating
	// action when profile creation fails after identity creation succeeded.
	DestroyIdentity(ctx context.Context, id string) error

	// CurrentSession returns the identity behind the provider's current
	// session, or (nil, nil) when no session exists.
	CurrentSession(ctx context.Context) (*identity.Identity, error)

	// RefreshSession re-validates the current remote session and returns
	// the authoritative expiry.
	RefreshSession(ctx context.Context) (time.Time, error)

	// SignOut invalidates the remote session.
	SignOut(ctx context.Context) error
}

// ProfileStore is the remote profile store boundary.
type ProfileStore interface {
	// FetchProfile returns the profile for an identity id, or (nil, nil)
	// when none exists yet.
	FetchProfile(ctx context.Context, id string) (*identity.Profile, error)

	// InsertProfile creates the profile record. Profile.ID must equal the
	// owning identity's id.
	InsertProfile(ctx context.Context, p identity.Profile) error

	// UpdateProfile applies a partial update to an existing profile.
	UpdateProfile(ctx context.Context, id string, patch identity.ProfilePatch) error
}
