package identity

import "time"

// Credential carries a raw identifier/secret pair for a single remote
// exchange. It is transient and must never be persisted or logged.
type Credential struct {
	Identifier string
	Secret     string
}

// Identity is the client's read-only cached copy of the record owned by the
// remote identity provider. It exists for the lifetime of one session.
type Identity struct {
	ID            string
	Identifier    string
	SessionExpiry time.Time
}

// Profile is the application-specific user record owned by the remote
// profile store. Profile.ID always equals the ID of the Identity it belongs
// to; the registration saga exists to uphold that across two remote writes.
type Profile struct {
	ID          string
	FullName    string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
}

// RegistrationAttrs holds the profile traits collected at signup, beyond the
// credential itself.
type RegistrationAttrs struct {
	FullName    string
	PhoneNumber string
}

// ProfilePatch describes a partial profile update. Nil fields are left
// untouched by the store.
type ProfilePatch struct {
	FullName    *string
	PhoneNumber *string
}
