package session

import "github.com/dmitrymomot/sessionkit/pkg/identity"

// Status is the lifecycle state of the session. LoggedOut and Authenticated
// are the only resting states; Authenticating and Refreshing last for a
// single operation.
type Status string

const (
	StatusLoggedOut      Status = "logged_out"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusRefreshing     Status = "refreshing"
)

// Session is the read-only snapshot handed to consumers. Identity and
// Profile are copies; mutating them has no effect on the manager. Profile
// may be nil while Identity is set: profile creation can lag or fail without
// invalidating the session (degraded state).
type Session struct {
	Identity *identity.Identity
	Profile  *identity.Profile
	Status   Status
}

// IsAuthenticated reports whether the session is in a resting authenticated
// state.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}
