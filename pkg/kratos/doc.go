// Package kratos implements the session.IdentityGateway boundary over the
// Ory Kratos self-service native (API-flow) endpoints, as used by mobile
// clients: password login and registration flows, session-token whoami,
// native logout, and the admin identity delete used as the registration
// saga's compensating action.
//
// The gateway holds the Kratos session token internally for the lifetime of
// the authenticated session; the token never crosses the gateway boundary.
//
// All SDK and transport errors are normalized into the pkg/identity
// taxonomy here: 5xx responses and transport failures are marked transient,
// credential rejections map to ErrInvalidCredentials, duplicate
// registrations to ErrDuplicateAccount, and an invalid or expired session
// token to ErrSessionExpired. Callers never see raw Kratos error shapes.
//
// Registration relies on the Kratos "session after registration" hook being
// enabled, so that a successful registration immediately yields a live
// session the way a successful login does.
package kratos
