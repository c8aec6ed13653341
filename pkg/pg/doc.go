// Package pg implements the session.ProfileStore boundary over the
// PostgreSQL profile table, plus the pooled connection setup it needs.
//
// Driver errors are normalized into the pkg/identity taxonomy at this
// boundary: connection-class SQLSTATEs and transport failures come back
// marked transient so the registration saga's retry policy can act on them,
// a unique-constraint violation maps to ErrDuplicateAccount, and a fetch
// that finds no row reports an absent profile (nil, nil) rather than an
// error, because a missing profile is a valid degraded session state.
package pg
