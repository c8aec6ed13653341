// Package session implements the client-side identity session manager: a
// single in-process view of "is this user logged in, and with which profile",
// kept consistent across transient backend failures, clock-based session
// expiry, and partial failures during account creation.
//
// The Manager is the facade the UI layer talks to. It owns the lifecycle
// state machine (LoggedOut, Authenticating, Authenticated, Refreshing),
// delegates remote work to an IdentityGateway and a ProfileStore, wraps
// authentication and registration writes in a bounded retry policy, and runs
// a background monitor that refreshes or tears down the session as its
// expiry approaches.
//
// Registration is a two-step write across two independent remote stores
// (identity record, then profile record) with a compensating rollback on
// partial failure; see the saga implementation for the exact semantics.
//
// Construction and teardown are paired: New starts nothing by itself, every
// successful Login/Register/Restore starts the expiry monitor, every Logout
// stops it, and Close tears the whole manager down. Consumers observe
// changes either synchronously via Session() or through the Subscribe
// notification stream.
//
// Usage:
//
//	m := session.New(gateway, profiles, session.WithLogger(log))
//	defer m.Close()
//
//	if err := m.Login(ctx, email, secret); err != nil {
//		switch {
//		case errors.Is(err, identity.ErrInvalidCredentials):
//			// wrong email or password
//		case errors.Is(err, identity.ErrServiceUnavailable):
//			// backend down, try again later
//		}
//	}
package session
