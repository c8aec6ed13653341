// Package identity defines the domain types shared by the session subsystem:
// the cached identity record, the application profile, and the closed error
// taxonomy that remote gateways normalize into.
//
// The types are deliberately small. Identity is a read-only cached copy of
// the record owned by the remote identity provider; Profile is owned by the
// remote profile store. The package never talks to the network itself.
//
// Error classification is the load-bearing part: gateway implementations
// translate raw SDK and driver errors into these sentinels at the boundary,
// and mark transient backend faults with MarkTransient so that retry loops
// can distinguish them from terminal rejections. Core session logic only
// ever checks errors with errors.Is and IsTransient, never by inspecting
// backend error strings.
package identity
