// Package retry implements the bounded retry policy used for every remote
// call in the session subsystem: exponential backoff with jitter, a hard
// attempt ceiling, and transient-only retry classification.
//
// Only errors marked with identity.MarkTransient are retried. Terminal
// errors (bad credentials, duplicate registrations, validation failures)
// return immediately on the first attempt. Once the attempt budget is
// exhausted the caller receives identity.ErrServiceUnavailable wrapping the
// last transient fault, so the UI can distinguish "backend down" from
// "wrong password".
//
// Example:
//
//	policy := retry.DefaultPolicy(5)
//	err := retry.Do(ctx, policy, func(ctx context.Context) error {
//		return gateway.Authenticate(ctx, email, secret)
//	})
package retry
