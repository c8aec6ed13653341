package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// Policy bounds a single operation invocation: how many attempts it may
// make and how long to back off between them. A Policy is a value; it is
// never shared state between invocations.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration
}

// DefaultPolicy returns the subsystem's standard backoff (1s base, 10s cap)
// with the given attempt ceiling.
func DefaultPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// DelayFor computes the backoff after attempt (0-based) failed.
// Formula: min(MaxDelay, BaseDelay * 2^attempt * (0.5 + rand(0, 0.5))).
// Jitter spreads retries so a fleet of clients recovering from the same
// outage does not hammer the backend in lockstep.
func (p Policy) DelayFor(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	max := p.MaxDelay
	if max <= 0 {
		max = 10 * time.Second
	}

	if attempt < 0 {
		attempt = 0
	}

	factor := 0.5 + rand.Float64()*0.5
	delay := float64(base) * math.Pow(2, float64(attempt)) * factor
	if delay > float64(max) {
		delay = float64(max)
	}

	return time.Duration(delay)
}

// ShouldRetry reports whether another attempt is warranted after err on
// attempt (0-based). Terminal errors are never retried.
func (p Policy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if attempt+1 >= p.MaxAttempts {
		return false
	}
	return identity.IsTransient(err)
}

// Do runs op under the policy. Attempts are strictly sequential: attempt N+1
// never starts before attempt N's backoff has elapsed. The backoff sleep
// respects ctx cancellation.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !p.ShouldRetry(lastErr, attempt) {
			if identity.IsTransient(lastErr) {
				break // budget exhausted on a transient fault
			}
			return lastErr
		}

		if err := sleep(ctx, p.DelayFor(attempt)); err != nil {
			return err
		}
	}

	return errors.Join(identity.ErrServiceUnavailable, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
