package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
	"github.com/dmitrymomot/sessionkit/pkg/retry"
)

func TestPolicyDelayFor(t *testing.T) {
	t.Parallel()

	p := retry.Policy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	t.Run("stays within jitter bounds", func(t *testing.T) {
		t.Parallel()

		// attempt 0: 1s * 2^0 * [0.5, 1.0) => [500ms, 1s)
		for i := 0; i < 50; i++ {
			d := p.DelayFor(0)
			assert.GreaterOrEqual(t, d, 500*time.Millisecond)
			assert.Less(t, d, time.Second)
		}
	})

	t.Run("grows exponentially", func(t *testing.T) {
		t.Parallel()

		// attempt 2: 1s * 4 * [0.5, 1.0) => [2s, 4s)
		for i := 0; i < 50; i++ {
			d := p.DelayFor(2)
			assert.GreaterOrEqual(t, d, 2*time.Second)
			assert.Less(t, d, 4*time.Second)
		}
	})

	t.Run("caps at max delay", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 50; i++ {
			assert.LessOrEqual(t, p.DelayFor(10), 10*time.Second)
		}
	})

	t.Run("zero-value policy applies defaults", func(t *testing.T) {
		t.Parallel()

		var zero retry.Policy
		d := zero.DelayFor(0)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, time.Second)
	})
}

func TestPolicyShouldRetry(t *testing.T) {
	t.Parallel()

	p := retry.DefaultPolicy(3)

	assert.False(t, p.ShouldRetry(nil, 0))
	assert.False(t, p.ShouldRetry(errors.New("terminal"), 0))
	assert.False(t, p.ShouldRetry(identity.ErrInvalidCredentials, 0))
	assert.True(t, p.ShouldRetry(identity.MarkTransient(errors.New("503")), 0))
	assert.True(t, p.ShouldRetry(identity.MarkTransient(errors.New("503")), 1))
	// attempt ceiling reached
	assert.False(t, p.ShouldRetry(identity.MarkTransient(errors.New("503")), 2))
}

func TestDo(t *testing.T) {
	t.Parallel()

	fast := retry.Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("succeeds first try", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retry.Do(context.Background(), fast, func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retry.Do(context.Background(), fast, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return identity.MarkTransient(errors.New("backend hiccup"))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("terminal error returns immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retry.Do(context.Background(), fast, func(ctx context.Context) error {
			calls++
			return identity.ErrInvalidCredentials
		})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, identity.ErrServiceUnavailable)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhaustion yields service unavailable", func(t *testing.T) {
		t.Parallel()

		calls := 0
		cause := errors.New("db connection lost")
		err := retry.Do(context.Background(), fast, func(ctx context.Context) error {
			calls++
			return identity.MarkTransient(cause)
		})
		assert.ErrorIs(t, err, identity.ErrServiceUnavailable)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 5, calls)
	})

	t.Run("context cancellation stops the loop", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		slow := retry.Policy{MaxAttempts: 10, BaseDelay: time.Hour, MaxDelay: time.Hour}
		done := make(chan error, 1)
		go func() {
			done <- retry.Do(ctx, slow, func(ctx context.Context) error {
				calls++
				return identity.MarkTransient(errors.New("down"))
			})
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
			assert.Equal(t, 1, calls)
		case <-time.After(time.Second):
			t.Fatal("Do did not return after cancellation")
		}
	})

	t.Run("single attempt transient still classifies as unavailable", func(t *testing.T) {
		t.Parallel()

		one := retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
		err := retry.Do(context.Background(), one, func(ctx context.Context) error {
			return identity.MarkTransient(errors.New("down"))
		})
		assert.ErrorIs(t, err, identity.ErrServiceUnavailable)
	})
}
