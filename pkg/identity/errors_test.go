package identity_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

func TestMarkTransient(t *testing.T) {
	t.Parallel()

	t.Run("marked error is transient", func(t *testing.T) {
		t.Parallel()

		err := identity.MarkTransient(errors.New("connection refused"))
		assert.True(t, identity.IsTransient(err))
		assert.Equal(t, "connection refused", err.Error())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, identity.MarkTransient(nil))
	})

	t.Run("plain errors are terminal", func(t *testing.T) {
		t.Parallel()

		assert.False(t, identity.IsTransient(errors.New("boom")))
		assert.False(t, identity.IsTransient(identity.ErrInvalidCredentials))
		assert.False(t, identity.IsTransient(nil))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		t.Parallel()

		inner := identity.MarkTransient(errors.New("gateway timeout"))
		wrapped := fmt.Errorf("authenticate: %w", inner)
		assert.True(t, identity.IsTransient(wrapped))
	})

	t.Run("wrapped sentinel stays reachable", func(t *testing.T) {
		t.Parallel()

		err := identity.MarkTransient(fmt.Errorf("backend: %w", identity.ErrServiceUnavailable))
		assert.ErrorIs(t, err, identity.ErrServiceUnavailable)
	})
}
