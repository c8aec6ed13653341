package session

import (
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/retry"
)

// Config holds session manager configuration.
type Config struct {
	// PollInterval is how often the expiry monitor inspects the session.
	PollInterval time.Duration `env:"SESSION_POLL_INTERVAL" envDefault:"30s"`

	// RefreshThreshold triggers a proactive session refresh when the
	// remaining lifetime drops below it.
	RefreshThreshold time.Duration `env:"SESSION_REFRESH_THRESHOLD" envDefault:"5m"`

	// LoginMaxAttempts bounds authentication attempts against transient
	// backend faults.
	LoginMaxAttempts int `env:"SESSION_LOGIN_MAX_ATTEMPTS" envDefault:"5"`

	// RegisterMaxAttempts bounds each registration write (identity create,
	// profile insert).
	RegisterMaxAttempts int `env:"SESSION_REGISTER_MAX_ATTEMPTS" envDefault:"3"`

	RetryBaseDelay time.Duration `env:"SESSION_RETRY_BASE_DELAY" envDefault:"1s"`
	RetryMaxDelay  time.Duration `env:"SESSION_RETRY_MAX_DELAY" envDefault:"10s"`

	// SubscriberBuffer is the channel buffer per Subscribe consumer.
	// Changes are dropped for consumers that fall further behind.
	SubscriberBuffer int `env:"SESSION_SUBSCRIBER_BUFFER" envDefault:"8"`
}

// DefaultConfig returns the default session manager configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:        30 * time.Second,
		RefreshThreshold:    5 * time.Minute,
		LoginMaxAttempts:    5,
		RegisterMaxAttempts: 3,
		RetryBaseDelay:      time.Second,
		RetryMaxDelay:       10 * time.Second,
		SubscriberBuffer:    8,
	}
}

func (c Config) loginPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.LoginMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.RetryMaxDelay,
	}
}

func (c Config) registerPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.RegisterMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.RetryMaxDelay,
	}
}

// NewFromConfig creates a Manager from the provided Config. Additional
// options are applied after the config.
func NewFromConfig(cfg Config, gateway IdentityGateway, profiles ProfileStore, opts ...Option) *Manager {
	return New(gateway, profiles, append([]Option{WithConfig(cfg)}, opts...)...)
}
