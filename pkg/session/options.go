package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig replaces the full configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger configures the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPollInterval sets how often the expiry monitor runs.
func WithPollInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.cfg.PollInterval = interval
	}
}

// WithRefreshThreshold sets the remaining-lifetime threshold below which the
// monitor refreshes the session proactively.
func WithRefreshThreshold(threshold time.Duration) Option {
	return func(m *Manager) {
		m.cfg.RefreshThreshold = threshold
	}
}
