package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// monitor is one background watch over one authenticated session. A fresh
// monitor is created on every successful login/registration/restore and torn
// down on logout, so no timer outlives the session it watches.
type monitor struct {
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newMonitor(interval time.Duration) *monitor {
	return &monitor{
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *monitor) run(tick func(ctx context.Context)) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return
		case <-ticker.C:
			tick(context.Background())
		}
	}
}

// stop signals the monitor to exit without waiting, so it is safe to call
// from inside the monitor's own tick (expiry-triggered logout).
func (w *monitor) stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

func (m *Manager) startMonitor() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mon != nil || m.closed {
		return
	}

	mon := newMonitor(m.cfg.PollInterval)
	m.mon = mon
	go mon.run(m.checkSession)
}

func (m *Manager) stopMonitor() {
	m.mu.Lock()
	mon := m.mon
	m.mon = nil
	m.mu.Unlock()

	if mon != nil {
		mon.stop()
	}
}

func (m *Manager) stopMonitorAndWait() {
	m.mu.Lock()
	mon := m.mon
	m.mon = nil
	m.mu.Unlock()

	if mon != nil {
		mon.stop()
		<-mon.done
	}
}

// checkSession is one monitor tick: log out on expiry, refresh proactively
// when the remaining lifetime is under the threshold, otherwise do nothing.
func (m *Manager) checkSession(ctx context.Context) {
	m.mu.RLock()
	status := m.status
	var expiry time.Time
	if m.ident != nil {
		expiry = m.ident.SessionExpiry
	}
	m.mu.RUnlock()

	if status != StatusAuthenticated {
		return
	}

	now := m.now()
	switch {
	case now.After(expiry):
		m.logger.InfoContext(ctx, "session expired, logging out",
			slog.Time("expired_at", expiry))
		m.Logout(ctx)
	case expiry.Sub(now) < m.cfg.RefreshThreshold:
		m.refreshSession(ctx)
	}
}

// refreshSession re-validates the remote session and extends the cached
// expiry. Any failure logs the session out: a stale, possibly-invalid
// session must never stay observable as Authenticated (fail closed).
func (m *Manager) refreshSession(ctx context.Context) {
	if err := m.begin(StatusRefreshing, StatusAuthenticated); err != nil {
		return
	}

	expiry, err := m.gateway.RefreshSession(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "session refresh failed, logging out",
			slog.Any("error", err))
		m.Logout(ctx)
		return
	}

	m.mu.Lock()
	if m.ident != nil {
		v := *m.ident
		v.SessionExpiry = expiry
		m.ident = &v
	}
	if m.status == StatusRefreshing {
		m.status = StatusAuthenticated
	}
	m.mu.Unlock()

	m.publish()
}
