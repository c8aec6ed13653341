package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
	"github.com/dmitrymomot/sessionkit/pkg/retry"
)

// Manager owns the single live session of the client process: the cached
// identity, the cached profile, and the lifecycle state machine. All
// mutation happens through its methods; consumers read through Session()
// or Subscribe().
type Manager struct {
	gateway  IdentityGateway
	profiles ProfileStore
	cfg      Config
	logger   *slog.Logger
	notifier *notifier
	now      func() time.Time

	mu      sync.RWMutex
	status  Status
	ident   *identity.Identity
	profile *identity.Profile
	mon     *monitor
	closed  bool
}

// New creates a session manager over the given remote boundaries. Panics on
// nil collaborators: a manager without its gateways is a programming error,
// not a runtime condition.
func New(gateway IdentityGateway, profiles ProfileStore, opts ...Option) *Manager {
	if gateway == nil {
		panic("session: identity gateway is required")
	}
	if profiles == nil {
		panic("session: profile store is required")
	}

	m := &Manager{
		gateway:  gateway,
		profiles: profiles,
		cfg:      DefaultConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		status:   StatusLoggedOut,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.notifier = newNotifier(m.cfg.SubscriberBuffer)

	return m
}

// Session returns the current snapshot. It never blocks on remote calls.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe returns a read-only stream of session snapshots, one per
// lifecycle or profile change. The subscription ends when ctx is cancelled
// or the manager is closed; slow consumers miss intermediate snapshots
// rather than blocking the manager.
func (m *Manager) Subscribe(ctx context.Context) <-chan Session {
	return m.notifier.subscribe(ctx)
}

// Login authenticates the credential and, on success, caches the identity,
// starts the expiry monitor and fetches the profile in the background. A
// profile fetch failure does not fail the login; the session is then in the
// degraded identity-without-profile state until RefreshProfile succeeds.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	if err := m.begin(StatusAuthenticating, StatusLoggedOut); err != nil {
		return err
	}

	var ident *identity.Identity
	err := retry.Do(ctx, m.cfg.loginPolicy(), func(ctx context.Context) error {
		var opErr error
		ident, opErr = m.gateway.Authenticate(ctx, identifier, secret)
		return opErr
	})
	if err != nil {
		m.logger.WarnContext(ctx, "login failed", slog.Any("error", err))
		m.clearSession()
		return err
	}

	m.establishSession(ident, nil)
	m.fetchProfileAsync(ctx, ident.ID)
	return nil
}

// Register validates input locally, then runs the registration saga. On
// success the session behaves exactly as after a successful login, with the
// just-created profile already cached.
func (m *Manager) Register(ctx context.Context, identifier, secret, fullName, phoneNumber string) error {
	attrs := identity.RegistrationAttrs{FullName: fullName, PhoneNumber: phoneNumber}
	if err := validateRegistration(identifier, secret, attrs); err != nil {
		return err
	}

	if err := m.begin(StatusAuthenticating, StatusLoggedOut); err != nil {
		return err
	}

	saga := &registrationSaga{
		gateway:  m.gateway,
		profiles: m.profiles,
		policy:   m.cfg.registerPolicy(),
		logger:   m.logger,
		now:      m.now,
	}

	ident, profile, err := saga.run(ctx, identity.Credential{Identifier: identifier, Secret: secret}, attrs)
	if err != nil {
		m.logger.WarnContext(ctx, "registration failed", slog.Any("error", err))
		m.clearSession()
		return err
	}

	m.establishSession(ident, profile)
	return nil
}

// Restore bootstraps the session from the provider's current remote session
// at process start. An absent remote session is not an error; the manager
// simply stays logged out.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.begin(StatusAuthenticating, StatusLoggedOut); err != nil {
		return err
	}

	ident, err := m.gateway.CurrentSession(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "session restore failed", slog.Any("error", err))
		m.clearSession()
		return err
	}
	if ident == nil {
		m.clearSession()
		return nil
	}

	m.establishSession(ident, nil)
	m.fetchProfileAsync(ctx, ident.ID)
	return nil
}

// Logout is idempotent and never fails visibly: local state is always
// cleared even when the remote sign-out errors, because a client that
// believes it is logged in while the server disagrees is the worse failure
// mode.
func (m *Manager) Logout(ctx context.Context) {
	m.stopMonitor()

	m.mu.RLock()
	hadIdentity := m.ident != nil
	m.mu.RUnlock()

	if hadIdentity {
		if err := m.gateway.SignOut(ctx); err != nil {
			m.logger.WarnContext(ctx, "remote sign-out failed, clearing local session anyway",
				slog.Any("error", err))
		}
	}

	m.clearSession()
}

// RefreshProfile re-fetches the profile for the current identity. A no-op
// when logged out. An absent profile keeps the degraded state without error.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	ident := m.ident
	m.mu.RUnlock()
	if ident == nil {
		return nil
	}

	profile, err := m.profiles.FetchProfile(ctx, ident.ID)
	if err != nil {
		return err
	}

	m.setProfile(ident.ID, profile)
	return nil
}

// UpdateProfile writes a partial profile update through to the store and
// refreshes the cached copy.
func (m *Manager) UpdateProfile(ctx context.Context, patch identity.ProfilePatch) error {
	m.mu.RLock()
	ident := m.ident
	m.mu.RUnlock()
	if ident == nil {
		return ErrNotAuthenticated
	}

	if err := m.profiles.UpdateProfile(ctx, ident.ID, patch); err != nil {
		return err
	}

	return m.RefreshProfile(ctx)
}

// Close tears the manager down: monitor stopped, all subscriptions closed,
// further operations rejected with ErrManagerClosed. Pairs with New on
// every exit path of the owning application.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.ident = nil
	m.profile = nil
	m.status = StatusLoggedOut
	m.mu.Unlock()

	m.stopMonitorAndWait()
	m.notifier.close()
}

// begin moves the machine into a transient state, enforcing the legal source
// states.
func (m *Manager) begin(to Status, from ...Status) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}

	legal := false
	for _, s := range from {
		if m.status == s {
			legal = true
			break
		}
	}
	if !legal {
		m.mu.Unlock()
		return ErrInvalidState
	}

	m.status = to
	m.mu.Unlock()

	m.publish()
	return nil
}

// establishSession caches the identity (and profile, when already known),
// enters Authenticated and starts the expiry monitor.
func (m *Manager) establishSession(ident *identity.Identity, profile *identity.Profile) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.ident = ident
	m.profile = profile
	m.status = StatusAuthenticated
	m.mu.Unlock()

	m.startMonitor()
	m.publish()
}

// clearSession drops identity and profile and returns to LoggedOut.
func (m *Manager) clearSession() {
	m.mu.Lock()
	m.ident = nil
	m.profile = nil
	m.status = StatusLoggedOut
	m.mu.Unlock()

	m.publish()
}

// setProfile caches the profile if the session still belongs to the same
// identity; a logout that raced the fetch wins.
func (m *Manager) setProfile(identityID string, profile *identity.Profile) {
	m.mu.Lock()
	if m.ident == nil || m.ident.ID != identityID {
		m.mu.Unlock()
		return
	}
	m.profile = profile
	m.mu.Unlock()

	m.publish()
}

// fetchProfileAsync loads the profile in the background. Detached from the
// caller's context so that a UI navigation right after login does not cancel
// the fetch.
func (m *Manager) fetchProfileAsync(ctx context.Context, identityID string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		profile, err := m.profiles.FetchProfile(ctx, identityID)
		if err != nil {
			m.logger.WarnContext(ctx, "profile fetch failed, session continues degraded",
				slog.String("identity_id", identityID),
				slog.Any("error", err))
			return
		}
		m.setProfile(identityID, profile)
	}()
}

func (m *Manager) publish() {
	m.mu.RLock()
	snapshot := m.snapshotLocked()
	m.mu.RUnlock()
	m.notifier.publish(snapshot)
}

func (m *Manager) snapshotLocked() Session {
	s := Session{Status: m.status}
	if m.ident != nil {
		v := *m.ident
		s.Identity = &v
	}
	if m.profile != nil {
		v := *m.profile
		s.Profile = &v
	}
	return s
}
