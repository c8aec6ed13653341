package kratos

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// Gateway talks to Ory Kratos through its generated SDK. It implements
// session.IdentityGateway.
type Gateway struct {
	public *kratosclient.APIClient
	admin  *kratosclient.APIClient
	logger *slog.Logger

	mu           sync.RWMutex
	sessionToken string
}

// Option configures a Gateway during construction.
type Option func(*Gateway)

// WithLogger configures the logger for the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Kratos gateway from the given endpoint configuration.
func New(cfg Config, opts ...Option) (*Gateway, error) {
	if err := validateURL(cfg.PublicURL); err != nil {
		return nil, err
	}
	if err := validateURL(cfg.AdminURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	g := &Gateway{
		public: newAPIClient(cfg.PublicURL, timeout),
		admin:  newAPIClient(cfg.AdminURL, timeout),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func newAPIClient(baseURL string, timeout time.Duration) *kratosclient.APIClient {
	configuration := kratosclient.NewConfiguration()
	configuration.Servers = []kratosclient.ServerConfiguration{
		{URL: baseURL},
	}
	configuration.HTTPClient = &http.Client{Timeout: timeout}
	return kratosclient.NewAPIClient(configuration)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Authenticate runs the native password login flow and caches the returned
// session token for subsequent whoami/refresh/logout calls.
func (g *Gateway) Authenticate(ctx context.Context, identifier, secret string) (*identity.Identity, error) {
	flow, httpResp, err := g.public.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, normalize(err, httpResp, opLogin)
	}

	body := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: identifier,
		Password:   secret,
	}

	res, httpResp, err := g.public.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		return nil, normalize(err, httpResp, opLogin)
	}

	if res.SessionToken != nil {
		g.setToken(*res.SessionToken)
	}

	ident, err := identityFromSession(&res.Session)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "authenticated against kratos", slog.String("identity_id", ident.ID))
	return ident, nil
}

// CreateIdentity runs the native password registration flow. It expects the
// after-registration session hook to be enabled so the response carries a
// live session.
func (g *Gateway) CreateIdentity(ctx context.Context, identifier, secret string, attrs identity.RegistrationAttrs) (*identity.Identity, error) {
	flow, httpResp, err := g.public.FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return nil, normalize(err, httpResp, opRegistration)
	}

	body := kratosclient.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: secret,
		Traits: map[string]interface{}{
			"email": identifier,
			"name":  attrs.FullName,
			"phone": attrs.PhoneNumber,
		},
	}

	res, httpResp, err := g.public.FrontendAPI.
		UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(kratosclient.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&body)).
		Execute()
	if err != nil {
		return nil, normalize(err, httpResp, opRegistration)
	}

	if res.SessionToken != nil {
		g.setToken(*res.SessionToken)
	}

	ident := &identity.Identity{
		ID:         res.Identity.Id,
		Identifier: identifier,
	}
	if res.Session != nil && res.Session.ExpiresAt != nil {
		ident.SessionExpiry = *res.Session.ExpiresAt
	}

	g.logger.DebugContext(ctx, "created kratos identity", slog.String("identity_id", ident.ID))
	return ident, nil
}

// DestroyIdentity removes an identity through the admin API. Used only as
// the registration saga's compensating action.
func (g *Gateway) DestroyIdentity(ctx context.Context, id string) error {
	httpResp, err := g.admin.IdentityAPI.DeleteIdentity(ctx, id).Execute()
	if err != nil {
		return normalize(err, httpResp, opAdmin)
	}
	return nil
}

// CurrentSession returns the identity behind the cached session token, or
// (nil, nil) when there is no token or the token is no longer valid.
func (g *Gateway) CurrentSession(ctx context.Context) (*identity.Identity, error) {
	token := g.token()
	if token == "" {
		return nil, nil
	}

	session, httpResp, err := g.public.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		if httpResp != nil && httpResp.StatusCode == http.StatusUnauthorized {
			g.setToken("")
			return nil, nil
		}
		return nil, normalize(err, httpResp, opWhoami)
	}

	return identityFromSession(session)
}

// RefreshSession re-validates the cached session token and returns the
// authoritative expiry.
func (g *Gateway) RefreshSession(ctx context.Context) (time.Time, error) {
	token := g.token()
	if token == "" {
		return time.Time{}, identity.ErrSessionExpired
	}

	session, httpResp, err := g.public.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		if httpResp != nil && httpResp.StatusCode == http.StatusUnauthorized {
			g.setToken("")
			return time.Time{}, identity.ErrSessionExpired
		}
		return time.Time{}, normalize(err, httpResp, opWhoami)
	}

	if session.Active != nil && !*session.Active {
		g.setToken("")
		return time.Time{}, identity.ErrSessionExpired
	}
	if session.ExpiresAt == nil {
		return time.Time{}, ErrMissingExpiry
	}

	return *session.ExpiresAt, nil
}

// SignOut invalidates the remote session and forgets the token either way:
// a token the server no longer honors is useless to keep.
func (g *Gateway) SignOut(ctx context.Context) error {
	token := g.token()
	g.setToken("")
	if token == "" {
		return nil
	}

	httpResp, err := g.public.FrontendAPI.
		PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratosclient.PerformNativeLogoutBody{SessionToken: token}).
		Execute()
	if err != nil {
		return normalize(err, httpResp, opLogout)
	}
	return nil
}

func (g *Gateway) token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessionToken
}

func (g *Gateway) setToken(token string) {
	g.mu.Lock()
	g.sessionToken = token
	g.mu.Unlock()
}

// identityFromSession maps a Kratos session to the domain identity,
// extracting the email trait the way the default identity schema stores it.
func identityFromSession(session *kratosclient.Session) (*identity.Identity, error) {
	if session == nil || session.Identity == nil {
		return nil, ErrMissingIdentity
	}
	if session.Active != nil && !*session.Active {
		return nil, identity.ErrSessionExpired
	}

	ident := &identity.Identity{ID: session.Identity.Id}
	if session.ExpiresAt != nil {
		ident.SessionExpiry = *session.ExpiresAt
	}
	if traits, ok := session.Identity.Traits.(map[string]interface{}); ok {
		if email, ok := traits["email"].(string); ok {
			ident.Identifier = email
		}
	}

	return ident, nil
}
