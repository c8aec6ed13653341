package session

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// MockIdentityGateway is a mock implementation of IdentityGateway.
type MockIdentityGateway struct {
	mock.Mock
}

func (m *MockIdentityGateway) Authenticate(ctx context.Context, identifier, secret string) (*identity.Identity, error) {
	args := m.Called(ctx, identifier, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityGateway) CreateIdentity(ctx context.Context, identifier, secret string, attrs identity.RegistrationAttrs) (*identity.Identity, error) {
	args := m.Called(ctx, identifier, secret, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityGateway) DestroyIdentity(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIdentityGateway) CurrentSession(ctx context.Context) (*identity.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityGateway) RefreshSession(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockIdentityGateway) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProfileStore is a mock implementation of ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) FetchProfile(ctx context.Context, id string) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileStore) InsertProfile(ctx context.Context, p identity.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileStore) UpdateProfile(ctx context.Context, id string, patch identity.ProfilePatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}
