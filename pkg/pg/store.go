package pg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

// DB is the subset of pgxpool.Pool the store uses. pgxmock satisfies it for
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileStore persists application profiles keyed by identity id. It
// implements session.ProfileStore.
type ProfileStore struct {
	db     DB
	logger *slog.Logger
}

// StoreOption configures a ProfileStore during construction.
type StoreOption func(*ProfileStore)

// WithStoreLogger configures the logger for the profile store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *ProfileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProfileStore creates a profile store over the given connection pool.
func NewProfileStore(db DB, opts ...StoreOption) *ProfileStore {
	if db == nil {
		panic("pg: db is required")
	}

	s := &ProfileStore{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FetchProfile returns the profile for an identity id, or (nil, nil) when
// none exists.
func (s *ProfileStore) FetchProfile(ctx context.Context, id string) (*identity.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.Join(ErrInvalidProfileID, err)
	}

	var p identity.Profile
	err := s.db.QueryRow(ctx,
		`SELECT id, full_name, phone_number, email, created_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.FullName, &p.PhoneNumber, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("fetch profile", err)
	}

	return &p, nil
}

// InsertProfile creates the profile record. Inserting the same id twice
// reports identity.ErrDuplicateAccount.
func (s *ProfileStore) InsertProfile(ctx context.Context, p identity.Profile) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return errors.Join(ErrInvalidProfileID, err)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO profiles (id, full_name, phone_number, email, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.FullName, p.PhoneNumber, p.Email, p.CreatedAt,
	)
	if err != nil {
		return classify("insert profile", err)
	}

	s.logger.DebugContext(ctx, "profile inserted", slog.String("profile_id", p.ID))
	return nil
}

// UpdateProfile applies a partial update. An empty patch is a no-op;
// updating a missing profile reports ErrProfileNotFound.
func (s *ProfileStore) UpdateProfile(ctx context.Context, id string, patch identity.ProfilePatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Join(ErrInvalidProfileID, err)
	}

	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.FullName != nil {
		args = append(args, *patch.FullName)
		sets = append(sets, fmt.Sprintf("full_name = $%d", len(args)))
	}
	if patch.PhoneNumber != nil {
		args = append(args, *patch.PhoneNumber)
		sets = append(sets, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return classify("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
