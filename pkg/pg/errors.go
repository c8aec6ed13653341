package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/identity"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrInvalidProfileID         = errors.New("profile id is not a valid uuid")
	ErrProfileNotFound          = errors.New("profile not found")
)

// SQLSTATE classes signaling backend unavailability rather than a problem
// with the statement itself: connection exceptions (08), insufficient
// resources (53), operator intervention (57), system errors (58).
var transientSQLStateClasses = []string{"08", "53", "57", "58"}

// classify normalizes driver errors into the identity taxonomy. pgx.ErrNoRows
// is handled at the call sites because absence is not an error for profiles.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return fmt.Errorf("pg %s: %w", op, identity.ErrDuplicateAccount)
		}
		for _, class := range transientSQLStateClasses {
			if strings.HasPrefix(pgErr.Code, class) {
				return identity.MarkTransient(fmt.Errorf("pg %s: %w", op, err))
			}
		}
		return errors.Join(identity.ErrUnexpected, fmt.Errorf("pg %s", op), err)
	}

	// Anything that is not a server-reported error is connectivity trouble:
	// dial failures, dropped connections, timeouts.
	return identity.MarkTransient(fmt.Errorf("pg %s: %w", op, err))
}
