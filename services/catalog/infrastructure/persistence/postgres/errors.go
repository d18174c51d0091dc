package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
)

const uniqueViolation = "23505"

// readError classifies a failed read. Reads only fail when the store could
// not answer; not-found is handled by callers before this is reached.
func readError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, catalogdomain.ErrConnectivity, err)
}

// writeError classifies a failed insert as conflict, connectivity or a
// rejected write.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return fmt.Errorf("%s: %w: %s", op, catalogdomain.ErrConflict, pgErr.ConstraintName)
	case isConnectivity(err):
		return fmt.Errorf("%s: %w: %w", op, catalogdomain.ErrConnectivity, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, catalogdomain.ErrPersistence, err)
	}
}

func isConnectivity(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.As(err, &connErr) ||
		pgconn.Timeout(err)
}
