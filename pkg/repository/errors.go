package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrInvalidReference indicates a write referenced a parent row that does not exist.
var ErrInvalidReference = errors.New("referenced record does not exist")

// MapError translates database errors to domain errors.
// sql.ErrNoRows maps to notFoundErr, a unique violation to duplicateErr, and a
// foreign-key violation to ErrInvalidReference wrapped with the constraint name.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateErr
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
		}
	}

	return err
}
