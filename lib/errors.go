package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// MapPgError maps driver errors from either pgx or pgdriver onto the sentinel errors.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	switch SQLState(err) {
	case "23505": // unique_violation
		return errors.Join(ErrConflict, err)
	case "P0002": // no_data_found
		return errors.Join(ErrNotFound, err)
	}
	return err
}

// SQLState extracts the SQLSTATE code, or "" for non-Postgres errors.
func SQLState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}

	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return driverErr.Field('C')
	}

	return ""
}
