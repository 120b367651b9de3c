package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is what repositories return when a single-row query for a
// dictionary entry or feedback row finds nothing.
var ErrNoRows = errors.New("no rows in result set")

// IsNoRows reports whether err is a no-rows error from either driver
// (database/sql for SQLite, pgx for PostgreSQL) or ErrNoRows itself, so the
// scan helpers of both repositories map them the same way.
func IsNoRows(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNoRows), errors.Is(err, sql.ErrNoRows), errors.Is(err, pgx.ErrNoRows):
		return true
	default:
		return false
	}
}
