package service

import (
	"database/sql"
	"time"
)

// sqlNoRows is a tiny alias so call sites read as intent ("no matching row")
// rather than a bare stdlib sentinel.
func sqlNoRows() error { return sql.ErrNoRows }

// sqlDriverNow returns a fixed, UTC timestamp for rows returned by sqlmock,
// so tests never depend on wall-clock time.
func sqlDriverNow() time.Time {
	return time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
}
