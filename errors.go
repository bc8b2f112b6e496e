package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	// ErrConnect is returned when a connection cannot be established.
	ErrConnect = errors.New("cannot connect to database")

	// ErrClosed is returned by any operation on a closed DB.
	ErrClosed = errors.New("database connection is closed")

	// ErrNoResultSet is returned by Query when the statement yields no rows
	// to fetch, such as an UPDATE.
	ErrNoResultSet = errors.New("statement produced no result set")
)

// SQLState returns the SQLSTATE code carried by a PostgreSQL driver error,
// or "" when err did not come from the server.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsSyntaxError reports syntax errors and access rule violations (class 42).
func IsSyntaxError(err error) bool {
	return sqlStateClass(err) == "42"
}

// IsConstraintViolation reports integrity constraint violations (class 23).
func IsConstraintViolation(err error) bool {
	return sqlStateClass(err) == "23"
}

func sqlStateClass(err error) string {
	code := SQLState(err)
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}
