// Package db wraps a single live database connection and exposes raw
// statement execution on it.
//
// A DB owns exactly one session. Every statement runs outside a transaction
// and therefore commits on its own. Calls on one DB are serialized.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TechXTT/surveydb/internal/core"
	"github.com/TechXTT/surveydb/internal/driver"
	"github.com/TechXTT/surveydb/pkg/config"
)

// Row is one fetched row, values ordered as the statement's columns.
type Row []any

// Column describes a column of a fetched result set.
type Column = core.Column

// DB is a connection wrapper around one dedicated database session.
type DB struct {
	mu     sync.Mutex
	handle *sql.DB
	conn   *sql.Conn
	driver string
	binary core.Binary
	closed bool
	log    zerolog.Logger
}

// Option configures a DB when it is opened.
type Option func(*DB)

// WithLogger sends the session's log records to logger. Statements are
// logged at trace level. Without this option a DB logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(db *DB) {
		db.log = logger
	}
}

// NewDB connects using a data source name, inferring the driver from it.
func NewDB(dataSourceName string, opts ...Option) (*DB, error) {
	return Open(context.Background(), "", dataSourceName, opts...)
}

// Open connects to the database named by dsn using driverName. An empty
// driverName is inferred from the DSN.
func Open(ctx context.Context, driverName, dsn string, opts ...Option) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: DSN is empty", ErrConnect)
	}
	if driverName == "" {
		driverName = driver.Infer(dsn)
	}
	d, err := driver.Resolve(driverName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	handle, conn, err := core.Connect(ctx, d, config.Normalize(d, dsn))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return wrap(handle, conn, d, opts), nil
}

// New takes ownership of handle and checks out its single session. The
// handle is closed if the session cannot be established. driverName is
// the database/sql driver handle was opened with.
func New(ctx context.Context, handle *sql.DB, driverName string, opts ...Option) (*DB, error) {
	conn, err := core.Session(ctx, handle)
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return wrap(handle, conn, driverName, opts), nil
}

func wrap(handle *sql.DB, conn *sql.Conn, driverName string, opts []Option) *DB {
	db := &DB{
		handle: handle,
		conn:   conn,
		driver: driverName,
		binary: driver.BinaryColumns(driverName),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(db)
	}
	db.log = db.log.With().
		Str("session", uuid.NewString()).
		Str("driver", driverName).
		Logger()
	db.log.Debug().Msg("Database connection established")
	return db
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// Ping checks that the session is still alive.
func (db *DB) Ping(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	return db.conn.PingContext(ctx)
}

// Exec runs a statement that gives no rows back. Driver errors are
// returned unchanged.
func (db *DB) Exec(ctx context.Context, query string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	db.log.Trace().Str("query", query).Msg("exec")

	_, err := db.conn.ExecContext(ctx, query)
	return err
}

// Query runs a statement and returns all of its rows.
//
// Text values come back as string and binary column values as []byte.
// On SQLite any []byte is a BLOB. Elsewhere a value from a column with no
// type name stays []byte only when it is not valid UTF-8.
func (db *DB) Query(ctx context.Context, query string) ([]Row, error) {
	_, rows, err := db.Columns(ctx, query)
	return rows, err
}

// Columns is like Query but also describes the result columns.
//
// The statement has already run when ErrNoResultSet is returned.
func (db *DB) Columns(ctx context.Context, query string) ([]Column, []Row, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, nil, ErrClosed
	}
	db.log.Trace().Str("query", query).Msg("query")

	res, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	cols, values, err := core.Collect(res, db.binary)
	if err != nil {
		return nil, nil, err
	}
	if len(cols) == 0 {
		return nil, nil, ErrNoResultSet
	}

	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row(v)
	}
	db.log.Trace().Int("rows", len(rows)).Msg("fetched")
	return cols, rows, nil
}

// Close releases the session and then the connection handle. Calling Close
// more than once is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true

	if err := core.Close(db.handle, db.conn); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.log.Debug().Msg("Database connection closed")
	return nil
}
