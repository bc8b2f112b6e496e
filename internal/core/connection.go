// File: internal/core/connection.go
package core

import (
	"context"
	"database/sql"
	"fmt"
)

// Connect opens a handle limited to a single physical connection and
// checks out that connection as a dedicated session.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, *sql.Conn, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	session, err := Session(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, session, nil
}

// Session caps db at one connection, checks it out and pings it.
func Session(ctx context.Context, db *sql.DB) (*sql.Conn, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return conn, nil
}

// Close releases the session first, then the handle.
func Close(db *sql.DB, conn *sql.Conn) error {
	var connErr error
	if conn != nil {
		connErr = conn.Close()
	}
	if err := db.Close(); err != nil {
		return err
	}
	return connErr
}
