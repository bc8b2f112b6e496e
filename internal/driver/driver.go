// Package driver registers the database/sql drivers surveydb can open and
// maps user-facing driver names onto them.
package driver

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	Postgres = "postgres"
	PGX      = "pgx"
	SQLite   = "sqlite"
	MySQL    = "mysql"
)

// Default is used when neither the config nor the DSN names a driver.
const Default = Postgres

var aliases = map[string]string{
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pq":         Postgres,
	"pgx":        PGX,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"mysql":      MySQL,
}

// binaryTypes lists column types whose values stay []byte after a fetch.
var binaryTypes = map[string]bool{
	"BYTEA":      true,
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"BINARY":     true,
	"VARBINARY":  true,
}

// Resolve returns the registered database/sql driver name for name.
func Resolve(name string) (string, error) {
	if name == "" {
		return Default, nil
	}
	d, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown driver %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the canonical driver names in sorted order.
func Names() []string {
	return []string{MySQL, PGX, Postgres, SQLite}
}

// IsPostgres reports whether d speaks the PostgreSQL wire protocol.
func IsPostgres(d string) bool {
	return d == Postgres || d == PGX
}

// IsBinaryType reports whether a column of the given database type name
// holds raw bytes rather than text.
func IsBinaryType(dbType string) bool {
	return binaryTypes[strings.ToUpper(dbType)]
}

// BinaryColumns returns the test that decides whether a []byte value
// fetched through driver d is binary data. The SQLite driver hands TEXT
// back as string, so every []byte it returns is a BLOB, whatever the
// declared column type.
func BinaryColumns(d string) func(dbType string) bool {
	if d == SQLite {
		return func(string) bool { return true }
	}
	return IsBinaryType
}

// Infer guesses a driver from the shape of dsn. It returns Default when
// nothing matches.
func Infer(dsn string) string {
	s := strings.TrimSpace(dsn)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Postgres
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return SQLite
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return MySQL
	}
	return Default
}
