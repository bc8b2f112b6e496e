package driver

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"":           Postgres,
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		" pgx ":      PGX,
		"sqlite3":    SQLite,
		"mysql":      MySQL,
	}
	for in, want := range cases {
		got, err := Resolve(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Resolve("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestDriversRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, d := range sql.Drivers() {
		registered[d] = true
	}
	for _, name := range Names() {
		assert.True(t, registered[name], "driver %s not registered", name)
	}
}

func TestInfer(t *testing.T) {
	assert.Equal(t, Postgres, Infer("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, Postgres, Infer("host=localhost port=5432 dbname=classification_test"))
	assert.Equal(t, SQLite, Infer("file:survey.db?cache=shared"))
	assert.Equal(t, SQLite, Infer(":memory:"))
	assert.Equal(t, SQLite, Infer("/tmp/survey.sqlite"))
	assert.Equal(t, MySQL, Infer("user:pass@tcp(127.0.0.1:3306)/survey"))
}

func TestIsBinaryType(t *testing.T) {
	assert.True(t, IsBinaryType("bytea"))
	assert.True(t, IsBinaryType("BLOB"))
	assert.False(t, IsBinaryType("TEXT"))
	assert.False(t, IsBinaryType(""))
	assert.True(t, IsPostgres(PGX))
	assert.False(t, IsPostgres(SQLite))
}

func TestBinaryColumns(t *testing.T) {
	assert.True(t, BinaryColumns(SQLite)(""))
	assert.True(t, BinaryColumns(SQLite)("TEXT"))
	assert.True(t, BinaryColumns(Postgres)("BYTEA"))
	assert.False(t, BinaryColumns(Postgres)(""))
	assert.False(t, BinaryColumns(MySQL)("VARCHAR"))
}
