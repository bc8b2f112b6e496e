package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	db "github.com/TechXTT/surveydb"
)

func TestSQLState(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	wrapped := fmt.Errorf("statement 2: %w", pgErr)

	assert.Equal(t, "23503", db.SQLState(wrapped))
	assert.True(t, db.IsConstraintViolation(wrapped))
	assert.False(t, db.IsSyntaxError(wrapped))

	assert.Equal(t, "42703", db.SQLState(&pq.Error{Code: "42703"}))
	assert.True(t, db.IsSyntaxError(&pq.Error{Code: "42703"}))

	assert.Equal(t, "", db.SQLState(errors.New("near \"SELEC\": syntax error")))
	assert.False(t, db.IsSyntaxError(nil))
	assert.False(t, db.IsConstraintViolation(db.ErrClosed))
}
