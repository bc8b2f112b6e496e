// File: internal/core/rows.go
package core

import (
	"database/sql"
	"fmt"
	"unicode/utf8"
)

// Column describes one column of a fetched result.
type Column struct {
	Name string
	Type string
}

// Binary decides whether a []byte value of a column with the given
// database type name should be kept as bytes.
type Binary func(dbType string) bool

// Collect reads every remaining row and closes rows. Values of non-binary
// columns that arrive as []byte are converted to string. Bytes from a
// column with no type name stay []byte unless they are valid UTF-8.
func Collect(rows *sql.Rows, binary Binary) ([]Column, [][]any, error) {
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}
	cols := make([]Column, len(types))
	for i, ct := range types {
		cols[i] = Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	result := [][]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok && !keepBytes(b, cols[i].Type, binary) {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, result, nil
}

func keepBytes(b []byte, dbType string, binary Binary) bool {
	if binary != nil && binary(dbType) {
		return true
	}
	return dbType == "" && !utf8.Valid(b)
}
