// Package domain defines domain-level errors and symbol rules for the prices feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for price table operations.
var (
	// ErrNotFound indicates that the symbol has no persisted price table.
	ErrNotFound = errors.New("company not found")

	// ErrSchemaMismatch indicates that a required column could not be resolved from any alias.
	// Concrete failures are reported as *SchemaMismatchError, which matches this sentinel.
	ErrSchemaMismatch = errors.New("CSV column mismatch")

	// ErrNoNumericData indicates that a resolved column holds no numeric values.
	ErrNoNumericData = errors.New("no numeric values in column")

	// ErrEmptyFetch indicates that the market-data provider returned no rows for a symbol.
	// The ingestor logs it and leaves the existing table untouched.
	ErrEmptyFetch = errors.New("no data returned by provider")
)

// SchemaMismatchError reports the columns actually present when a required field is unresolvable.
type SchemaMismatchError struct {
	Symbol  string
	Missing []string // canonical field names that could not be resolved
	Columns []string // lowercased columns found in the table
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("CSV column mismatch. Found columns: [%s]", quoteJoin(e.Columns))
}

// Is lets errors.Is(err, ErrSchemaMismatch) match any SchemaMismatchError.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NoNumericDataError reports a resolved column that holds no numeric values.
type NoNumericDataError struct {
	Symbol string
	Column string // column name as it appears in the table
}

func (e *NoNumericDataError) Error() string {
	return fmt.Sprintf("%s %q (%s)", ErrNoNumericData, e.Column, e.Symbol)
}

// Is lets errors.Is(err, ErrNoNumericData) match any NoNumericDataError.
func (e *NoNumericDataError) Is(target error) bool {
	return target == ErrNoNumericData
}

func quoteJoin(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = "'" + c + "'"
	}
	return strings.Join(q, ", ")
}
