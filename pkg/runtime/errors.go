// Package runtime connects to PostgreSQL and bulk-loads tables.
package runtime

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key value")

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrNoConnection is returned when no database URL is configured.
	ErrNoConnection = errors.New("no database connection configured")
)

// PostgreSQL SQLSTATE codes mapped to sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// QueryError represents a statement execution error.
type QueryError struct {
	Query string
	// Kind is one of the sentinels above when the server error maps to one.
	Kind error
	Err  error
}

// NewQueryError wraps err and classifies PostgreSQL constraint failures.
func NewQueryError(query string, err error) *QueryError {
	qe := &QueryError{Query: query, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			qe.Kind = ErrDuplicateKey
		case codeForeignKeyViolation:
			qe.Kind = ErrForeignKeyViolation
		}
	}
	return qe
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error and its classification.
func (e *QueryError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Err, e.Kind}
	}
	return []error{e.Err}
}

// CopyError reports a failed bulk copy into one table.
type CopyError struct {
	Table string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy into %s: %v", e.Table, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
