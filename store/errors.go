package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("record not found")

// IntegrityError reports a uniqueness or foreign-key violation.
type IntegrityError struct {
	Detail string
	Err    error
}

func (e *IntegrityError) Error() string { return e.Detail }
func (e *IntegrityError) Unwrap() error { return e.Err }

// DataError reports a value the database could not store as given.
type DataError struct {
	Detail string
	Err    error
}

func (e *DataError) Error() string { return e.Detail }
func (e *DataError) Unwrap() error { return e.Err }

// classify maps driver errors onto the store's error types and wraps
// everything else with op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail := pgErr.Message
		if pgErr.Detail != "" {
			detail += ": " + pgErr.Detail
		}
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return &IntegrityError{Detail: detail, Err: err}
		case strings.HasPrefix(pgErr.Code, "22"):
			return &DataError{Detail: detail, Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "constraint failed"):
		return &IntegrityError{Detail: sqliteDetail(msg), Err: err}
	case strings.Contains(msg, "datatype mismatch"):
		return &DataError{Detail: sqliteDetail(msg), Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// sqliteDetail strips the driver prefix, e.g.
// "constraint failed: UNIQUE constraint failed: countries.country (2067)".
func sqliteDetail(msg string) string {
	msg = strings.TrimPrefix(msg, "constraint failed: ")
	if i := strings.LastIndex(msg, " ("); i > 0 && strings.HasSuffix(msg, ")") {
		msg = msg[:i]
	}
	return msg
}
