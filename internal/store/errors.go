package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a statement matches no rows.
	ErrNotFound = errors.New("store: record not found")
	// ErrInvalidInput covers rows the database refused because of the values
	// supplied by the caller: missing references, NULLs, malformed numbers.
	ErrInvalidInput = errors.New("store: invalid input")
	// ErrConflict is returned on unique constraint violations.
	ErrConflict = errors.New("store: duplicate key")
	// ErrUnavailable is returned when the server cannot be reached or refuses work.
	ErrUnavailable = errors.New("store: database unavailable")
	// ErrTimeout is returned when a statement runs past its deadline.
	ErrTimeout = errors.New("store: query timeout")
)

// Error keeps the original driver error next to the sentinel it maps to, so
// callers can use errors.Is for the class and errors.As for the details.
type Error struct {
	Sentinel error
	Code     string // SQLSTATE, empty when not from the server
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }

func (e *Error) Unwrap() error { return e.Cause }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// mapError translates pgx errors into the package sentinels. Unknown errors
// are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Sentinel: ErrTimeout, Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel := sentinelFor(pgErr.Code); sentinel != nil {
			return &Error{Sentinel: sentinel, Code: pgErr.Code, Cause: err}
		}
		return err
	}
	if pgconn.SafeToRetry(err) || isConnectError(err) {
		return &Error{Sentinel: ErrUnavailable, Cause: err}
	}
	return err
}

// https://www.postgresql.org/docs/current/errcodes-appendix.html
func sentinelFor(code string) error {
	switch code {
	case "23503", // foreign_key_violation
		"23502", // not_null_violation
		"23514", // check_violation
		"22P02", // invalid_text_representation
		"22003", // numeric_value_out_of_range
		"22001": // string_data_right_truncation
		return ErrInvalidInput
	case "23505": // unique_violation
		return ErrConflict
	case "57014": // query_canceled
		return ErrTimeout
	case "53300", "57P01", "57P02", "57P03":
		return ErrUnavailable
	}
	if strings.HasPrefix(code, "08") {
		return ErrUnavailable
	}
	return nil
}

func isConnectError(err error) bool {
	var ce *pgconn.ConnectError
	return errors.As(err, &ce)
}
