package soa

import (
	"errors"

	"github.com/ajitpratap0/soa/pkg/soaerrors"
)

// Sentinel errors. Every error returned by this package wraps exactly one of
// them, so callers can match with errors.Is.
var (
	// ErrArityMismatch is returned when a row has a different number of
	// values than the store has columns.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrUnknownColumn is returned when a column name is not part of the store.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when a column set names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrMissingComparator is returned by Sort when no comparator is given.
	ErrMissingComparator = errors.New("missing comparator")
	// ErrIndexOutOfRange is returned for row indices outside the valid range.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptyStore is returned by Pop on a store without rows.
	ErrEmptyStore = errors.New("empty store")
	// ErrMissingField is returned when a record lacks one of the store's columns.
	ErrMissingField = errors.New("missing field")
	// ErrNotComparable is returned when the default numeric comparator meets
	// a non-numeric value.
	ErrNotComparable = errors.New("value not comparable")
	// ErrInvalidArgument is returned for malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

func arityError(op string, expected, got int) error {
	return soaerrors.Wrap(ErrArityMismatch, soaerrors.ErrorTypeArity, op).
		WithDetail("expected", expected).
		WithDetail("got", got)
}

func unknownColumnError(op, name string) error {
	return soaerrors.Wrap(ErrUnknownColumn, soaerrors.ErrorTypeColumn, op).
		WithDetail("column", name)
}

// indexError reports index outside [0, limit).
func indexError(op string, index, limit int) error {
	return soaerrors.Wrap(ErrIndexOutOfRange, soaerrors.ErrorTypeIndex, op).
		WithDetail("index", index).
		WithDetail("limit", limit)
}

func invalidArgument(op, reason string) error {
	return soaerrors.Wrap(ErrInvalidArgument, soaerrors.ErrorTypeValidation, op).
		WithDetail("reason", reason)
}
