package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound      = errors.New("resource not found")
	ErrStageNotFound = fmt.Errorf("%w: stage", ErrNotFound)
	ErrRunNotFound   = fmt.Errorf("%w: run", ErrNotFound)

	// Input shape errors abort a run
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedKey  = errors.New("malformed exposure key")
	ErrMalformedCell = errors.New("malformed cell value")
	ErrEmptyTable    = errors.New("table has no data rows")

	// Integrity errors signal input that breaks an aggregation invariant
	ErrDataIntegrity = errors.New("data integrity violation")
)

// NewMissingColumnError reports a required column absent from a table header.
func NewMissingColumnError(table, column string) error {
	return fmt.Errorf("%w %q in %s", ErrMissingColumn, column, table)
}

// NewMalformedKeyError reports an exposure key that is not "<int>&<int>".
func NewMalformedKeyError(key string) error {
	return fmt.Errorf("%w %q: expected \"<int>&<int>\"", ErrMalformedKey, key)
}

// NewMalformedCellError reports a cell that cannot be parsed into its column type.
func NewMalformedCellError(table, column string, row int, value string) error {
	return fmt.Errorf("%w in %s row %d column %s: %q", ErrMalformedCell, table, row, column, value)
}

func NewDataIntegrityError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}

// IsInputShapeError reports whether err aborts a run because of input layout.
func IsInputShapeError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrMalformedKey) ||
		errors.Is(err, ErrMalformedCell) ||
		errors.Is(err, ErrEmptyTable)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
