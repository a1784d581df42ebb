// Package core: sentinel error set.
// All table/column operations return these sentinels; callers match them via
// errors.Is and wrap with fmt.Errorf("stage: %w", ErrX) when context helps.
// No function in this package panics on user input.

package core

import "errors"

var (
	// ErrUnknownColumn is returned when a referenced column name is not
	// present in the table.
	ErrUnknownColumn = errors.New("core: unknown column")

	// ErrColumnExists is returned when adding a column under a name that is
	// already taken.
	ErrColumnExists = errors.New("core: column already exists")

	// ErrLengthMismatch is returned when a column or vector length is neither
	// 1 (broadcastable scalar) nor the table's row count.
	ErrLengthMismatch = errors.New("core: length mismatch")

	// ErrNonNumeric is returned when a numeric coercion is requested for a
	// column kind that has no numeric reading.
	ErrNonNumeric = errors.New("core: column is not numeric")

	// ErrEmptyTable is returned when an operation requires at least one row
	// or at least one column and none is present.
	ErrEmptyTable = errors.New("core: empty table")

	// ErrBadFactor is returned when factor codes fall outside 0..len(Levels).
	ErrBadFactor = errors.New("core: factor code out of range")
)
