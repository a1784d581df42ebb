package formula

import "errors"

var (
	// ErrMissingAdditionTerm is returned when a role the family (or frame)
	// demands has no declared expression.
	ErrMissingAdditionTerm = errors.New("formula: required addition term is missing")

	// ErrMalformedAdditionTerm is returned when an addition-term expression
	// cannot be parsed or cannot be evaluated against the data table.
	ErrMalformedAdditionTerm = errors.New("formula: malformed addition term")

	// ErrNilFrame is returned when a nil *Frame or *MultiFrame is passed to
	// an entry point.
	ErrNilFrame = errors.New("formula: nil frame")
)
