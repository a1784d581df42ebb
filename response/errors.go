// Package response: sentinel error set.
// Every stage returns these sentinels (possibly wrapped with row/field
// context); tests match them via errors.Is. The whole assembly fails on the
// first error — no partial bundles.

package response

import (
	"errors"
	"fmt"
)

var (
	// ErrNonNumericResponse is returned when the family requires a numeric
	// response and the supplied column has no numeric reading.
	ErrNonNumericResponse = errors.New("response: non-numeric response")

	// ErrOutOfBounds is the target sentinel carried by every BoundError.
	ErrOutOfBounds = errors.New("response: response out of family bounds")

	// ErrNotBinary is returned when a recoded binary response contains
	// values other than 0 and 1.
	ErrNotBinary = errors.New("response: binary response must be 0 or 1")

	// ErrNotWhole is returned when a discrete family observes fractional
	// responses, or an integer-valued addition term (trials, vint) is
	// fractional.
	ErrNotWhole = errors.New("response: value must be a whole number")

	// ErrMatrixRequired is returned when a multi-column family receives a
	// plain vector response.
	ErrMatrixRequired = errors.New("response: matrix response required")

	// ErrSimplexSum is returned when a simplex-family row does not sum to 1.
	ErrSimplexSum = errors.New("response: simplex row does not sum to 1")

	// ErrBadTrials is returned for negative or fractional trial counts.
	ErrBadTrials = errors.New("response: trials must be non-negative whole numbers")

	// ErrTrialsMismatch is returned when a multinomial row sum differs from
	// its trial count.
	ErrTrialsMismatch = errors.New("response: row sum does not equal trials")

	// ErrTrialsExceeded is returned when a count response exceeds its trials.
	ErrTrialsExceeded = errors.New("response: response exceeds number of trials")

	// ErrCategoryExceeded is returned when a categorical response exceeds
	// the category count.
	ErrCategoryExceeded = errors.New("response: response exceeds number of categories")

	// ErrInsufficientThresholds is returned when an ordinal response exceeds
	// what the declared threshold count can code.
	ErrInsufficientThresholds = errors.New("response: more response categories than thresholds support")

	// ErrBadSE is returned for negative or non-numeric standard errors.
	ErrBadSE = errors.New("response: standard errors must be non-negative")

	// ErrBadWeights is returned for negative or non-numeric weights.
	ErrBadWeights = errors.New("response: weights must be non-negative")

	// ErrBadDecision is returned when a decision flag is neither
	// "lower"/"upper" nor boolean-like 0/1.
	ErrBadDecision = errors.New(`response: decision must be "lower" or "upper"`)

	// ErrBadDenom is returned for non-positive rate denominators.
	ErrBadDenom = errors.New("response: rate denominators must be positive")

	// ErrBadCensoring is returned for censoring codes outside
	// {left, none, right, interval} / {-1, 0, 1, 2}.
	ErrBadCensoring = errors.New("response: invalid censoring indicator")

	// ErrMissingY2 is returned when interval censoring is present but the
	// second bound is absent on an interval row.
	ErrMissingY2 = errors.New("response: interval censoring requires a second bound")

	// ErrY2NotGreater is returned when the interval upper bound does not
	// strictly exceed the response.
	ErrY2NotGreater = errors.New("response: interval bound must exceed the response")

	// ErrBadTruncation is returned when lb >= ub pointwise.
	ErrBadTruncation = errors.New("response: truncation bounds must satisfy lb < ub")

	// ErrOutsideTruncation is returned when a response falls outside its
	// truncation interval.
	ErrOutsideTruncation = errors.New("response: response outside truncation bounds")

	// ErrBadPrior is returned when a prior expression cannot be read as a
	// concentration vector of the right length.
	ErrBadPrior = errors.New("response: malformed prior concentration expression")

	// ErrBadBaseline is returned when a baseline-hazard basis cannot be
	// built (constant or non-finite survival times, basis too small).
	ErrBadBaseline = errors.New("response: cannot build baseline-hazard basis")

	// ErrDuplicateField is returned when merging multivariate bundles with
	// colliding field names.
	ErrDuplicateField = errors.New("response: duplicate bundle field")

	// ErrFieldType is returned by typed Bundle getters on kind mismatch.
	ErrFieldType = errors.New("response: bundle field has different type")
)

// BoundError reports a response value violating one side of the family's
// numeric domain. It unwraps to ErrOutOfBounds and its message cites the
// exact offending bound.
type BoundError struct {
	Side   string  // "lower" or "upper"
	Bound  float64 // the violated bound value
	Closed bool    // whether the bound itself is admissible
	Value  float64 // the offending response value
	Row    int     // 0-based observation index
}

// Error formats the violated relation, e.g. "response must be > 0".
func (e *BoundError) Error() string {
	rel := map[bool]map[string]string{
		true:  {"lower": ">=", "upper": "<="},
		false: {"lower": ">", "upper": "<"},
	}[e.Closed][e.Side]
	return fmt.Sprintf("response: value %g at row %d violates bound: must be %s %g",
		e.Value, e.Row, rel, e.Bound)
}

// Unwrap lets errors.Is(err, ErrOutOfBounds) match.
func (e *BoundError) Unwrap() error { return ErrOutOfBounds }
