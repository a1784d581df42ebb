// Stage 1 (extract & recode) and stage 2 (domain checks) of the assembler.

package response

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/family"
	"gonum.org/v1/gonum/floats"
)

// simplexTol is the absolute tolerance for simplex row sums.
const simplexTol = 1e-8

// extractResponse pulls the response column and recodes it per family:
// binary → {0,1}, categorical → 1..K, ordinal → integer codes (shifted down
// by one when the family reserves an extra category), multi-column → matrix,
// everything else → raw numeric. Sets the N and Y fields.
func (a *assembler) extractResponse() error {
	col, err := a.fr.Resp.Eval(a.tab)
	if err != nil {
		return err
	}
	caps := a.fr.Family.Caps()
	a.b.SetInt("N", a.n)

	if caps.MultiColumn {
		m, ok := col.(core.Matrix)
		if !ok || m.Data == nil {
			return fmt.Errorf("family %s: %w", a.fr.Family.Kind, ErrMatrixRequired)
		}
		if m.Len() != a.n {
			return fmt.Errorf("matrix response has %d rows, want %d: %w",
				m.Len(), a.n, core.ErrLengthMismatch)
		}
		a.ymat = m
		a.b.SetMatrix("Y", m.Data)
		return nil
	}

	switch {
	case caps.Binary:
		codes, err := a.recodeBinary(col)
		if err != nil {
			return err
		}
		a.yInt = codes
	case caps.Categorical, caps.Ordinal:
		codes, err := a.recodeCoded(col, caps.ExtraCategory)
		if err != nil {
			return err
		}
		a.yInt = codes
	default:
		xs, err := core.ToFloats(col)
		if err != nil {
			return fmt.Errorf("family %s: %w", a.fr.Family.Kind, ErrNonNumericResponse)
		}
		if xs, err = core.Broadcast(xs, a.n); err != nil {
			return err
		}
		// Copy so later sentinel substitution never touches caller data.
		a.y = append([]float64(nil), xs...)
	}

	if a.yInt != nil {
		a.b.SetIntVec("Y", a.yInt)
		// Keep a float view for bound/trials checks.
		a.y = make([]float64, len(a.yInt))
		for i, v := range a.yInt {
			a.y[i] = float64(v)
		}
	} else {
		a.b.SetVec("Y", a.y)
	}
	return nil
}

// recodeBinary maps the two observed response levels onto {0,1}. Factors use
// their level order (first level → 0). Numeric responses map the smaller of
// the two observed values to 0, so a {0, k} coding keeps 0 as the non-event.
// With a single observed level, 0 stays 0 and anything else becomes 1.
func (a *assembler) recodeBinary(col core.Column) ([]int, error) {
	if f, ok := col.(core.Factor); ok {
		codes, err := core.BroadcastInt(f.Codes, a.n)
		if err != nil {
			return nil, err
		}
		out := make([]int, a.n)
		for i, code := range codes {
			if code > 0 {
				out[i] = code - 1
			}
		}
		return out, nil
	}

	xs, err := core.ToFloats(col)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNonNumericResponse)
	}
	if xs, err = core.Broadcast(xs, a.n); err != nil {
		return nil, err
	}
	levels := distinct(xs)
	if len(levels) > 2 {
		return nil, fmt.Errorf("observed %d distinct values: %w", len(levels), ErrNotBinary)
	}
	event := map[float64]int{}
	switch len(levels) {
	case 2:
		event[levels[0]] = 0
		event[levels[1]] = 1
	case 1:
		if levels[0] == 0 {
			event[levels[0]] = 0
		} else {
			event[levels[0]] = 1
		}
	}
	out := make([]int, a.n)
	for i, x := range xs {
		out[i] = event[x]
	}
	return out, nil
}

// recodeCoded turns categorical/ordinal responses into integer codes. Factor
// responses use their declared level order; numeric responses are passed
// through (assumed pre-coded) after a wholeness check deferred to stage 2.
// With a reserved extra category the coding shifts down by one.
func (a *assembler) recodeCoded(col core.Column, extraCategory bool) ([]int, error) {
	shift := 0
	if extraCategory {
		shift = 1
	}
	if f, ok := col.(core.Factor); ok {
		codes, err := core.BroadcastInt(f.Codes, a.n)
		if err != nil {
			return nil, err
		}
		out := make([]int, a.n)
		for i, code := range codes {
			out[i] = code - shift
		}
		return out, nil
	}
	xs, err := core.ToFloats(col)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNonNumericResponse)
	}
	if xs, err = core.Broadcast(xs, a.n); err != nil {
		return nil, err
	}
	out := make([]int, a.n)
	for i, x := range xs {
		if !core.IsWhole(x) {
			return nil, fmt.Errorf("value %g at row %d: %w", x, i, ErrNotWhole)
		}
		out[i] = int(math.Round(x))
	}
	return out, nil
}

// domainChecks validates the recoded response against the family domain.
// Runs only in fitting mode: prediction-time bundles may carry unobserved
// responses.
func (a *assembler) domainChecks() error {
	if !a.validating() {
		return nil
	}
	caps := a.fr.Family.Caps()

	if caps.MultiColumn {
		return a.checkMatrixDomain()
	}

	if caps.Binary {
		for i, v := range a.yInt {
			if v != 0 && v != 1 {
				return fmt.Errorf("value %d at row %d: %w", v, i, ErrNotBinary)
			}
		}
		return nil
	}

	if caps.Discrete && a.yInt == nil {
		if !core.AllWhole(a.y, a.fr.Add.Mi) {
			return ErrNotWhole
		}
	}
	return checkBounds(a.y, caps)
}

// checkMatrixDomain validates element bounds and, for simplex families, the
// unit row sums.
func (a *assembler) checkMatrixDomain() error {
	caps := a.fr.Family.Caps()
	r, c := a.ymat.Data.Dims()
	for i := 0; i < r; i++ {
		row := a.ymat.Data.RawRowView(i)
		if err := checkBounds(row, caps); err != nil {
			// Re-tag the row index: inside a row view the index means the
			// column, not the observation.
			var be *BoundError
			if errors.As(err, &be) {
				be.Row = i
			}
			return err
		}
		if caps.Discrete && !core.AllWhole(row, false) {
			return fmt.Errorf("row %d: %w", i, ErrNotWhole)
		}
		if caps.SimplexRows {
			if math.Abs(floats.Sum(row)-1) > simplexTol {
				return fmt.Errorf("row %d sums to %g: %w", i, floats.Sum(row), ErrSimplexSum)
			}
		}
	}
	if c < 2 {
		return fmt.Errorf("matrix response has %d column(s): %w", c, ErrMatrixRequired)
	}
	return nil
}

// checkBounds verifies each side of the family's numeric domain
// independently, reporting the exact offending bound.
func checkBounds(xs []float64, caps family.Caps) error {
	for i, x := range xs {
		if math.IsNaN(x) {
			// Missing entries are the missingness stage's concern (with mi)
			// or the upstream data layer's (without); a NaN can never
			// meaningfully violate a numeric bound.
			continue
		}
		if lowerViolated(x, caps.Lower, caps.ClosedLower) {
			return &BoundError{Side: "lower", Bound: caps.Lower, Closed: caps.ClosedLower, Value: x, Row: i}
		}
		if upperViolated(x, caps.Upper, caps.ClosedUpper) {
			return &BoundError{Side: "upper", Bound: caps.Upper, Closed: caps.ClosedUpper, Value: x, Row: i}
		}
	}
	return nil
}

func lowerViolated(x, bound float64, closed bool) bool {
	if math.IsInf(bound, -1) {
		return false
	}
	if closed {
		return x < bound
	}
	return x <= bound
}

func upperViolated(x, bound float64, closed bool) bool {
	if math.IsInf(bound, 1) {
		return false
	}
	if closed {
		return x > bound
	}
	return x >= bound
}

// distinct returns the sorted distinct non-NaN values of xs.
func distinct(xs []float64) []float64 {
	seen := make(map[float64]struct{}, 2)
	var out []float64
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Float64s(out)
	return out
}
