// Stages 7-8 of the assembler: censoring codes and truncation bounds.

package response

import (
	"fmt"
	"math"
	"strings"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
)

// Censoring codes used in the bundle.
const (
	censLeft     = -1
	censNone     = 0
	censRight    = 1
	censInterval = 2
)

// censoringStage recodes the censoring term to {-1,0,1,2} and, when interval
// censoring is in play, validates and attaches the second bound. Non-interval
// rows always get an inert zero in rcens.
func (a *assembler) censoringStage() error {
	if a.fr.Add.Cens == nil {
		return nil
	}
	codes, err := a.decodeCensoring()
	if err != nil {
		return err
	}
	a.b.SetIntVec("cens", codes)

	// Interval support is needed as soon as any row carries code 2, or the
	// frame structurally declares a second bound.
	interval := a.fr.Add.Y2 != nil
	for _, c := range codes {
		if c == censInterval {
			interval = true
			break
		}
	}
	if !interval {
		return nil
	}
	if a.fr.Add.Y2 == nil {
		return fmt.Errorf("interval censoring observed: %w", ErrMissingY2)
	}

	y2, err := a.fr.Add.Y2.EvalFloats(a.tab)
	if err != nil {
		return err
	}
	if y2, err = core.Broadcast(y2, a.n); err != nil {
		return err
	}
	rcens := make([]float64, a.n)
	for i, c := range codes {
		if c != censInterval {
			continue // rcens stays 0: inert placeholder for the backend
		}
		if math.IsNaN(y2[i]) {
			return fmt.Errorf("row %d: %w", i, ErrMissingY2)
		}
		if a.validating() && !(y2[i] > a.y[i]) {
			return fmt.Errorf("bound %g vs response %g at row %d: %w",
				y2[i], a.y[i], i, ErrY2NotGreater)
		}
		rcens[i] = y2[i]
	}
	a.b.SetVec("rcens", rcens)
	return nil
}

// decodeCensoring maps string/factor labels, booleans or numeric codes to
// the canonical {-1,0,1,2} coding. Only a scalar broadcasts; any other
// length must equal N exactly.
func (a *assembler) decodeCensoring() ([]int, error) {
	col, err := a.fr.Add.Cens.Eval(a.tab)
	if err != nil {
		return nil, err
	}
	fromLabel := func(i int, s string) (int, error) {
		switch strings.ToLower(s) {
		case "left", "-1":
			return censLeft, nil
		case "none", "0":
			return censNone, nil
		case "right", "1":
			return censRight, nil
		case "interval", "2":
			return censInterval, nil
		default:
			return 0, fmt.Errorf("%q at row %d: %w", s, i, ErrBadCensoring)
		}
	}

	var out []int
	switch v := col.(type) {
	case core.Strings:
		out = make([]int, len(v))
		for i, s := range v {
			if out[i], err = fromLabel(i, s); err != nil {
				return nil, err
			}
		}
	case core.Factor:
		out = make([]int, v.Len())
		for i := range v.Codes {
			if out[i], err = fromLabel(i, v.Label(i)); err != nil {
				return nil, err
			}
		}
	case core.Logical:
		// Boolean shorthand: true = right-censored, false = observed.
		out = make([]int, len(v))
		for i, b := range v {
			if b {
				out[i] = censRight
			}
		}
	default:
		xs, errF := core.ToFloats(col)
		if errF != nil {
			return nil, fmt.Errorf("%v: %w", errF, ErrBadCensoring)
		}
		out = make([]int, len(xs))
		for i, x := range xs {
			if !core.IsWhole(x) || x < censLeft || x > censInterval {
				return nil, fmt.Errorf("code %g at row %d: %w", x, i, ErrBadCensoring)
			}
			out[i] = int(math.Round(x))
		}
	}
	return core.BroadcastInt(out, a.n)
}

// truncationStage broadcasts the declared truncation bounds, requires
// lb < ub pointwise and (when validating) flags responses outside [lb, ub].
func (a *assembler) truncationStage() error {
	if a.fr.Add.Lower == nil && a.fr.Add.Upper == nil {
		return nil
	}
	lb, ub, err := a.truncationBounds()
	if err != nil {
		return err
	}
	if a.validating() {
		for i, y := range a.y {
			if math.IsNaN(y) {
				continue
			}
			if y < lb[i] || y > ub[i] {
				return fmt.Errorf("response %g outside [%g, %g] at row %d: %w",
					y, lb[i], ub[i], i, ErrOutsideTruncation)
			}
		}
	}
	a.b.SetVec("lb", lb)
	a.b.SetVec("ub", ub)
	return nil
}

// truncationBounds evaluates lb/ub terms (defaulting an absent side to
// ±Inf) and enforces lb < ub pointwise. Shared with the measurement-error
// stage, which retains bounds for predicting missing entries.
func (a *assembler) truncationBounds() (lb, ub []float64, err error) {
	fill := func(term *formula.Term, def float64) ([]float64, error) {
		if term == nil {
			out := make([]float64, a.n)
			for i := range out {
				out[i] = def
			}
			return out, nil
		}
		xs, err := term.EvalFloats(a.tab)
		if err != nil {
			return nil, err
		}
		return core.Broadcast(xs, a.n)
	}

	if lb, err = fill(a.fr.Add.Lower, math.Inf(-1)); err != nil {
		return nil, nil, err
	}
	if ub, err = fill(a.fr.Add.Upper, math.Inf(1)); err != nil {
		return nil, nil, err
	}
	for i := range lb {
		if !(lb[i] < ub[i]) {
			return nil, nil, fmt.Errorf("lb %g, ub %g at row %d: %w",
				lb[i], ub[i], i, ErrBadTruncation)
		}
	}
	return lb, ub, nil
}
