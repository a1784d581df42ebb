// Stages 3-6 of the assembler: trials, categories, thresholds and the
// independent scale terms (se, weights, dec, denom).

package response

import (
	"fmt"
	"math"
	"strings"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
	"github.com/maj-biostat/brms/thresholds"
	"gonum.org/v1/gonum/floats"
)

// trialsStage extracts and validates the trials vector for count-bounded
// families. Cross-checks against the response run only when validating;
// the bernoulli advisory fires when every observation has a single trial.
func (a *assembler) trialsStage() error {
	caps := a.fr.Family.Caps()
	if !caps.Trials && a.fr.Add.Trials == nil {
		return nil
	}
	if a.fr.Add.Trials == nil {
		return fmt.Errorf("family %s needs a trials term: %w",
			a.fr.Family.Kind, formula.ErrMissingAdditionTerm)
	}

	xs, err := a.fr.Add.Trials.EvalFloats(a.tab)
	if err != nil {
		return err
	}
	if xs, err = core.Broadcast(xs, a.n); err != nil {
		return err
	}
	trials := make([]int, a.n)
	maxTrials := 0
	for i, x := range xs {
		if !core.IsWhole(x) || x < 0 {
			return fmt.Errorf("trials %g at row %d: %w", x, i, ErrBadTrials)
		}
		trials[i] = int(math.Round(x))
		if trials[i] > maxTrials {
			maxTrials = trials[i]
		}
	}
	a.trials = trials
	a.b.SetIntVec("trials", trials)

	if a.validating() {
		if err := a.crossCheckTrials(); err != nil {
			return err
		}
		if maxTrials == 1 {
			a.advise("only 1 trial per observation; a bernoulli family would model this more directly")
		}
	}
	return nil
}

// crossCheckTrials enforces rowSums(Y) == trials for multinomial responses
// and Y <= trials otherwise.
func (a *assembler) crossCheckTrials() error {
	if a.fr.Family.Caps().MultiColumn {
		r, _ := a.ymat.Data.Dims()
		for i := 0; i < r; i++ {
			sum := floats.Sum(a.ymat.Data.RawRowView(i))
			if int(math.Round(sum)) != a.trials[i] {
				return fmt.Errorf("row %d sums to %g with %d trials: %w",
					i, sum, a.trials[i], ErrTrialsMismatch)
			}
		}
		return nil
	}
	for i, y := range a.y {
		if math.IsNaN(y) {
			continue
		}
		if y > float64(a.trials[i]) {
			return fmt.Errorf("response %g with %d trials at row %d: %w",
				y, a.trials[i], i, ErrTrialsExceeded)
		}
	}
	return nil
}

// categoriesStage derives the category count for categorical-like families,
// validates the response against it and advises when a two-outcome family
// would do.
func (a *assembler) categoriesStage() error {
	caps := a.fr.Family.Caps()
	if !caps.Categorical && !caps.MultiColumn {
		return nil
	}
	labels, err := thresholds.Categories(a.fr, a.tab)
	if err != nil {
		return err
	}
	ncat := len(labels)
	a.b.SetInt("ncat", ncat)

	if a.validating() {
		for i, v := range a.yInt {
			if v > ncat {
				return fmt.Errorf("response %d at row %d with %d categories: %w",
					v, i, ncat, ErrCategoryExceeded)
			}
		}
		if ncat == 2 {
			a.advise("only 2 response categories; a bernoulli family would model this more directly")
		}
	}
	return nil
}

// thresholdsStage resolves the ordinal threshold structure: a single global
// count, or a per-group table with contiguous index ranges recorded per
// observation in Jgrthres.
func (a *assembler) thresholdsStage() error {
	if !a.fr.Family.Caps().Ordinal {
		return nil
	}
	if _, legacy := a.fr.Add.ThresTerm(); legacy {
		a.deprecate(`addition term "cat" is deprecated; use "thres" instead`)
	}

	tbl, err := thresholds.Extract(a.fr, a.tab)
	if err != nil {
		return err
	}
	if a.fr.Add.ThresGroup == "" {
		nthres := tbl.Count("")
		a.b.SetInt("nthres", nthres)
		if nthres == 1 {
			a.advise("only 2 response categories; a bernoulli family would model this more directly")
		}
		return a.checkThresholdCeiling(func(int) int { return nthres })
	}

	labels, order, err := thresholds.GroupLabels(a.fr, a.tab)
	if err != nil {
		return err
	}
	maxThres := 0
	for _, g := range order {
		if k := tbl.Count(g); k > maxThres {
			maxThres = k
		}
	}
	ranges := make([][2]int, a.n)
	for i, g := range labels {
		lo, hi := tbl.Range(g)
		ranges[i] = [2]int{lo, hi}
	}
	a.b.SetInt("nthres", maxThres)
	a.b.SetInt("ngrthres", len(order))
	a.b.SetPairs("Jgrthres", ranges)
	if maxThres == 1 {
		a.advise("only 2 response categories; a bernoulli family would model this more directly")
	}

	return a.checkThresholdCeiling(func(i int) int { return tbl.Count(labels[i]) })
}

// checkThresholdCeiling validates (fitting mode) that each coded response
// fits under its row's threshold count: K thresholds code K+1 categories.
func (a *assembler) checkThresholdCeiling(countAt func(row int) int) error {
	if !a.validating() {
		return nil
	}
	for i, v := range a.yInt {
		if k := countAt(i); v > k+1 {
			return fmt.Errorf("response %d at row %d with %d thresholds: %w",
				v, i, k, ErrInsufficientThresholds)
		}
	}
	return nil
}

// scaleTermsStage handles the four independent per-observation terms:
// standard errors, weights, decision flags and rate denominators.
func (a *assembler) scaleTermsStage() error {
	if a.fr.Add.SE != nil {
		se, err := a.nonNegativeTerm(a.fr.Add.SE, ErrBadSE)
		if err != nil {
			return err
		}
		a.b.SetVec("se", se)
	}

	if a.fr.Add.Weights != nil {
		w, err := a.nonNegativeTerm(a.fr.Add.Weights, ErrBadWeights)
		if err != nil {
			return err
		}
		if a.opts.NormalizeWeights {
			if sum := floats.Sum(w); sum > 0 {
				floats.Scale(float64(a.n)/sum, w)
			}
		}
		a.b.SetVec("weights", w)
	}

	if a.fr.Add.Dec != nil {
		dec, err := a.decodeDecision()
		if err != nil {
			return err
		}
		a.b.SetIntVec("dec", dec)
	}

	if a.fr.Add.Denom != nil {
		denom, err := a.fr.Add.Denom.EvalFloats(a.tab)
		if err != nil {
			return err
		}
		if denom, err = core.Broadcast(denom, a.n); err != nil {
			return err
		}
		for i, d := range denom {
			if !(d > 0) {
				return fmt.Errorf("denominator %g at row %d: %w", d, i, ErrBadDenom)
			}
		}
		a.b.SetVec("denom", denom)
	}
	return nil
}

// nonNegativeTerm evaluates, broadcasts and sign-checks one term, wrapping
// violations in the given sentinel.
func (a *assembler) nonNegativeTerm(term *formula.Term, sentinel error) ([]float64, error) {
	xs, err := term.EvalFloats(a.tab)
	if err != nil {
		return nil, err
	}
	if xs, err = core.Broadcast(xs, a.n); err != nil {
		return nil, err
	}
	out := append([]float64(nil), xs...)
	for i, x := range out {
		if math.IsNaN(x) || x < 0 {
			return nil, fmt.Errorf("value %g at row %d: %w", x, i, sentinel)
		}
	}
	return out, nil
}

// decodeDecision recodes {"lower","upper"} strings/factors, booleans or
// already-numeric {0,1} flags to integer decisions.
func (a *assembler) decodeDecision() ([]int, error) {
	col, err := a.fr.Add.Dec.Eval(a.tab)
	if err != nil {
		return nil, err
	}
	fromLabel := func(i int, s string) (int, error) {
		switch strings.ToLower(s) {
		case "lower":
			return 0, nil
		case "upper":
			return 1, nil
		default:
			return 0, fmt.Errorf("%q at row %d: %w", s, i, ErrBadDecision)
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
		out = make([]int, len(v))
		for i, b := range v {
			if b {
				out[i] = 1
			}
		}
	default:
		xs, errF := core.ToFloats(col)
		if errF != nil {
			return nil, fmt.Errorf("%v: %w", errF, ErrBadDecision)
		}
		out = make([]int, len(xs))
		for i, x := range xs {
			switch x {
			case 0, 1:
				out[i] = int(x)
			default:
				return nil, fmt.Errorf("value %g at row %d: %w", x, i, ErrBadDecision)
			}
		}
	}
	return core.BroadcastInt(out, a.n)
}
