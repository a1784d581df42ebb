// Mixture-weight auxiliary block: fixed Dirichlet prior concentrations for
// the component probabilities, read from the external prior table.

package response

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maj-biostat/brms/formula"
	"gonum.org/v1/gonum/mat"
)

// Prior is one row of the externally supplied prior-specification table.
// Expr carries a concentration expression, e.g. "dirichlet(1, 1, 2)" or a
// bare "1" broadcast over all components.
type Prior struct {
	Class string // parameter class, "theta" for mixture probabilities
	Group string // stratification group, "" for the global row
	Resp  string // response name in multivariate models, "" otherwise
	Expr  string
}

// thetaClass is the prior class naming the mixture probabilities.
const thetaClass = "theta"

// AppendMixture attaches the Dirichlet concentration data for a finite
// mixture whose probabilities are not themselves predicted. Without
// stratification a single con_theta vector is stored; with stratification
// one vector per group is stacked row-wise into a con_theta matrix, groups
// lacking a specific prior falling back to the global row.
//
// Absent prior rows default to the flat concentration 1.
func AppendMixture(b *Bundle, fr *formula.Frame, priors []Prior, groups []string) error {
	if fr == nil {
		return formula.ErrNilFrame
	}
	if !fr.Family.IsMixture() {
		return nil
	}
	ncomp := len(fr.Family.Mixture)

	global, err := concentrationFor(priors, fr.RespName, "", ncomp)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		b.SetVec(fr.Field("con_theta"), global)
		return nil
	}

	stacked := mat.NewDense(len(groups), ncomp, nil)
	for gi, g := range groups {
		con, err := concentrationFor(priors, fr.RespName, g, ncomp)
		if err != nil {
			return err
		}
		if con == nil {
			con = global
		}
		stacked.SetRow(gi, con)
	}
	b.SetMatrix(fr.Field("con_theta"), stacked)
	return nil
}

// concentrationFor resolves the concentration vector for (resp, group).
// A missing group-specific row yields nil so the caller can fall back; a
// missing global row yields the flat vector of ones.
func concentrationFor(priors []Prior, resp, group string, ncomp int) ([]float64, error) {
	for _, p := range priors {
		if p.Class != thetaClass || p.Resp != resp || p.Group != group {
			continue
		}
		return parseConcentration(p.Expr, ncomp)
	}
	if group != "" {
		return nil, nil
	}
	flat := make([]float64, ncomp)
	for i := range flat {
		flat[i] = 1
	}
	return flat, nil
}

// parseConcentration reads "dirichlet(a1, …, aK)" or a bare comma-separated
// list; a single value broadcasts over all components. Every entry must be a
// positive number.
func parseConcentration(expr string, ncomp int) ([]float64, error) {
	s := strings.TrimSpace(expr)
	if i := strings.Index(s, "("); i >= 0 && strings.HasSuffix(s, ")") {
		if !strings.EqualFold(strings.TrimSpace(s[:i]), "dirichlet") {
			return nil, fmt.Errorf("%q: %w", expr, ErrBadPrior)
		}
		s = s[i+1 : len(s)-1]
	}
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !(v > 0) {
			return nil, fmt.Errorf("%q: %w", expr, ErrBadPrior)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case ncomp:
		return vals, nil
	case 1:
		out := make([]float64, ncomp)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%q has %d entries for %d components: %w",
			expr, len(vals), ncomp, ErrBadPrior)
	}
}
