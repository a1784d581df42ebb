// Cox baseline-hazard auxiliary block: monotone spline bases over the
// observed survival times.

package response

import (
	"fmt"
	"math"
	"sort"

	"github.com/maj-biostat/brms/formula"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// boundaryStretch widens the boundary knots by this share of the observed
// range on each side. Placing a boundary knot exactly on the data boundary
// makes the log hazard degenerate there (an observed event at the knot gets
// zero hazard), so the lower knot is shrunk below the minimum (clipped at 0,
// survival times are non-negative) and the upper knot extended past the
// maximum.
const boundaryStretch = 0.02

// CoxOptions sizes the baseline-hazard basis.
//
//   - Df     — number of basis functions (columns of Zbhaz/Zcbhaz).
//   - Degree — polynomial degree of the spline pieces.
//
// Df must exceed Degree; the difference fixes the interior knot count.
type CoxOptions struct {
	Df     int
	Degree int
}

// DefaultCoxOptions returns the conventional cubic five-column basis.
func DefaultCoxOptions() CoxOptions { return CoxOptions{Df: 5, Degree: 3} }

// AppendCoxBaseline computes the monotone baseline-hazard design over ys and
// stores it in b: Zbhaz holds the M-spline basis (hazard), Zcbhaz its
// integral, the I-spline basis (cumulative hazard). Both are N×Df matrices,
// suffixed with the frame's response suffix.
func AppendCoxBaseline(b *Bundle, fr *formula.Frame, ys []float64, opts CoxOptions) error {
	if fr == nil {
		return formula.ErrNilFrame
	}
	if opts.Df <= opts.Degree || opts.Degree < 1 {
		return fmt.Errorf("df %d, degree %d: %w", opts.Df, opts.Degree, ErrBadBaseline)
	}
	if len(ys) == 0 || !floatsFinite(ys) {
		return fmt.Errorf("non-finite survival times: %w", ErrBadBaseline)
	}

	knots, err := baselineKnots(ys, opts)
	if err != nil {
		return err
	}
	order := opts.Degree + 1

	zb := mat.NewDense(len(ys), opts.Df, nil)
	zc := mat.NewDense(len(ys), opts.Df, nil)
	for i, y := range ys {
		zb.SetRow(i, msplineRow(y, knots, order, opts.Df))
		zc.SetRow(i, isplineRow(y, knots, order, opts.Df))
	}
	b.SetInt(fr.Field("Kbhaz"), opts.Df)
	b.SetMatrix(fr.Field("Zbhaz"), zb)
	b.SetMatrix(fr.Field("Zcbhaz"), zc)
	return nil
}

// baselineKnots builds the clamped knot vector: order copies of each
// stretched boundary plus interior knots at evenly spaced quantiles of ys.
func baselineKnots(ys []float64, opts CoxOptions) ([]float64, error) {
	lo, hi := floats.Min(ys), floats.Max(ys)
	span := hi - lo
	if span <= 0 {
		return nil, fmt.Errorf("constant survival times: %w", ErrBadBaseline)
	}
	lower := math.Max(0, lo-boundaryStretch*span)
	upper := hi + boundaryStretch*span

	order := opts.Degree + 1
	nInterior := opts.Df - order

	sorted := append([]float64(nil), ys...)
	sort.Float64s(sorted)

	knots := make([]float64, 0, 2*order+nInterior)
	for i := 0; i < order; i++ {
		knots = append(knots, lower)
	}
	for i := 1; i <= nInterior; i++ {
		q := float64(i) / float64(nInterior+1)
		knots = append(knots, quantile(sorted, q))
	}
	for i := 0; i < order; i++ {
		knots = append(knots, upper)
	}
	return knots, nil
}

// quantile interpolates the q-quantile of pre-sorted xs.
func quantile(xs []float64, q float64) float64 {
	pos := q * float64(len(xs)-1)
	i := int(math.Floor(pos))
	if i >= len(xs)-1 {
		return xs[len(xs)-1]
	}
	frac := pos - float64(i)
	return xs[i]*(1-frac) + xs[i+1]*frac
}

// bsplineRow evaluates all order-k B-spline basis functions at x on knot
// vector t via the iterative Cox-de Boor triangle. x equal to the right
// boundary is folded into the last non-empty interval so the basis sums to
// one on the closed domain.
func bsplineRow(x float64, t []float64, k int) []float64 {
	b := make([]float64, len(t)-1)
	last := t[len(t)-1]
	for i := range b {
		if (t[i] <= x && x < t[i+1]) || (x == last && t[i] < t[i+1] && t[i+1] == last) {
			b[i] = 1
		}
	}
	for ord := 2; ord <= k; ord++ {
		for i := 0; i < len(t)-ord; i++ {
			var left, right float64
			if d := t[i+ord-1] - t[i]; d > 0 {
				left = (x - t[i]) / d * b[i]
			}
			if d := t[i+ord] - t[i+1]; d > 0 {
				right = (t[i+ord] - x) / d * b[i+1]
			}
			b[i] = left + right
		}
	}
	return b[:len(t)-k]
}

// msplineRow is the density-normalized B-spline row:
// M_i = B_i * k / (t[i+k] - t[i]).
func msplineRow(x float64, t []float64, k, df int) []float64 {
	b := bsplineRow(x, t, k)
	out := make([]float64, df)
	for i := 0; i < df; i++ {
		if d := t[i+k] - t[i]; d > 0 {
			out[i] = b[i] * float64(k) / d
		}
	}
	return out
}

// isplineRow integrates the M-spline basis: on the knot vector extended by
// one extra boundary copy per side, I_i(x) = Σ_{m>i} B¹_m(x) with B¹ the
// order-(k+1) basis. Each column runs monotonically from 0 at the lower
// boundary to 1 at the upper.
func isplineRow(x float64, t []float64, k, df int) []float64 {
	ext := make([]float64, 0, len(t)+2)
	ext = append(ext, t[0])
	ext = append(ext, t...)
	ext = append(ext, t[len(t)-1])
	b1 := bsplineRow(x, ext, k+1) // df+1 entries

	out := make([]float64, df)
	// Suffix sums: I_i collects every higher-order basis beyond column i.
	tail := 0.0
	for i := df; i >= 1; i-- {
		tail += b1[i]
		out[i-1] = tail
	}
	return out
}

// floatsFinite reports whether xs is entirely finite.
func floatsFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
