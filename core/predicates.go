// Package core - numeric predicates and broadcast helpers shared by the
// validation pipelines.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - Sentinel errors only; no panics on user input.
//   - O(n) single-pass scans, no hidden allocations beyond returned slices.

package core

import (
	"fmt"
	"math"
	"sort"
)

// wholeTol is the tolerance under which a float is considered a whole number.
// Matches sqrt of the float64 machine epsilon.
const wholeTol = 1.490116e-08

// IsWhole reports whether x is a whole number within wholeTol. NaN and ±Inf
// are never whole.
func IsWhole(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return math.Abs(x-math.Round(x)) < wholeTol
}

// AllWhole reports whether every element of xs is a whole number.
// NaN entries are skipped when skipNA is true (missing values are checked by
// the missingness stage, not here).
func AllWhole(xs []float64, skipNA bool) bool {
	for _, x := range xs {
		if skipNA && math.IsNaN(x) {
			continue
		}
		if !IsWhole(x) {
			return false
		}
	}
	return true
}

// AllFinite reports whether xs contains neither NaN nor ±Inf.
func AllFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// SetsEqual reports whether the sets of distinct values in xs and want are
// identical (order-free, duplicates ignored). Used e.g. to check that a
// recoded binary response is exactly {0, 1}.
func SetsEqual(xs, want []float64) bool {
	return setKey(xs) == setKey(want)
}

// setKey builds a canonical string key for the distinct-value set of xs.
func setKey(xs []float64) string {
	uniq := make([]float64, 0, len(xs))
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		uniq = append(uniq, x)
	}
	sort.Float64s(uniq)
	return fmt.Sprint(uniq)
}

// Broadcast expands xs to length n: a length-1 slice is repeated n times, a
// length-n slice is returned as-is (no copy). Any other length fails with
// ErrLengthMismatch.
func Broadcast(xs []float64, n int) ([]float64, error) {
	switch len(xs) {
	case n:
		return xs, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = xs[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("broadcast length %d to %d: %w", len(xs), n, ErrLengthMismatch)
	}
}

// BroadcastInt is Broadcast for int slices.
func BroadcastInt(xs []int, n int) ([]int, error) {
	switch len(xs) {
	case n:
		return xs, nil
	case 1:
		out := make([]int, n)
		for i := range out {
			out[i] = xs[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("broadcast length %d to %d: %w", len(xs), n, ErrLengthMismatch)
	}
}

// ToFloats coerces a column to a float64 slice. Numeric columns are returned
// as-is; Integer and Logical columns are converted (true→1, false→0); Factor
// columns yield their 1-based codes (0 for missing is mapped to NaN).
// Strings and Matrix columns fail with ErrNonNumeric.
func ToFloats(c Column) ([]float64, error) {
	switch v := c.(type) {
	case Numeric:
		return v, nil
	case Integer:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case Logical:
		out := make([]float64, len(v))
		for i, b := range v {
			if b {
				out[i] = 1
			}
		}
		return out, nil
	case Factor:
		out := make([]float64, len(v.Codes))
		for i, code := range v.Codes {
			if code == 0 {
				out[i] = math.NaN()
				continue
			}
			out[i] = float64(code)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T: %w", c, ErrNonNumeric)
	}
}
