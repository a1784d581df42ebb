package thresholds

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
)

var (
	// ErrInsufficientCategories is returned when fewer than one threshold
	// (i.e. fewer than two categories) can be derived for a group.
	ErrInsufficientCategories = errors.New("thresholds: fewer than 2 response categories")

	// ErrInconsistentGroupThresholds is returned when a per-row threshold
	// term is not constant within a threshold group.
	ErrInconsistentGroupThresholds = errors.New("thresholds: threshold count varies within group")

	// ErrBadThresholdCount is returned when a threshold expression yields a
	// non-whole or non-positive value.
	ErrBadThresholdCount = errors.New("thresholds: threshold count must be a positive whole number")

	// ErrNonContiguous is returned by Table.Validate when indices inside a
	// group do not form a 1..K run.
	ErrNonContiguous = errors.New("thresholds: group indices not contiguous")
)

// Row is one (threshold index, group) entry of a threshold Table.
type Row struct {
	Thres int    // 1-based index within the group
	Group string // "" for the ungrouped case
}

// Table is the ordered threshold table: rows grouped by Group in first
// appearance order, indices contiguous 1..K within each group.
type Table []Row

// Groups returns the distinct group labels in table order.
func (t Table) Groups() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range t {
		if _, ok := seen[r.Group]; ok {
			continue
		}
		seen[r.Group] = struct{}{}
		out = append(out, r.Group)
	}
	return out
}

// Count returns the number of thresholds in group, 0 when absent.
func (t Table) Count(group string) int {
	n := 0
	for _, r := range t {
		if r.Group == group {
			n++
		}
	}
	return n
}

// Range returns the 1-based [lo, hi] offsets of group's rows within the
// concatenated table, or (0, 0) when the group is absent. These offsets are
// exactly what the assembler stores per observation in Jgrthres.
func (t Table) Range(group string) (lo, hi int) {
	for i, r := range t {
		if r.Group != group {
			continue
		}
		if lo == 0 {
			lo = i + 1
		}
		hi = i + 1
	}
	return lo, hi
}

// Validate checks the contiguity invariant: within each group, Thres runs
// 1..K in order and groups are not interleaved.
func (t Table) Validate() error {
	last := make(map[string]int)
	prevGroup := ""
	closed := make(map[string]bool)
	for i, r := range t {
		if i > 0 && r.Group != prevGroup {
			if closed[r.Group] {
				return fmt.Errorf("group %q interleaved: %w", r.Group, ErrNonContiguous)
			}
			closed[prevGroup] = true
		}
		if r.Thres != last[r.Group]+1 {
			return fmt.Errorf("group %q index %d after %d: %w", r.Group, r.Thres, last[r.Group], ErrNonContiguous)
		}
		last[r.Group] = r.Thres
		prevGroup = r.Group
	}
	return nil
}

// Extract computes the threshold table for an ordinal frame against tab.
//
// Stage 1: resolve the grouping column (if any) to per-row labels.
// Stage 2: resolve the declared threshold term, or infer counts from the
// response (factor levels or per-group numeric maximum).
// Stage 3: materialize contiguous rows per group.
func Extract(fr *formula.Frame, tab *core.Table) (Table, error) {
	if fr == nil {
		return nil, formula.ErrNilFrame
	}

	groups, order, err := GroupLabels(fr, tab)
	if err != nil {
		return nil, err
	}

	counts, err := groupCounts(fr, tab, groups, order)
	if err != nil {
		return nil, err
	}

	var out Table
	for _, g := range order {
		k := counts[g]
		if k < 1 {
			return nil, fmt.Errorf("group %q: %w", g, ErrInsufficientCategories)
		}
		for idx := 1; idx <= k; idx++ {
			out = append(out, Row{Thres: idx, Group: g})
		}
	}
	return out, nil
}

// GroupLabels resolves per-row threshold-group labels and their
// first-appearance order. Without a grouping column every row belongs to the
// "" group. The assembler reuses this to build per-observation index ranges.
func GroupLabels(fr *formula.Frame, tab *core.Table) (labels []string, order []string, err error) {
	if fr.Add.ThresGroup == "" {
		labels = make([]string, tab.N())
		return labels, []string{""}, nil
	}
	col, err := tab.Column(fr.Add.ThresGroup)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, formula.ErrMalformedAdditionTerm)
	}
	labels = make([]string, col.Len())
	switch v := col.(type) {
	case core.Strings:
		copy(labels, v)
	case core.Factor:
		for i := range v.Codes {
			labels[i] = v.Label(i)
		}
	default:
		return nil, nil, fmt.Errorf("threshold group column %q must be factor-like: %w",
			fr.Add.ThresGroup, formula.ErrMalformedAdditionTerm)
	}
	// A length-1 column is a broadcastable scalar, same rule as
	// core.Broadcast: every observation shares the one label.
	if len(labels) == 1 && tab.N() != 1 {
		shared := labels[0]
		labels = make([]string, tab.N())
		for i := range labels {
			labels[i] = shared
		}
	}
	seen := make(map[string]struct{})
	for _, g := range labels {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		order = append(order, g)
	}
	return labels, order, nil
}

// groupCounts resolves the per-group threshold count from the declared term
// or infers it from the response.
func groupCounts(fr *formula.Frame, tab *core.Table, labels, order []string) (map[string]int, error) {
	counts := make(map[string]int, len(order))

	term, _ := fr.Add.ThresTerm()
	if term != nil {
		xs, err := term.EvalFloats(tab)
		if err != nil {
			return nil, err
		}
		// Scalar: one shared count broadcast to every group.
		if len(xs) == 1 {
			k, err := wholeCount(xs[0])
			if err != nil {
				return nil, err
			}
			for _, g := range order {
				counts[g] = k
			}
			return counts, nil
		}
		if len(xs) != len(labels) {
			return nil, fmt.Errorf("threshold term length %d, want 1 or %d: %w",
				len(xs), len(labels), core.ErrLengthMismatch)
		}
		// Per-row: must be constant within each group.
		for i, x := range xs {
			k, err := wholeCount(x)
			if err != nil {
				return nil, err
			}
			g := labels[i]
			if prev, ok := counts[g]; ok && prev != k {
				return nil, fmt.Errorf("group %q has counts %d and %d: %w",
					g, prev, k, ErrInconsistentGroupThresholds)
			}
			counts[g] = k
		}
		return counts, nil
	}

	return inferCounts(fr, tab, labels, order)
}

// inferCounts derives threshold counts from the response itself.
func inferCounts(fr *formula.Frame, tab *core.Table, labels, order []string) (map[string]int, error) {
	counts := make(map[string]int, len(order))
	col, err := fr.Resp.Eval(tab)
	if err != nil {
		return nil, err
	}

	extra := 0
	if fr.Family.Caps().ExtraCategory {
		extra = 1
	}

	if f, ok := col.(core.Factor); ok {
		// Factor response: level count applies globally.
		k := len(f.Levels) - 1 - extra
		for _, g := range order {
			counts[g] = k
		}
		return counts, nil
	}

	xs, err := core.ToFloats(col)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, formula.ErrMalformedAdditionTerm)
	}
	if xs, err = core.Broadcast(xs, len(labels)); err != nil {
		return nil, err
	}
	// Numeric response: per-group maximum minus one.
	maxes := make(map[string]float64, len(order))
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		g := labels[i]
		if x > maxes[g] {
			maxes[g] = x
		}
	}
	for _, g := range order {
		counts[g] = int(math.Round(maxes[g])) - 1
	}
	return counts, nil
}

// wholeCount validates one threshold-count value.
func wholeCount(x float64) (int, error) {
	if !core.IsWhole(x) || x < 1 {
		return 0, fmt.Errorf("got %g: %w", x, ErrBadThresholdCount)
	}
	return int(math.Round(x)), nil
}

// Categories returns the category label set for a categorical or
// multi-column response: matrix column names when present, factor levels
// otherwise, or synthetic "1".."K" labels for integer-coded responses.
func Categories(fr *formula.Frame, tab *core.Table) ([]string, error) {
	if fr == nil {
		return nil, formula.ErrNilFrame
	}
	col, err := fr.Resp.Eval(tab)
	if err != nil {
		return nil, err
	}
	switch v := col.(type) {
	case core.Matrix:
		if len(v.Names) > 0 {
			return v.Names, nil
		}
		return syntheticLabels(v.Cols())
	case core.Factor:
		if len(v.Levels) < 2 {
			return nil, ErrInsufficientCategories
		}
		return v.Levels, nil
	default:
		xs, err := core.ToFloats(col)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, formula.ErrMalformedAdditionTerm)
		}
		maxv := 0.0
		for _, x := range xs {
			if x > maxv {
				maxv = x
			}
		}
		return syntheticLabels(int(math.Round(maxv)))
	}
}

// syntheticLabels builds "1".."k" labels, requiring at least two.
func syntheticLabels(k int) ([]string, error) {
	if k < 2 {
		return nil, ErrInsufficientCategories
	}
	out := make([]string, k)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out, nil
}
