package response_test

import (
	"math"
	"testing"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/family"
	"github.com/maj-biostat/brms/formula"
	"github.com/maj-biostat/brms/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensoring_StringLabels(t *testing.T) {
	tab := newTable(t, 4, map[string]core.Column{
		"y":  core.Numeric{1, 2, 3, 4},
		"c":  core.Strings{"left", "none", "Right", "interval"},
		"y2": core.Numeric{0, 0, 0, 6},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")
	fr.Add.Y2 = formula.MustTerm("y2")

	b, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	require.NoError(t, err)

	cens, err := b.IntVec("cens")
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1, 2}, cens)

	// rcens carries the upper bound only on interval rows; elsewhere it is
	// an inert zero.
	rcens, err := b.Vec("rcens")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 6}, rcens)
}

func TestCensoring_BooleanShorthand(t *testing.T) {
	tab := newTable(t, 3, map[string]core.Column{
		"y": core.Numeric{1, 2, 3},
		"c": core.Logical{true, false, true},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")

	b, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	require.NoError(t, err)

	cens, err := b.IntVec("cens")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, cens)
	assert.False(t, b.Has("rcens"), "no interval rows, no bound vector")
}

func TestCensoring_NumericCodes(t *testing.T) {
	tab := newTable(t, 3, map[string]core.Column{
		"y": core.Numeric{1, 2, 3},
		"c": core.Numeric{-1, 0, 1},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")

	b, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	require.NoError(t, err)
	cens, err := b.IntVec("cens")
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, cens)
}

func TestCensoring_BadCode(t *testing.T) {
	tab := newTable(t, 2, map[string]core.Column{
		"y": core.Numeric{1, 2},
		"c": core.Numeric{0, 3},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrBadCensoring)
}

func TestCensoring_IntervalNeedsY2(t *testing.T) {
	tab := newTable(t, 2, map[string]core.Column{
		"y": core.Numeric{1, 2},
		"c": core.Numeric{0, 2},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrMissingY2)
}

func TestCensoring_Y2MustExceedResponse(t *testing.T) {
	tab := newTable(t, 2, map[string]core.Column{
		"y":  core.Numeric{1, 5},
		"c":  core.Numeric{0, 2},
		"y2": core.Numeric{0, 5},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")
	fr.Add.Y2 = formula.MustTerm("y2")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrY2NotGreater)

	// Prediction inputs skip the ordering check but still require the bound.
	_, _, err = response.Assemble(fr, tab, response.Options{Mode: response.ModePrediction})
	assert.NoError(t, err)
}

func TestCensoring_MissingY2OnIntervalRow(t *testing.T) {
	tab := newTable(t, 2, map[string]core.Column{
		"y":  core.Numeric{1, 5},
		"c":  core.Numeric{0, 2},
		"y2": core.Numeric{0, math.NaN()},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Cens = formula.MustTerm("c")
	fr.Add.Y2 = formula.MustTerm("y2")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrMissingY2)
}

func TestTruncation_Bounds(t *testing.T) {
	tab := newTable(t, 3, map[string]core.Column{
		"y": core.Numeric{1, 2, 3},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Lower = formula.MustTerm("0")

	b, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	require.NoError(t, err)

	lb, err := b.Vec("lb")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, lb)

	// The undeclared side defaults to an open bound.
	ub, err := b.Vec("ub")
	require.NoError(t, err)
	assert.True(t, math.IsInf(ub[0], 1))
}

func TestTruncation_ResponseOutside(t *testing.T) {
	tab := newTable(t, 3, map[string]core.Column{
		"y": core.Numeric{1, -2, 3},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Lower = formula.MustTerm("0")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrOutsideTruncation)

	_, _, err = response.Assemble(fr, tab, response.Options{Mode: response.ModePrediction})
	assert.NoError(t, err)
}

func TestTruncation_DegenerateInterval(t *testing.T) {
	tab := newTable(t, 2, map[string]core.Column{
		"y": core.Numeric{1, 2},
	})
	fr := frameFor(family.Gaussian)
	fr.Add.Lower = formula.MustTerm("5")
	fr.Add.Upper = formula.MustTerm("5")

	_, _, err := response.Assemble(fr, tab, response.DefaultOptions())
	assert.ErrorIs(t, err, response.ErrBadTruncation)
}
