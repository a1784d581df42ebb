package thresholds_test

import (
	"testing"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/family"
	"github.com/maj-biostat/brms/formula"
	"github.com/maj-biostat/brms/thresholds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordinalFrame(kind family.Kind) *formula.Frame {
	return &formula.Frame{
		Family:   family.New(kind),
		Resp:     formula.MustTerm("y"),
		RespName: "y",
	}
}

// TestExtract_InferredFromFactor: 4 ordered levels, no extra category,
// no grouping → 3 thresholds in the "" group.
func TestExtract_InferredFromFactor(t *testing.T) {
	tab := core.NewTable(5)
	require.NoError(t, tab.AddColumn("y", core.Factor{
		Levels:  []string{"low", "mid", "high", "top"},
		Codes:   []int{1, 2, 4, 3, 2},
		Ordered: true,
	}))

	tbl, err := thresholds.Extract(ordinalFrame(family.Cumulative), tab)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Count(""))
	assert.Equal(t, []string{""}, tbl.Groups())
	assert.NoError(t, tbl.Validate())
}

// TestExtract_ExtraCategoryShift: the hurdle family reserves one category,
// dropping the inferred count by one more.
func TestExtract_ExtraCategoryShift(t *testing.T) {
	tab := core.NewTable(3)
	require.NoError(t, tab.AddColumn("y", core.Factor{
		Levels: []string{"none", "a", "b", "c"},
		Codes:  []int{1, 2, 4},
	}))

	tbl, err := thresholds.Extract(ordinalFrame(family.HurdleCumulative), tab)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count(""))
}

// TestExtract_NumericInference: max(response) − 1.
func TestExtract_NumericInference(t *testing.T) {
	tab := core.NewTable(4)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 3, 2, 4}))

	tbl, err := thresholds.Extract(ordinalFrame(family.Cumulative), tab)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Count(""))
}

// TestExtract_GroupedScalarBroadcast: one shared declared count per group,
// plus Range offsets into the concatenated table.
func TestExtract_GroupedScalarBroadcast(t *testing.T) {
	tab := core.NewTable(4)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 2, 1, 3}))
	require.NoError(t, tab.AddColumn("site", core.Strings{"a", "a", "b", "b"}))

	fr := ordinalFrame(family.Cumulative)
	fr.Add.Thres = formula.MustTerm("3")
	fr.Add.ThresGroup = "site"

	tbl, err := thresholds.Extract(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Groups())
	assert.Equal(t, 3, tbl.Count("a"))
	assert.Equal(t, 3, tbl.Count("b"))

	lo, hi := tbl.Range("a")
	assert.Equal(t, [2]int{1, 3}, [2]int{lo, hi})
	lo, hi = tbl.Range("b")
	assert.Equal(t, [2]int{4, 6}, [2]int{lo, hi})
}

// TestExtract_GroupedPerRowConstant accepts per-row counts constant within a
// group and rejects varying ones.
func TestExtract_GroupedPerRowConstant(t *testing.T) {
	tab := core.NewTable(4)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 2, 1, 3}))
	require.NoError(t, tab.AddColumn("site", core.Strings{"a", "a", "b", "b"}))
	require.NoError(t, tab.AddColumn("k", core.Numeric{2, 2, 4, 4}))
	require.NoError(t, tab.AddColumn("kbad", core.Numeric{2, 3, 4, 4}))

	fr := ordinalFrame(family.Cumulative)
	fr.Add.Thres = formula.MustTerm("k")
	fr.Add.ThresGroup = "site"

	tbl, err := thresholds.Extract(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count("a"))
	assert.Equal(t, 4, tbl.Count("b"))

	fr.Add.Thres = formula.MustTerm("kbad")
	_, err = thresholds.Extract(fr, tab)
	assert.ErrorIs(t, err, thresholds.ErrInconsistentGroupThresholds)
}

// TestExtract_InsufficientCategories: a single-level response cannot support
// an ordinal model.
func TestExtract_InsufficientCategories(t *testing.T) {
	tab := core.NewTable(3)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 1, 1}))

	_, err := thresholds.Extract(ordinalFrame(family.Cumulative), tab)
	assert.ErrorIs(t, err, thresholds.ErrInsufficientCategories)
}

// TestExtract_BadDeclaredCount rejects fractional and non-positive counts.
func TestExtract_BadDeclaredCount(t *testing.T) {
	tab := core.NewTable(2)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 2}))

	fr := ordinalFrame(family.Cumulative)
	fr.Add.Thres = formula.MustTerm("2.5")
	_, err := thresholds.Extract(fr, tab)
	assert.ErrorIs(t, err, thresholds.ErrBadThresholdCount)

	fr.Add.Thres = formula.MustTerm("0")
	_, err = thresholds.Extract(fr, tab)
	assert.ErrorIs(t, err, thresholds.ErrBadThresholdCount)
}

// TestCategories covers matrix names, factor levels and synthetic labels.
func TestCategories(t *testing.T) {
	tab := core.NewTable(2)
	require.NoError(t, tab.AddColumn("yn", core.Numeric{3, 2}))
	require.NoError(t, tab.AddColumn("yf", core.Factor{
		Levels: []string{"red", "green", "blue"},
		Codes:  []int{1, 3},
	}))

	fr := &formula.Frame{Family: family.New(family.Categorical), Resp: formula.MustTerm("yf")}
	labels, err := thresholds.Categories(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green", "blue"}, labels)

	fr.Resp = formula.MustTerm("yn")
	labels, err = thresholds.Categories(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, labels)
}

// TestTableValidate_NonContiguous flags holes and interleaving.
func TestTableValidate_NonContiguous(t *testing.T) {
	bad := thresholds.Table{
		{Thres: 1, Group: "a"},
		{Thres: 3, Group: "a"},
	}
	assert.ErrorIs(t, bad.Validate(), thresholds.ErrNonContiguous)

	interleaved := thresholds.Table{
		{Thres: 1, Group: "a"},
		{Thres: 1, Group: "b"},
		{Thres: 2, Group: "a"},
	}
	assert.ErrorIs(t, interleaved.Validate(), thresholds.ErrNonContiguous)
}

// TestGroupLabels_ScalarColumn: a length-1 grouping column is a
// broadcastable scalar and must yield one label per observation, with
// inference running against the whole response.
func TestGroupLabels_ScalarColumn(t *testing.T) {
	tab := core.NewTable(4)
	require.NoError(t, tab.AddColumn("y", core.Numeric{1, 2, 3, 1}))
	require.NoError(t, tab.AddColumn("site", core.Strings{"A"}))

	fr := ordinalFrame(family.Cumulative)
	fr.Add.ThresGroup = "site"

	labels, order, err := thresholds.GroupLabels(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A", "A", "A"}, labels)
	assert.Equal(t, []string{"A"}, order)

	// The inferred per-group maximum sees all four rows, not just the first.
	tbl, err := thresholds.Extract(fr, tab)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count("A"))
}
