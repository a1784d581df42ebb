package formula_test

import (
	"testing"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T) *core.Table {
	t.Helper()
	tab := core.NewTable(3)
	require.NoError(t, tab.AddColumn("x", core.Numeric{1, 2, 3}))
	require.NoError(t, tab.AddColumn("n", core.Numeric{10, 10, 10}))
	require.NoError(t, tab.AddColumn("grp", core.Strings{"a", "b", "a"}))
	return tab
}

// TestTerm_BareIdent returns the column unchanged, whatever its kind.
func TestTerm_BareIdent(t *testing.T) {
	tab := newTable(t)

	c, err := formula.MustTerm("grp").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Strings{"a", "b", "a"}, c)
}

// TestTerm_Arithmetic covers precedence, parens, unary minus and scalar
// broadcasting inside binary operators.
func TestTerm_Arithmetic(t *testing.T) {
	tab := newTable(t)

	c, err := formula.MustTerm("n - x*2").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{8, 6, 4}, c)

	c, err = formula.MustTerm("(n - x)/x").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{9, 4, 7.0 / 3.0}, c)

	c, err = formula.MustTerm("-x + 1").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{0, -1, -2}, c)
}

// TestTerm_Calls checks the supported call kernels.
func TestTerm_Calls(t *testing.T) {
	tab := newTable(t)

	c, err := formula.MustTerm("sqrt(x*x)").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{1, 2, 3}, c)

	c, err = formula.MustTerm("abs(0 - x)").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{1, 2, 3}, c)
}

// TestTerm_ScalarLiteral yields a length-1 column for downstream broadcast.
func TestTerm_ScalarLiteral(t *testing.T) {
	tab := newTable(t)
	c, err := formula.MustTerm("10").Eval(tab)
	require.NoError(t, err)
	assert.Equal(t, core.Numeric{10}, c)
}

// TestTerm_Malformed covers parse failures, unknown columns and non-numeric
// arithmetic, all tagged ErrMalformedAdditionTerm.
func TestTerm_Malformed(t *testing.T) {
	tab := newTable(t)

	_, err := formula.ParseTerm("x +")
	assert.ErrorIs(t, err, formula.ErrMalformedAdditionTerm)

	_, err = formula.ParseTerm("foo(x)")
	assert.ErrorIs(t, err, formula.ErrMalformedAdditionTerm)

	_, err = formula.MustTerm("absent + 1").Eval(tab)
	assert.ErrorIs(t, err, formula.ErrMalformedAdditionTerm)

	_, err = formula.MustTerm("grp + 1").Eval(tab)
	assert.ErrorIs(t, err, formula.ErrMalformedAdditionTerm, "string column has no numeric reading")
}

// TestTerm_NilEvalIsMissing: a nil term is the "not declared" marker.
func TestTerm_NilEvalIsMissing(t *testing.T) {
	var missing *formula.Term
	_, err := missing.Eval(newTable(t))
	assert.ErrorIs(t, err, formula.ErrMissingAdditionTerm)
}

// TestAddition_ThresTerm prefers thres over the deprecated cat alias.
func TestAddition_ThresTerm(t *testing.T) {
	a := formula.Addition{Cat: formula.MustTerm("4")}
	term, legacy := a.ThresTerm()
	assert.NotNil(t, term)
	assert.True(t, legacy)

	a.Thres = formula.MustTerm("5")
	term, legacy = a.ThresTerm()
	assert.Equal(t, "5", term.String())
	assert.False(t, legacy)
}
