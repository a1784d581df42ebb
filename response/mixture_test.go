package response_test

import (
	"testing"

	"github.com/maj-biostat/brms/family"
	"github.com/maj-biostat/brms/formula"
	"github.com/maj-biostat/brms/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixtureFrame() *formula.Frame {
	return &formula.Frame{
		Family: family.NewMixture(
			family.New(family.Gaussian),
			family.New(family.Gaussian),
			family.New(family.Gamma),
		),
		RespName: "y",
	}
}

func TestAppendMixture_NonMixtureNoop(t *testing.T) {
	b := response.NewBundle()
	err := response.AppendMixture(b, frameFor(family.Gaussian), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, b.Names())
}

func TestAppendMixture_DefaultFlatConcentration(t *testing.T) {
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, mixtureFrame(), nil, nil))

	con, err := b.Vec("con_theta")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, con)
}

func TestAppendMixture_DirichletExpression(t *testing.T) {
	priors := []response.Prior{
		{Class: "theta", Expr: "dirichlet(1, 1, 2)"},
	}
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, mixtureFrame(), priors, nil))

	con, err := b.Vec("con_theta")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 2}, con)
}

func TestAppendMixture_ScalarBroadcast(t *testing.T) {
	priors := []response.Prior{{Class: "theta", Expr: "0.5"}}
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, mixtureFrame(), priors, nil))

	con, err := b.Vec("con_theta")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, con)
}

func TestAppendMixture_GroupedStacksRows(t *testing.T) {
	priors := []response.Prior{
		{Class: "theta", Expr: "dirichlet(2, 2, 2)"},
		{Class: "theta", Group: "site2", Expr: "dirichlet(5, 1, 1)"},
	}
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, mixtureFrame(), priors, []string{"site1", "site2"}))

	m, err := b.Matrix("con_theta")
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)

	// site1 has no specific row and inherits the global concentration.
	assert.Equal(t, []float64{2, 2, 2}, m.RawRowView(0))
	assert.Equal(t, []float64{5, 1, 1}, m.RawRowView(1))
}

func TestAppendMixture_RespSuffix(t *testing.T) {
	fr := mixtureFrame()
	fr.Suffix = "_y"
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, fr, nil, nil))
	assert.True(t, b.Has("con_theta_y"))
}

func TestAppendMixture_BadExpressions(t *testing.T) {
	for _, expr := range []string{
		"beta(1, 1, 1)",     // wrong wrapper
		"dirichlet(1, 0, 1)", // non-positive entry
		"dirichlet(1, 1)",    // wrong arity
		"dirichlet(a, b, c)", // not numeric
	} {
		priors := []response.Prior{{Class: "theta", Expr: expr}}
		err := response.AppendMixture(response.NewBundle(), mixtureFrame(), priors, nil)
		assert.ErrorIs(t, err, response.ErrBadPrior, expr)
	}
}

func TestAppendMixture_PriorRowMatching(t *testing.T) {
	// Rows for other classes or responses never apply.
	priors := []response.Prior{
		{Class: "b", Expr: "dirichlet(9, 9, 9)"},
		{Class: "theta", Resp: "other", Expr: "dirichlet(8, 8, 8)"},
	}
	b := response.NewBundle()
	require.NoError(t, response.AppendMixture(b, mixtureFrame(), priors, nil))

	con, err := b.Vec("con_theta")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, con)
}
