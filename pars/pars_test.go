package pars_test

import (
	"testing"

	"github.com/maj-biostat/brms/family"
	"github.com/maj-biostat/brms/formula"
	"github.com/maj-biostat/brms/pars"
	"github.com/stretchr/testify/assert"
)

// frame with one grouping factor (patient, id 1, 2 coefficients) and one
// latent mi variable (x) under the location parameter.
func oneOfEachFrame() *formula.MultiFrame {
	return &formula.MultiFrame{Resps: []*formula.Frame{{
		Family:   family.New(family.Gaussian),
		RespName: "y",
		Dpars: []formula.Dpar{{
			Name:    "mu",
			Groups:  []formula.Group{{Factor: "patient", ID: 1, Coefs: 2}},
			Latents: []string{"x"},
		}},
	}}}
}

// TestExclude_DropEverythingPolicy: group and latent both gated off must
// exclude the coefficient and latent names plus the internals.
func TestExclude_DropEverythingPolicy(t *testing.T) {
	p := pars.SavePolicy{Group: pars.None(), Latent: pars.None()}
	got := pars.Exclude(oneOfEachFrame(), p)

	assert.Contains(t, got, "r_1_1")
	assert.Contains(t, got, "r_1_2")
	assert.Contains(t, got, "Ymi_x")
	assert.Contains(t, got, "z_1")
	assert.Contains(t, got, "L_1")
	assert.Contains(t, got, "lprior")
}

// TestExclude_ManualAlwaysWins: force-retaining one name removes exactly it.
func TestExclude_ManualAlwaysWins(t *testing.T) {
	p := pars.SavePolicy{Group: pars.None(), Latent: pars.None()}
	base := pars.Exclude(oneOfEachFrame(), p)

	p.Manual = []string{"Ymi_x"}
	got := pars.Exclude(oneOfEachFrame(), p)

	assert.NotContains(t, got, "Ymi_x")
	assert.Len(t, got, len(base)-1)
	for _, name := range got {
		assert.Contains(t, base, name, "manual must not add names")
	}
}

// TestExclude_DefaultPolicy keeps coefficients, drops latents and internals.
func TestExclude_DefaultPolicy(t *testing.T) {
	got := pars.Exclude(oneOfEachFrame(), pars.DefaultSavePolicy())

	assert.NotContains(t, got, "r_1_1")
	assert.Contains(t, got, "Ymi_x")
	assert.Contains(t, got, "z_1")
}

// TestExclude_AllRetainsInternals: All=true keeps z_/L_/lprior.
func TestExclude_AllRetainsInternals(t *testing.T) {
	p := pars.SavePolicy{Group: pars.All(), Latent: pars.All(), All: true}
	got := pars.Exclude(oneOfEachFrame(), p)
	assert.Empty(t, got)
}

// TestExclude_KeyedSelectors gate by factor/variable identity, not globally.
func TestExclude_KeyedSelectors(t *testing.T) {
	mf := &formula.MultiFrame{Resps: []*formula.Frame{{
		RespName: "y",
		Dpars: []formula.Dpar{{
			Name: "mu",
			Groups: []formula.Group{
				{Factor: "patient", ID: 1, Coefs: 1},
				{Factor: "site", ID: 2, Coefs: 1},
			},
			Latents: []string{"x", "w"},
		}},
	}}}
	p := pars.SavePolicy{Group: pars.Only("patient"), Latent: pars.Only("w")}
	got := pars.Exclude(mf, p)

	assert.NotContains(t, got, "r_1_1", "patient explicitly retained")
	assert.Contains(t, got, "r_2_1", "site not in the retain set")
	assert.Contains(t, got, "Ymi_x")
	assert.NotContains(t, got, "Ymi_w")
}

// TestExclude_OrderIndependence: shuffling dpar and group order must not
// change the resulting set.
func TestExclude_OrderIndependence(t *testing.T) {
	build := func(reverse bool) *formula.MultiFrame {
		groups := []formula.Group{
			{Factor: "patient", ID: 1, Coefs: 2},
			{Factor: "site", ID: 2, Coefs: 1},
		}
		dpars := []formula.Dpar{
			{Name: "mu", Groups: groups, Latents: []string{"x"}},
			{Name: "sigma", Groups: []formula.Group{{Factor: "region", ID: 3, Coefs: 1}}},
		}
		if reverse {
			dpars = []formula.Dpar{dpars[1], dpars[0]}
			dpars[1].Groups = []formula.Group{groups[1], groups[0]}
		}
		return &formula.MultiFrame{Resps: []*formula.Frame{{RespName: "y", Dpars: dpars}}}
	}

	p := pars.SavePolicy{Group: pars.None(), Latent: pars.None()}
	assert.Equal(t, pars.Exclude(build(false), p), pars.Exclude(build(true), p))
}

// TestExclude_RescorOnlyWhenMultivariate: Lrescor appears only with several
// correlated responses.
func TestExclude_RescorOnlyWhenMultivariate(t *testing.T) {
	uni := oneOfEachFrame()
	uni.Rescor = true // single response: flag alone must not add Lrescor
	p := pars.SavePolicy{Group: pars.None(), Latent: pars.None()}
	assert.NotContains(t, pars.Exclude(uni, p), "Lrescor")

	mv := &formula.MultiFrame{
		Rescor: true,
		Resps: []*formula.Frame{
			{RespName: "y1"},
			{RespName: "y2"},
		},
	}
	assert.Contains(t, pars.Exclude(mv, p), "Lrescor")
}

// TestExclude_Idempotent: applying the resolver twice to the same frame
// yields the same set.
func TestExclude_Idempotent(t *testing.T) {
	p := pars.SavePolicy{Group: pars.None(), Latent: pars.None()}
	assert.Equal(t, pars.Exclude(oneOfEachFrame(), p), pars.Exclude(oneOfEachFrame(), p))
}
