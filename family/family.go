package family

import "math"

// Kind enumerates the supported response families. The set is closed: every
// pipeline stage understands exactly these tags (Custom carries its own
// capability record).
type Kind int

const (
	Gaussian Kind = iota
	Student
	LogNormal
	Poisson
	NegBinomial
	Geometric
	Binomial
	Bernoulli
	BetaBinomial
	Beta
	Gamma
	Exponential
	Weibull
	Cox
	Categorical
	Multinomial
	Dirichlet
	Cumulative
	SRatio
	CRatio
	Acat
	HurdleCumulative
	MixtureKind
	Custom
)

// kindNames is indexed by Kind; keep in sync with the const block.
var kindNames = [...]string{
	"gaussian", "student", "lognormal", "poisson", "negbinomial", "geometric",
	"binomial", "bernoulli", "beta_binomial", "beta", "gamma", "exponential",
	"weibull", "cox", "categorical", "multinomial", "dirichlet", "cumulative",
	"sratio", "cratio", "acat", "hurdle_cumulative", "mixture", "custom",
}

// String returns the canonical lowercase family name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Caps is the capability record consulted by the validation pipeline.
// Lower/Upper delimit the numeric response domain (±Inf when unbounded);
// ClosedLower/ClosedUpper state whether the bound itself is admissible.
type Caps struct {
	Lower, Upper             float64
	ClosedLower, ClosedUpper bool

	// Discrete demands whole-number responses.
	Discrete bool
	// Trials marks count-bounded families consuming a trials term.
	Trials bool
	// Binary marks two-outcome families (response recoded to {0,1}).
	Binary bool
	// Categorical marks unordered multi-category families (coded 1..K).
	Categorical bool
	// Ordinal marks threshold-based ordered families.
	Ordinal bool
	// MultiColumn demands a matrix response, one column per category.
	MultiColumn bool
	// SimplexRows demands matrix rows summing to one.
	SimplexRows bool
	// ExtraCategory reserves an additional (hurdle) category, shifting the
	// ordinal integer coding down by one.
	ExtraCategory bool
	// Survival marks time-to-event families with a baseline hazard.
	Survival bool
}

var unbounded = Caps{Lower: math.Inf(-1), Upper: math.Inf(1)}

// capsTable maps every non-custom Kind to its capability record.
var capsTable = map[Kind]Caps{
	Gaussian:  unbounded,
	Student:   unbounded,
	LogNormal: {Lower: 0, Upper: math.Inf(1)}, // strictly positive
	Poisson:   {Lower: 0, Upper: math.Inf(1), ClosedLower: true, Discrete: true},
	NegBinomial: {Lower: 0, Upper: math.Inf(1), ClosedLower: true, Discrete: true},
	Geometric:   {Lower: 0, Upper: math.Inf(1), ClosedLower: true, Discrete: true},
	Binomial: {Lower: 0, Upper: math.Inf(1), ClosedLower: true, Discrete: true,
		Trials: true},
	Bernoulli: {Lower: 0, Upper: 1, ClosedLower: true, ClosedUpper: true,
		Discrete: true, Binary: true},
	BetaBinomial: {Lower: 0, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Trials: true},
	Beta:        {Lower: 0, Upper: 1}, // open on both sides
	Gamma:       {Lower: 0, Upper: math.Inf(1)},
	Exponential: {Lower: 0, Upper: math.Inf(1)},
	Weibull:     {Lower: 0, Upper: math.Inf(1)},
	Cox: {Lower: 0, Upper: math.Inf(1), ClosedLower: true, Survival: true},
	Categorical: {Lower: 1, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Categorical: true},
	Multinomial: {Lower: 0, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Trials: true, MultiColumn: true},
	Dirichlet: {Lower: 0, Upper: 1, MultiColumn: true, SimplexRows: true},
	Cumulative: {Lower: 1, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Ordinal: true},
	SRatio: {Lower: 1, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Ordinal: true},
	CRatio: {Lower: 1, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Ordinal: true},
	Acat: {Lower: 1, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Ordinal: true},
	HurdleCumulative: {Lower: 0, Upper: math.Inf(1), ClosedLower: true,
		Discrete: true, Ordinal: true, ExtraCategory: true},
}

// Family tags one response variable's distribution. For MixtureKind, Mixture
// holds the (non-empty) component families; for Custom, CustomCaps holds the
// caller-supplied capability record.
type Family struct {
	Kind       Kind
	Mixture    []Family
	CustomCaps Caps
}

// New returns the Family for a plain (non-mixture, non-custom) kind.
func New(k Kind) Family { return Family{Kind: k} }

// NewMixture returns a finite-mixture family over the given components.
func NewMixture(components ...Family) Family {
	return Family{Kind: MixtureKind, Mixture: components}
}

// NewCustom returns a custom family with an explicit capability record.
func NewCustom(c Caps) Family { return Family{Kind: Custom, CustomCaps: c} }

// Caps resolves the capability record for f. Mixtures intersect their
// components' numeric domains (tightest bounds win; a bound stays closed only
// if every component binding at it is closed) and demand discreteness as soon
// as any component does.
func (f Family) Caps() Caps {
	switch f.Kind {
	case Custom:
		return f.CustomCaps
	case MixtureKind:
		return mixtureCaps(f.Mixture)
	default:
		return capsTable[f.Kind]
	}
}

// mixtureCaps folds component records into the intersection domain.
func mixtureCaps(components []Family) Caps {
	if len(components) == 0 {
		return unbounded
	}
	out := components[0].Caps()
	for _, comp := range components[1:] {
		c := comp.Caps()
		if c.Lower > out.Lower {
			out.Lower, out.ClosedLower = c.Lower, c.ClosedLower
		} else if c.Lower == out.Lower && !c.ClosedLower {
			out.ClosedLower = false
		}
		if c.Upper < out.Upper {
			out.Upper, out.ClosedUpper = c.Upper, c.ClosedUpper
		} else if c.Upper == out.Upper && !c.ClosedUpper {
			out.ClosedUpper = false
		}
		out.Discrete = out.Discrete || c.Discrete
		out.Trials = out.Trials || c.Trials
	}
	// Structural flags never mix: a mixture response is a plain numeric
	// vector even if a component family is itself exotic.
	out.Binary = false
	out.Categorical = false
	out.Ordinal = false
	out.MultiColumn = false
	out.SimplexRows = false
	return out
}

// IsMixture reports whether f is a finite mixture.
func (f Family) IsMixture() bool { return f.Kind == MixtureKind }

// MinCategory is the smallest admissible integer response for ordinal-like
// families: 0 when an extra (hurdle) category is reserved, 1 otherwise.
func (f Family) MinCategory() int {
	if f.Caps().ExtraCategory {
		return 0
	}
	return 1
}

// NeedsNumeric reports whether the family requires a numeric (or numeric
// coercible) response vector; only factor-coded families are exempt.
func (f Family) NeedsNumeric() bool {
	c := f.Caps()
	return !c.Binary && !c.Categorical && !c.Ordinal && !c.MultiColumn
}
