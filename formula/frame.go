package formula

import "github.com/maj-biostat/brms/family"

// Addition holds the declared addition-term expressions for one response.
// A nil (or empty) slot means the term was not declared. Internal
// consistency of family vs. declared terms is the formula layer's problem;
// this module validates only the data against a consistent frame.
type Addition struct {
	Trials  *Term
	Weights *Term
	SE      *Term

	// Censoring: Cens carries the per-row code expression, Y2 the upper
	// bound used on interval-censored rows.
	Cens *Term
	Y2   *Term

	// Truncation bounds.
	Lower *Term
	Upper *Term

	// Decision flag (wiener-style two-bound decisions) and rate denominator.
	Dec   *Term
	Denom *Term

	// Missingness / measurement error. Mi marks the response as mi();
	// Noise, when present, switches to measurement-error mode and carries
	// the known per-observation standard deviation.
	Mi    bool
	Noise *Term

	// Ordinal threshold count; ThresGroup names the grouping column when
	// thresholds vary by group. Cat is the deprecated alias of Thres.
	Thres      *Term
	ThresGroup string
	Cat        *Term

	// Raw vector arguments forwarded to custom families, named vreal1.. and
	// vint1.. in declaration order.
	Vreal []*Term
	Vint  []*Term
}

// ThresTerm resolves the effective threshold expression, preferring Thres
// and falling back to the deprecated Cat alias. The second result reports
// whether the legacy alias was used.
func (a Addition) ThresTerm() (*Term, bool) {
	if a.Thres != nil {
		return a.Thres, false
	}
	if a.Cat != nil {
		return a.Cat, true
	}
	return nil, false
}

// Group is one grouping-effect node under a distributional parameter: a
// grouping factor with an engine-side numeric ID and a per-level coefficient
// count. Parameter names derived from it follow the z_<ID> / r_<ID>_<k>
// scheme.
type Group struct {
	Factor string
	ID     int
	Coefs  int
}

// Dpar is one distributional parameter's sub-model: its grouping-effect
// nodes and the latent (measurement-error) variables it references.
type Dpar struct {
	Name    string
	Groups  []Group
	Latents []string
}

// Frame describes one response variable's modeling context. It is built and
// validated by the external formula layer; this module treats it as read-only
// and validates only the data against it.
type Frame struct {
	Family   family.Family
	Resp     *Term
	RespName string

	// Suffix disambiguates bundle field names in multivariate models
	// ("" for univariate). Conventionally "_<RespName>".
	Suffix string

	Add Addition

	// Dpars is the parameter taxonomy consumed by the exclusion resolver.
	Dpars []Dpar
}

// MultiFrame is the multivariate root: an ordered list of response frames
// plus the residual-correlation flag.
type MultiFrame struct {
	Resps  []*Frame
	Rescor bool
}

// Field applies the frame's disambiguation suffix to a bundle field name.
func (f *Frame) Field(name string) string { return name + f.Suffix }
