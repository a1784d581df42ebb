package response

// Mode selects what the bundle is being prepared for. It replaces any notion
// of ambient "internal" state: the mode is passed explicitly down the
// pipeline.
//
//   - ModeFitting    — data for model fitting: full domain validation runs,
//     advisories are emitted, and missing values are sentinel-substituted in
//     the output path (the backend cannot represent undefined values).
//   - ModePrediction — data for predicting new responses: domain checks on
//     the response are skipped (the response may be unobserved), advisories
//     are suppressed, and no sentinel substitution happens.
type Mode int

const (
	ModeFitting Mode = iota
	ModePrediction
)

// Options configures one assembly run.
type Options struct {
	Mode Mode

	// NormalizeWeights rescales observation weights to sum to N.
	NormalizeWeights bool
}

// DefaultOptions returns fitting-mode options without weight normalization.
func DefaultOptions() Options { return Options{Mode: ModeFitting} }

// NoticeKind distinguishes the two informational side channels.
type NoticeKind int

const (
	// Advisory flags data structure that suggests a simpler family
	// (e.g. max trials of 1). Never fatal.
	Advisory NoticeKind = iota
	// Deprecation flags legacy addition-term spellings. Never fatal.
	Deprecation
)

// Notice is one informational diagnostic. Notices never alter control flow
// or the bundle's shape.
type Notice struct {
	Kind    NoticeKind
	Message string
}
