// Package brms compiles high-level multilevel regression model descriptions
// into the exact numeric data structures a probabilistic-programming backend
// consumes, and resolves which sampled quantities are worth keeping.
//
// What lives here:
//
//	core/       — column-oriented Table, typed columns, numeric predicates
//	family/     — response-family taxonomy and per-family capability table
//	formula/    — addition-term expressions, model Frame / MultiFrame tree
//	thresholds/ — ordinal threshold & category metadata extraction
//	response/   — the response-data assembler: validation, recoding,
//	              censoring/truncation/measurement-error handling,
//	              mixture and Cox baseline-hazard blocks
//	pars/       — save-policy driven parameter-exclusion resolver
//
// The module is a pure validation/derivation layer: single-threaded,
// side-effect free, fail-fast. Formula parsing of model formulas, code
// generation, sampling and posterior post-processing are explicitly out of
// scope and live in surrounding layers.
//
// Typical flow:
//
//	tab  := core.NewTable(...)          // user data, one column per variable
//	fr   := &formula.Frame{...}         // built by the (external) formula layer
//	b, notes, err := response.Assemble(fr, tab, response.DefaultOptions())
//	// b is the name→array bundle handed to the inference backend.
//
//	drop := pars.Exclude(mf, pars.DefaultSavePolicy())
//	// drop is the sorted set of parameter names the storage layer discards.
package brms
