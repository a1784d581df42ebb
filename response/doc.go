// Package response turns one (or several) raw response variables plus their
// addition terms into the validated numeric bundle a probabilistic inference
// backend consumes.
//
// The Assembler runs a fixed sequence of independent stages, each triggered
// by the family's capability record or by addition-term presence:
//
//	 1. extract & recode the response (binary/categorical/ordinal coding)
//	 2. domain checks (fitting mode only; prediction mode skips them)
//	 3. trials
//	 4. categories
//	 5. thresholds (global or grouped)
//	 6. standard errors / weights / decisions / rate denominators
//	 7. censoring (incl. interval second bound)
//	 8. truncation
//	 9. missingness / measurement error
//	10. vreal/vint custom vectors
//	11. finalize: apply the response suffix to every field name
//
// Stages never backtrack: each either augments the bundle or fails the whole
// assembly. There are no partial bundles. Advisory and deprecation notices
// travel on a separate return value and never alter control flow.
//
// Field names follow the backend convention: N, Y, trials, ncat, nthres,
// ngrthres, Jgrthres, se, weights, dec, denom, cens, rcens, lb, ub, Jmi, Nmi,
// Jme, Nme, noise, lbmi, ubmi, vrealK, vintK — each suffixed with the
// response name in multivariate models.
//
// The mixture-concentration and Cox baseline-hazard blocks are separate
// enrichment passes over an assembled bundle (AppendMixture, AppendCoxBaseline).
package response
