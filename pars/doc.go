// Package pars computes which sampled parameter names the storage layer
// should drop, from a declarative SavePolicy applied to the frame tree.
//
// Naming scheme walked by the resolver (per response, per distributional
// parameter):
//
//	z_<g>        — standardized group-level effects for grouping node <g>
//	L_<g>        — Cholesky factor of the group correlation matrix
//	r_<g>_<k>    — actual group-level coefficients, k = 1..Coefs
//	Ymi_<v>      — latent values of a measurement-error/missing variable <v>
//	Lrescor      — Cholesky factor of the residual correlation matrix
//	lprior       — accumulated log prior density
//
// z_, L_, Lrescor and lprior are internal-only: they are always excluded
// unless the policy's All flag retains everything. r_ names are gated by the
// Group selector (globally, or per grouping-factor name when an explicit set
// is given), Ymi_ names by the Latent selector. Manual names are retained
// last and unconditionally.
//
// The resolver is a pure fold over the frame tree: sibling results are
// unioned, the output is sorted and deduplicated, and structurally identical
// frames always produce identical sets regardless of declaration order.
package pars
