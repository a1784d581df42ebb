// Package family defines the closed taxonomy of response distribution
// families and the per-family capability table the data-preparation pipeline
// consults.
//
// The source of truth is a fixed table keyed by Kind: numeric domain bounds
// (each side independently open or closed), discreteness, whether the family
// consumes a trials count, and the structural flags (binary, categorical,
// ordinal, multi-column, simplex-rows, reserved extra category, survival).
// Validation stages never switch on Kind directly; they ask the capability
// accessors, so adding a family is a one-line table entry.
//
// A finite mixture is itself a Family whose Mixture field lists the component
// families; its numeric domain is the intersection of the components' domains
// (a response must be admissible under every component).
package family
