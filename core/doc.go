// Package core provides the column-oriented data model shared by every other
// package in the module, plus the small numeric predicates the validation
// pipelines are built from.
//
// A Table is an ordered collection of named, equal-length columns. Columns are
// typed (Numeric, Integer, Strings, Logical, Factor, Matrix) and treated as
// immutable once added; every downstream stage reads them and derives fresh
// slices instead of mutating in place.
//
// Missing values: a Numeric entry is missing when it is NaN; a Factor code is
// missing when it is 0 (codes are 1-based into Levels). Other column kinds
// have no missing representation and must be complete.
//
// All predicates are pure, deterministic and allocation-free unless the
// result itself is a new slice.
package core
