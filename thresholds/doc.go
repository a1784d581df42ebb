// Package thresholds derives ordinal threshold counts and response-category
// labels from raw data.
//
// The central value is Table: one Row per (threshold index, group label)
// combination, ordered group-by-group with indices running contiguously 1..K
// inside each group. The empty group label "" denotes an ungrouped ordinal
// model, which always yields a single-group table.
//
// When the frame declares no explicit threshold-count term, the count is
// inferred from the response itself: factor responses contribute
// levels−1 thresholds (one fewer again when the family reserves an extra
// hurdle category), numeric responses contribute max(response)−1, computed
// per group when a grouping column is declared.
package thresholds
