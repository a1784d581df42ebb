package core

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Column is one named data vector of a Table. Implementations are plain
// slices (or thin structs over slices) so callers can range over them
// directly after a type switch.
type Column interface {
	// Len reports the number of observations in the column.
	Len() int
}

// Numeric is a float64 column. NaN encodes a missing value.
type Numeric []float64

// Len reports the number of observations.
func (c Numeric) Len() int { return len(c) }

// Integer is an int column. It has no missing representation.
type Integer []int

// Len reports the number of observations.
func (c Integer) Len() int { return len(c) }

// Strings is a string column.
type Strings []string

// Len reports the number of observations.
func (c Strings) Len() int { return len(c) }

// Logical is a bool column.
type Logical []bool

// Len reports the number of observations.
func (c Logical) Len() int { return len(c) }

// Factor is a categorical column: Codes are 1-based indices into Levels,
// code 0 encodes a missing value. Ordered marks an ordinal level ordering.
type Factor struct {
	Levels  []string
	Codes   []int
	Ordered bool
}

// Len reports the number of observations.
func (c Factor) Len() int { return len(c.Codes) }

// Validate checks that every code lies in 0..len(Levels).
func (c Factor) Validate() error {
	k := len(c.Levels)
	for i, code := range c.Codes {
		if code < 0 || code > k {
			return fmt.Errorf("factor code %d at row %d: %w", code, i, ErrBadFactor)
		}
	}
	return nil
}

// Label returns the level label for row i, or "" when the value is missing.
func (c Factor) Label(i int) string {
	code := c.Codes[i]
	if code == 0 {
		return ""
	}
	return c.Levels[code-1]
}

// Matrix is a multi-column numeric response (one row per observation), as
// required by multinomial or simplex families. Names label the columns.
type Matrix struct {
	Names []string
	Data  *mat.Dense
}

// Len reports the number of observations (matrix rows).
func (c Matrix) Len() int {
	if c.Data == nil {
		return 0
	}
	r, _ := c.Data.Dims()
	return r
}

// Cols reports the number of matrix columns.
func (c Matrix) Cols() int {
	if c.Data == nil {
		return 0
	}
	_, k := c.Data.Dims()
	return k
}

// Table is an ordered set of named, equal-length columns. The zero Table is
// empty; use NewTable and AddColumn to populate it.
type Table struct {
	n     int
	names []string
	cols  map[string]Column
}

// NewTable creates an empty table expecting n rows per column. n must be
// non-negative; a table constructed with n == 0 adopts the length of its
// first column.
func NewTable(n int) *Table {
	return &Table{n: n, cols: make(map[string]Column)}
}

// N reports the table's row count.
func (t *Table) N() int { return t.n }

// Names returns the column names in insertion order. The returned slice is
// shared; callers must not mutate it.
func (t *Table) Names() []string { return t.names }

// AddColumn registers c under name. Columns of length 1 are accepted as
// broadcastable scalars; any other length must equal the table's row count.
func (t *Table) AddColumn(name string, c Column) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("column %q: %w", name, ErrColumnExists)
	}
	if t.n == 0 {
		t.n = c.Len()
	}
	if c.Len() != 1 && c.Len() != t.n {
		return fmt.Errorf("column %q has length %d, want 1 or %d: %w", name, c.Len(), t.n, ErrLengthMismatch)
	}
	t.cols[name] = c
	t.names = append(t.names, name)
	return nil
}

// Column returns the column registered under name.
func (t *Table) Column(name string) (Column, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
	}
	return c, nil
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}
