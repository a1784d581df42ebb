package response

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Bundle is the name→array mapping handed to the inference backend. Field
// order is insertion order and is preserved across suffixing and merging, so
// repeated assemblies of the same frame produce byte-identical layouts.
//
// Allowed field kinds: int, []int, []float64, [][2]int and *mat.Dense.
type Bundle struct {
	order  []string
	fields map[string]any
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{fields: make(map[string]any)}
}

// Names returns the field names in insertion order.
func (b *Bundle) Names() []string { return b.order }

// Has reports whether a field exists.
func (b *Bundle) Has(name string) bool {
	_, ok := b.fields[name]
	return ok
}

// set registers v under name, keeping first-insertion order on overwrite.
func (b *Bundle) set(name string, v any) {
	if _, ok := b.fields[name]; !ok {
		b.order = append(b.order, name)
	}
	b.fields[name] = v
}

// SetInt stores a scalar integer field (e.g. N, ncat).
func (b *Bundle) SetInt(name string, v int) { b.set(name, v) }

// SetIntVec stores an integer array field (e.g. trials, cens).
func (b *Bundle) SetIntVec(name string, v []int) { b.set(name, v) }

// SetVec stores a float array field (e.g. Y, se, weights).
func (b *Bundle) SetVec(name string, v []float64) { b.set(name, v) }

// SetPairs stores an N×2 index-range field (e.g. Jgrthres).
func (b *Bundle) SetPairs(name string, v [][2]int) { b.set(name, v) }

// SetMatrix stores a dense matrix field (e.g. Y for multinomial, Zbhaz).
func (b *Bundle) SetMatrix(name string, v *mat.Dense) { b.set(name, v) }

// Int retrieves a scalar integer field.
func (b *Bundle) Int(name string) (int, error) {
	v, err := b.lookup(name)
	if err != nil {
		return 0, err
	}
	x, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("field %q is %T: %w", name, v, ErrFieldType)
	}
	return x, nil
}

// IntVec retrieves an integer array field.
func (b *Bundle) IntVec(name string) ([]int, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	x, ok := v.([]int)
	if !ok {
		return nil, fmt.Errorf("field %q is %T: %w", name, v, ErrFieldType)
	}
	return x, nil
}

// Vec retrieves a float array field.
func (b *Bundle) Vec(name string) ([]float64, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	x, ok := v.([]float64)
	if !ok {
		return nil, fmt.Errorf("field %q is %T: %w", name, v, ErrFieldType)
	}
	return x, nil
}

// Pairs retrieves an index-range field.
func (b *Bundle) Pairs(name string) ([][2]int, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	x, ok := v.([][2]int)
	if !ok {
		return nil, fmt.Errorf("field %q is %T: %w", name, v, ErrFieldType)
	}
	return x, nil
}

// Matrix retrieves a dense matrix field.
func (b *Bundle) Matrix(name string) (*mat.Dense, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	x, ok := v.(*mat.Dense)
	if !ok {
		return nil, fmt.Errorf("field %q is %T: %w", name, v, ErrFieldType)
	}
	return x, nil
}

func (b *Bundle) lookup(name string) (any, error) {
	v, ok := b.fields[name]
	if !ok {
		return nil, fmt.Errorf("response: bundle field %q not present", name)
	}
	return v, nil
}

// applySuffix renames every field to name+suffix, preserving order. A bundle
// is suffixed exactly once, at finalize time.
func (b *Bundle) applySuffix(suffix string) {
	if suffix == "" {
		return
	}
	renamed := make(map[string]any, len(b.fields))
	for i, name := range b.order {
		renamed[name+suffix] = b.fields[name]
		b.order[i] = name + suffix
	}
	b.fields = renamed
}

// Merge appends every field of other into b, failing on name collisions.
// Used by the multivariate aggregator after per-response suffixing.
func (b *Bundle) Merge(other *Bundle) error {
	for _, name := range other.order {
		if _, ok := b.fields[name]; ok {
			return fmt.Errorf("field %q: %w", name, ErrDuplicateField)
		}
		b.set(name, other.fields[name])
	}
	return nil
}
