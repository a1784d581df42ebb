package response

import (
	"fmt"

	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
)

// Assemble produces the validated data bundle for one response variable.
// The returned notices are informational only; on error no bundle is
// returned (stages never leave partial results behind).
func Assemble(fr *formula.Frame, tab *core.Table, opts Options) (*Bundle, []Notice, error) {
	if fr == nil {
		return nil, nil, formula.ErrNilFrame
	}
	if tab == nil || tab.N() == 0 {
		return nil, nil, core.ErrEmptyTable
	}

	a := &assembler{fr: fr, tab: tab, opts: opts, n: tab.N(), b: NewBundle()}

	// Fixed stage order; each stage is independently triggered by the
	// family's capabilities or addition-term presence and fails fatally.
	stages := []struct {
		name string
		run  func() error
	}{
		{"response", a.extractResponse},
		{"validate", a.domainChecks},
		{"trials", a.trialsStage},
		{"categories", a.categoriesStage},
		{"thresholds", a.thresholdsStage},
		{"scale terms", a.scaleTermsStage},
		{"censoring", a.censoringStage},
		{"truncation", a.truncationStage},
		{"missing", a.missingStage},
		{"vectors", a.customVectorsStage},
	}
	for _, st := range stages {
		if err := st.run(); err != nil {
			return nil, nil, fmt.Errorf("%s %q: %w", st.name, fr.RespName, err)
		}
	}

	a.b.applySuffix(fr.Suffix)
	return a.b, a.notes, nil
}

// assembler threads the pipeline state between stages. y is the numeric view
// of the response (NaN = missing); yInt the integer coding for binary,
// categorical and ordinal families; ymat the matrix response for
// multi-column families. Exactly one of the three is populated.
type assembler struct {
	fr   *formula.Frame
	tab  *core.Table
	opts Options
	n    int

	b     *Bundle
	notes []Notice

	y      []float64
	yInt   []int
	ymat   core.Matrix
	trials []int
}

// validating reports whether response-dependent domain checks run.
func (a *assembler) validating() bool { return a.opts.Mode == ModeFitting }

// advise appends an advisory notice (fitting mode only — prediction and
// other internal contexts stay quiet).
func (a *assembler) advise(format string, args ...any) {
	if a.opts.Mode != ModeFitting {
		return
	}
	a.notes = append(a.notes, Notice{Kind: Advisory, Message: fmt.Sprintf(format, args...)})
}

// deprecate appends a deprecation notice unconditionally.
func (a *assembler) deprecate(msg string) {
	a.notes = append(a.notes, Notice{Kind: Deprecation, Message: msg})
}
