package response

import (
	"github.com/maj-biostat/brms/core"
	"github.com/maj-biostat/brms/formula"
)

// AssembleMulti fans Assemble out over every response frame in order and
// merges the suffixed bundles. The first failing response fails the whole
// request — no partial multivariate bundles. With residual correlations the
// merged bundle additionally records nresp and nrescor.
//
// Each response is independently derivable from the shared table: no child
// assembly observes another's intermediate state, so the ordering matters
// only for field layout.
func AssembleMulti(mf *formula.MultiFrame, tab *core.Table, opts Options) (*Bundle, []Notice, error) {
	if mf == nil || len(mf.Resps) == 0 {
		return nil, nil, formula.ErrNilFrame
	}

	merged := NewBundle()
	var notes []Notice
	for _, fr := range mf.Resps {
		b, childNotes, err := Assemble(fr, tab, opts)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, childNotes...)
		if err := merged.Merge(b); err != nil {
			return nil, nil, err
		}
	}

	if mf.Rescor && len(mf.Resps) > 1 {
		nresp := len(mf.Resps)
		merged.SetInt("nresp", nresp)
		merged.SetInt("nrescor", nresp*(nresp-1)/2)
	}
	return merged, notes, nil
}
