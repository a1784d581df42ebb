package pars

import (
	"fmt"
	"sort"

	"github.com/maj-biostat/brms/formula"
)

// Selector is a boolean-or-name-set gate. With Names == nil the Enabled flag
// gates globally; a non-nil Names set keys the gate by identity (grouping
// factor or latent variable name) and ignores Enabled.
type Selector struct {
	Enabled bool
	Names   []string
}

// All retains everything the selector gates.
func All() Selector { return Selector{Enabled: true} }

// None retains nothing.
func None() Selector { return Selector{} }

// Only retains exactly the named identities. Only() (empty set) retains
// nothing, but stays keyed: unlike None it is an explicit empty set.
func Only(names ...string) Selector {
	if names == nil {
		names = []string{}
	}
	return Selector{Names: names}
}

// Keep reports whether the identity name survives the gate.
func (s Selector) Keep(name string) bool {
	if s.Names == nil {
		return s.Enabled
	}
	for _, n := range s.Names {
		if n == name {
			return true
		}
	}
	return false
}

// SavePolicy is the user-declared persistence policy. Constructed once
// before fitting, immutable thereafter, consumed once by Exclude.
type SavePolicy struct {
	// Group gates group-level coefficients (r_ names), keyed by grouping
	// factor name when an explicit set is given.
	Group Selector
	// Latent gates latent-variable draws (Ymi_ names), keyed by variable.
	Latent Selector
	// All retains internal/auxiliary parameters (z_, L_, Lrescor, lprior).
	All bool
	// Manual force-retains exact names regardless of every other rule.
	Manual []string
}

// DefaultSavePolicy keeps group coefficients, drops latent draws and
// internals, and retains nothing manually.
func DefaultSavePolicy() SavePolicy {
	return SavePolicy{Group: All(), Latent: None()}
}

// Exclude computes the sorted set of parameter names to drop before storage:
// the union over the frame tree of internal-only names (unless p.All),
// gate-rejected group coefficients and latent draws, minus the manual
// retain-list. Deterministic: the result depends only on the tree's content,
// never on declaration order.
func Exclude(mf *formula.MultiFrame, p SavePolicy) []string {
	if mf == nil {
		return nil
	}
	set := make(map[string]struct{})
	add := func(name string) { set[name] = struct{}{} }

	if !p.All {
		add("lprior")
		if mf.Rescor && len(mf.Resps) > 1 {
			add("Lrescor")
		}
	}

	for _, fr := range mf.Resps {
		if fr == nil {
			continue
		}
		excludeFrame(fr, p, add)
	}

	for _, name := range p.Manual {
		delete(set, name)
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// excludeFrame folds one response frame: every distributional parameter's
// grouping and latent nodes contribute independently, so sibling order is
// irrelevant.
func excludeFrame(fr *formula.Frame, p SavePolicy, add func(string)) {
	for _, dp := range fr.Dpars {
		for _, g := range dp.Groups {
			if !p.All {
				add(fmt.Sprintf("z_%d", g.ID))
				add(fmt.Sprintf("L_%d", g.ID))
			}
			if !p.Group.Keep(g.Factor) {
				for k := 1; k <= g.Coefs; k++ {
					add(fmt.Sprintf("r_%d_%d", g.ID, k))
				}
			}
		}
		for _, v := range dp.Latents {
			if !p.Latent.Keep(v) {
				add("Ymi_" + v)
			}
		}
	}
}
