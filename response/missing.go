// Stage 9 of the assembler: missingness and measurement error.

package response

import (
	"fmt"
	"math"

	"github.com/maj-biostat/brms/core"
)

// missingStage handles the mi() addition term in its two sub-modes.
//
// Missing-only (no noise term): record the 1-based indices of missing
// responses (Jmi/Nmi).
//
// Measurement error (noise term present): rows with a missing response or
// infinite noise are treated as fully missing and excluded from the
// measurement-error index set Jme; truncation bounds are retained (lbmi/ubmi)
// so the missing entries can later be predicted inside the family domain.
//
// In fitting mode the output path finally substitutes +Inf for every
// undefined entry (missing responses, noise at missing rows): the backend
// cannot represent undefined values. The substitution happens after all
// validation, is lossy by design and is understood only by the downstream
// inference layer; prediction-mode bundles keep their NaNs.
func (a *assembler) missingStage() error {
	if !a.fr.Add.Mi {
		return nil
	}
	if a.y == nil {
		return fmt.Errorf("mi() requires a numeric response: %w", ErrNonNumericResponse)
	}

	if a.fr.Add.Noise == nil {
		var jmi []int
		for i, y := range a.y {
			if math.IsNaN(y) {
				jmi = append(jmi, i+1)
			}
		}
		a.b.SetIntVec("Jmi", jmi)
		a.b.SetInt("Nmi", len(jmi))
		a.substituteMissing(nil)
		return nil
	}

	noise, err := a.fr.Add.Noise.EvalFloats(a.tab)
	if err != nil {
		return err
	}
	if noise, err = core.Broadcast(noise, a.n); err != nil {
		return err
	}
	noise = append([]float64(nil), noise...)

	var jme []int
	for i, y := range a.y {
		if math.IsNaN(y) || math.IsInf(noise[i], 0) {
			continue // fully missing: handled as a latent value downstream
		}
		jme = append(jme, i+1)
	}
	a.b.SetIntVec("Jme", jme)
	a.b.SetInt("Nme", len(jme))
	a.b.SetVec("noise", noise)

	lb, ub, err := a.truncationBounds()
	if err != nil {
		return err
	}
	a.b.SetVec("lbmi", lb)
	a.b.SetVec("ubmi", ub)

	a.substituteMissing(noise)
	return nil
}

// substituteMissing applies the fitting-mode-only sentinel encoding: +Inf in
// place of every undefined response entry, and in the corresponding noise
// entries. It mutates the slices already registered in the bundle, so the
// exported fields observe the substitution. The sentinel carries no
// information: validation has already finished by the time it is written.
func (a *assembler) substituteMissing(noise []float64) {
	if a.opts.Mode != ModeFitting {
		return
	}
	for i, y := range a.y {
		if !math.IsNaN(y) {
			continue
		}
		a.y[i] = math.Inf(1)
		if noise != nil {
			noise[i] = math.Inf(1)
		}
	}
	if noise != nil {
		// NaN noise at observed rows is equally unrepresentable.
		for i, sd := range noise {
			if math.IsNaN(sd) {
				noise[i] = math.Inf(1)
			}
		}
	}
}
