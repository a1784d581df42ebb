// Stage 10 of the assembler: vreal/vint custom vector arguments.

package response

import (
	"fmt"
	"math"

	"github.com/maj-biostat/brms/core"
)

// customVectorsStage evaluates the declared vreal/vint expressions,
// broadcasts scalars and names the results sequentially (vreal1, vreal2, …
// and vint1, vint2, …). vint values must be whole numbers.
func (a *assembler) customVectorsStage() error {
	for k, term := range a.fr.Add.Vreal {
		xs, err := term.EvalFloats(a.tab)
		if err != nil {
			return err
		}
		if xs, err = core.Broadcast(xs, a.n); err != nil {
			return err
		}
		a.b.SetVec(fmt.Sprintf("vreal%d", k+1), append([]float64(nil), xs...))
	}

	for k, term := range a.fr.Add.Vint {
		xs, err := term.EvalFloats(a.tab)
		if err != nil {
			return err
		}
		if xs, err = core.Broadcast(xs, a.n); err != nil {
			return err
		}
		out := make([]int, a.n)
		for i, x := range xs {
			if !core.IsWhole(x) {
				return fmt.Errorf("vint%d value %g at row %d: %w", k+1, x, i, ErrNotWhole)
			}
			out[i] = int(math.Round(x))
		}
		a.b.SetIntVec(fmt.Sprintf("vint%d", k+1), out)
	}
	return nil
}
