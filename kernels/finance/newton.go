package finance

import (
	"math"

	"github.com/gscompat/formulacore/cellerr"
)

// newtonFn evaluates a function or its derivative at x, returning an
// error in place of a NaN substitution so solver failures propagate
// instead of silently converging on the initial guess.
type newtonFn func(x float64) (float64, *cellerr.Error)

const (
	newtonMaxIter = 100
	newtonTol     = 1e-10
	newtonDfFloor = 1e-15
)

// newton implements spec §4.12.6's shared solver contract: stop when
// |Δx| < tol or x becomes non-finite; a derivative magnitude below
// newtonDfFloor or a non-converging iteration count yields #NUM!;
// errors returned by f/df propagate unchanged.
func newton(fn, dfn newtonFn, guess float64) (float64, *cellerr.Error) {
	x := guess
	for i := 0; i < newtonMaxIter; i++ {
		fx, ferr := fn(x)
		if ferr != nil {
			return 0, ferr
		}
		dfx, dferr := dfn(x)
		if dferr != nil {
			return 0, dferr
		}
		if math.Abs(dfx) < newtonDfFloor {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		dx := fx / dfx
		x -= dx
		if math.IsNaN(x) || math.IsInf(x, 0) {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		if math.Abs(dx) < newtonTol {
			return x, nil
		}
	}
	e := cellerr.Newf(cellerr.NUM, cellerr.ConvergenceFailure)
	return 0, &e
}
