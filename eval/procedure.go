package eval

import (
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// evalProcedure resolves and invokes a Procedure node (spec §4.7
// items 4-6): descriptor lookup, argument arity resolution against
// RepeatLastArgs, per-ArgSpec coercion, shape-driven vectorization for
// scalar-typed parameters fed a multi-cell Range, and first-error-wins
// short-circuiting for every function except the handful that must
// see an Error argument to do their job.
func (e *Evaluator) evalProcedure(n ast.Procedure, state *State) value.Value {
	desc, ok := state.Registry.Lookup(n.Name, state.Config.CompatibilityMode)
	if !ok {
		return value.ErrKind(cellerr.NAME)
	}
	if desc.NeedsRawArgs {
		if desc.RawFn == nil {
			return value.ErrKind(cellerr.ERROR)
		}
		return desc.RawFn(state, n.Args)
	}
	if desc.Fn == nil {
		return value.ErrKind(cellerr.ERROR)
	}

	nArgs := len(n.Args)
	nParams := len(desc.Params)
	total := nArgs
	if nParams > total {
		total = nParams
	}

	values := make([]value.Value, 0, total)
	specs := make([]ArgSpec, 0, total)
	for i := 0; i < total; i++ {
		spec, specOK := paramFor(desc, i)
		if !specOK {
			break
		}
		var v value.Value
		if i < nArgs {
			v = e.Evaluate(n.Args[i], state)
		} else if spec.Optional {
			if spec.Default != nil {
				v = spec.Default
			} else {
				v = value.Empty()
			}
		} else {
			return value.ErrKind(cellerr.NA)
		}
		values = append(values, v)
		specs = append(specs, spec)
	}
	total = len(values)

	if !errorInspecting[n.Name] {
		for _, v := range values {
			if s, isScalar := value.AsScalar(v); isScalar && s.IsError() {
				return s
			}
		}
	}

	finalArgs := make([]value.Value, total)
	var vecIdx []int
	vh, vw := 1, 1
	for i, spec := range specs {
		if spec.Type == ArgRange {
			finalArgs[i] = value.ToRange(values[i])
			continue
		}
		h, w := dims(values[i])
		if (h > 1 || w > 1) && !desc.VectorizationForbidden {
			nh, nw, shapeOK := broadcastShape(vh, vw, h, w)
			if !shapeOK {
				return errorGrid(cellerr.VALUE, maxInt(vh, h), maxInt(vw, w))
			}
			vh, vw = nh, nw
			vecIdx = append(vecIdx, i)
			finalArgs[i] = values[i]
		} else {
			finalArgs[i] = value.TopLeft(values[i])
		}
	}

	inspecting := errorInspecting[n.Name]
	if len(vecIdx) == 0 {
		for i, spec := range specs {
			if spec.Type == ArgRange {
				continue
			}
			s, isScalar := value.AsScalar(finalArgs[i])
			if !isScalar {
				return value.ErrKind(cellerr.VALUE)
			}
			cs := coerceScalar(spec, s)
			if cs.IsError() && !inspecting {
				return cs
			}
			finalArgs[i] = cs
		}
		return desc.Fn(state, finalArgs)
	}

	rows := make([][]value.Scalar, vh)
	for r := 0; r < vh; r++ {
		row := make([]value.Scalar, vw)
	cellLoop:
		for c := 0; c < vw; c++ {
			cellArgs := make([]value.Value, total)
			copy(cellArgs, finalArgs)
			for _, idx := range vecIdx {
				h, w := dims(values[idx])
				s := cellAt(values[idx], r, c, h, w)
				cs := coerceScalar(specs[idx], s)
				if cs.IsError() && !inspecting {
					row[c] = cs
					continue cellLoop
				}
				cellArgs[idx] = cs
			}
			for i, spec := range specs {
				if spec.Type == ArgRange || containsInt(vecIdx, i) {
					continue
				}
				s, isScalar := value.AsScalar(cellArgs[i])
				if !isScalar {
					row[c] = value.ErrKind(cellerr.VALUE)
					continue cellLoop
				}
				cs := coerceScalar(spec, s)
				if cs.IsError() && !inspecting {
					row[c] = cs
					continue cellLoop
				}
				cellArgs[i] = cs
			}
			row[c] = value.TopLeft(desc.Fn(state, cellArgs))
		}
		rows[r] = row
	}
	out, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return out
}
