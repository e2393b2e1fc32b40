// Package hof implements the higher-order functions LAMBDA, MAP,
// REDUCE, SCAN, BYCOL, BYROW, and FILTER. Every descriptor here sets
// NeedsRawArgs (spec §4.6's does_not_need_arguments_to_be_computed):
// the kernels receive un-evaluated Ast nodes plus the interpreter
// state and call back into the evaluator themselves, binding lambda
// parameters through State.WithBinding as they go.
package hof

import (
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// lambda is a destructured LAMBDA(param..., body) node.
type lambda struct {
	params []string
	body   ast.Node
}

// lambdaOf destructures a direct LAMBDA(...) call node. The Google
// Sheets surface only ever passes lambdas literally at a call site,
// so a non-literal argument (a cell reference, a nested call) is not
// a lambda.
func lambdaOf(node ast.Node) (lambda, bool) {
	proc, isProc := node.(ast.Procedure)
	if !isProc || proc.Name != "LAMBDA" || len(proc.Args) == 0 {
		return lambda{}, false
	}
	body := proc.Args[len(proc.Args)-1]
	params := make([]string, 0, len(proc.Args)-1)
	for _, p := range proc.Args[:len(proc.Args)-1] {
		named, isNamed := p.(ast.NamedExpression)
		if !isNamed {
			return lambda{}, false
		}
		params = append(params, named.Name)
	}
	return lambda{params: params, body: body}, true
}

// apply evaluates the lambda body with params bound to args, one
// binding frame per parameter so inner lambdas shadow outer ones.
func (l lambda) apply(state *eval.State, args ...value.Value) value.Value {
	if len(args) != len(l.params) {
		return value.ErrKind(cellerr.NA)
	}
	s := state
	for i, p := range l.params {
		s = s.WithBinding(p, args[i])
	}
	return state.Eval.Evaluate(l.body, s)
}

// Register installs every higher-order descriptor into r.
func Register(r *eval.Registry) {
	// A LAMBDA evaluated outside a higher-order call site has no
	// arguments to bind; the surface renders that as #ERROR!.
	r.RegisterDefault("LAMBDA", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			return value.ErrKind(cellerr.ERROR)
		},
	})

	registerMap(r)
	registerFolds(r)
	registerByColByRow(r)
	registerFilter(r)
}

func registerMap(r *eval.Registry) {
	r.RegisterDefault("MAP", eval.Descriptor{
		NeedsRawArgs:      true,
		SizeOfResultArray: firstRangeSize,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) < 2 {
				return value.ErrKind(cellerr.NA)
			}
			fn, ok := lambdaOf(args[len(args)-1])
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			inputs := make([]*value.Range, len(args)-1)
			h, w := 1, 1
			for i, argNode := range args[:len(args)-1] {
				v := state.Eval.Evaluate(argNode, state)
				if s, isScalar := value.AsScalar(v); isScalar && s.IsError() {
					return s
				}
				rng := value.ToRange(v)
				inputs[i] = rng
				if rng.Height() > 1 || rng.Width() > 1 {
					if (h > 1 && rng.Height() > 1 && rng.Height() != h) ||
						(w > 1 && rng.Width() > 1 && rng.Width() != w) {
						return value.ErrKind(cellerr.NA)
					}
					if rng.Height() > h {
						h = rng.Height()
					}
					if rng.Width() > w {
						w = rng.Width()
					}
				}
			}
			if len(fn.params) != len(inputs) {
				return value.ErrKind(cellerr.NA)
			}
			rows := make([][]value.Scalar, h)
			for ri := 0; ri < h; ri++ {
				row := make([]value.Scalar, w)
				for ci := 0; ci < w; ci++ {
					cellArgs := make([]value.Value, len(inputs))
					for k, rng := range inputs {
						cellArgs[k] = broadcastAt(rng, ri, ci)
					}
					row[ci] = value.TopLeft(fn.apply(state, cellArgs...))
				}
				rows[ri] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
}

func registerFolds(r *eval.Registry) {
	r.RegisterDefault("REDUCE", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			acc, rng, fn, errV := foldArgs(state, args)
			if errV != nil {
				return *errV
			}
			it := rng.ValuesTopLeftToBottomRight()
			for {
				cur, ok := it()
				if !ok {
					break
				}
				next := fn.apply(state, acc, cur)
				if s, isScalar := value.AsScalar(next); isScalar && s.IsError() {
					return s
				}
				acc = next
			}
			return acc
		},
	})

	r.RegisterDefault("SCAN", eval.Descriptor{
		NeedsRawArgs:      true,
		SizeOfResultArray: secondRangeSize,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			acc, rng, fn, errV := foldArgs(state, args)
			if errV != nil {
				return *errV
			}
			rows := make([][]value.Scalar, rng.Height())
			for ri := 0; ri < rng.Height(); ri++ {
				row := make([]value.Scalar, rng.Width())
				for ci := 0; ci < rng.Width(); ci++ {
					acc = fn.apply(state, acc, rng.At(ri, ci))
					row[ci] = value.TopLeft(acc)
				}
				rows[ri] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
}

// foldArgs destructures REDUCE/SCAN's (initial, range, lambda)
// argument triple.
func foldArgs(state *eval.State, args []ast.Node) (value.Value, *value.Range, lambda, *value.Value) {
	fail := func(k cellerr.Kind) (value.Value, *value.Range, lambda, *value.Value) {
		var e value.Value = value.ErrKind(k)
		return nil, nil, lambda{}, &e
	}
	if len(args) != 3 {
		return fail(cellerr.NA)
	}
	fn, ok := lambdaOf(args[2])
	if !ok || len(fn.params) != 2 {
		return fail(cellerr.VALUE)
	}
	initial := state.Eval.Evaluate(args[0], state)
	if s, isScalar := value.AsScalar(initial); isScalar && s.IsError() {
		var e value.Value = s
		return nil, nil, lambda{}, &e
	}
	rng := value.ToRange(state.Eval.Evaluate(args[1], state))
	return initial, rng, fn, nil
}

func registerByColByRow(r *eval.Registry) {
	r.RegisterDefault("BYCOL", eval.Descriptor{
		NeedsRawArgs:      true,
		SizeOfResultArray: byColSize,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			rng, fn, errV := byArgs(state, args)
			if errV != nil {
				return *errV
			}
			row := make([]value.Scalar, rng.Width())
			for ci := 0; ci < rng.Width(); ci++ {
				col := make([][]value.Scalar, rng.Height())
				for ri := 0; ri < rng.Height(); ri++ {
					col[ri] = []value.Scalar{rng.At(ri, ci)}
				}
				sub, _ := value.NewRange(col)
				row[ci] = value.TopLeft(fn.apply(state, sub))
			}
			out, err := value.NewRange([][]value.Scalar{row})
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("BYROW", eval.Descriptor{
		NeedsRawArgs:      true,
		SizeOfResultArray: byRowSize,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			rng, fn, errV := byArgs(state, args)
			if errV != nil {
				return *errV
			}
			rows := make([][]value.Scalar, rng.Height())
			for ri := 0; ri < rng.Height(); ri++ {
				rowCells := make([]value.Scalar, rng.Width())
				for ci := 0; ci < rng.Width(); ci++ {
					rowCells[ci] = rng.At(ri, ci)
				}
				sub, _ := value.NewRange([][]value.Scalar{rowCells})
				rows[ri] = []value.Scalar{value.TopLeft(fn.apply(state, sub))}
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
}

// byArgs destructures BYCOL/BYROW's (range, lambda) argument pair.
func byArgs(state *eval.State, args []ast.Node) (*value.Range, lambda, *value.Value) {
	fail := func(k cellerr.Kind) (*value.Range, lambda, *value.Value) {
		var e value.Value = value.ErrKind(k)
		return nil, lambda{}, &e
	}
	if len(args) != 2 {
		return fail(cellerr.NA)
	}
	fn, ok := lambdaOf(args[1])
	if !ok || len(fn.params) != 1 {
		return fail(cellerr.VALUE)
	}
	v := state.Eval.Evaluate(args[0], state)
	if s, isScalar := value.AsScalar(v); isScalar && s.IsError() {
		var e value.Value = s
		return nil, lambda{}, &e
	}
	return value.ToRange(v), fn, nil
}

func registerFilter(r *eval.Registry) {
	r.RegisterDefault("FILTER", eval.Descriptor{
		NeedsRawArgs:      true,
		SizeOfResultArray: firstRangeSize,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) < 2 {
				return value.ErrKind(cellerr.NA)
			}
			src := value.ToRange(state.Eval.Evaluate(args[0], state))
			byRows := true
			var keep []bool
			for i, condNode := range args[1:] {
				condV := state.Eval.Evaluate(condNode, state)
				if s, isScalar := value.AsScalar(condV); isScalar && s.IsError() {
					return s
				}
				cond := value.ToRange(condV)
				rowShaped := cond.Width() == 1 && cond.Height() == src.Height()
				colShaped := cond.Height() == 1 && cond.Width() == src.Width()
				if !rowShaped && !colShaped {
					return value.ErrKind(cellerr.VALUE)
				}
				if i == 0 {
					byRows = rowShaped
					n := src.Height()
					if !byRows {
						n = src.Width()
					}
					keep = make([]bool, n)
					for k := range keep {
						keep[k] = true
					}
				} else if (byRows && !rowShaped) || (!byRows && !colShaped) {
					return value.ErrKind(cellerr.VALUE)
				}
				for k := range keep {
					cell := cond.At(k, 0)
					if !byRows {
						cell = cond.At(0, k)
					}
					t, ok := truthy(cell)
					if !ok {
						return value.ErrKind(cellerr.VALUE)
					}
					keep[k] = keep[k] && t
				}
			}
			return filterSelect(src, keep, byRows)
		},
	})
}

// truthy interprets a FILTER condition cell: booleans as-is, numbers
// by non-zero, Empty as false; text does not coerce.
func truthy(s value.Scalar) (bool, bool) {
	switch s.Kind() {
	case value.KBool:
		return s.RawBool(), true
	case value.KNumber:
		n, _ := s.NumberValue()
		return n != 0, true
	case value.KEmpty:
		return false, true
	default:
		return false, false
	}
}

// filterSelect keeps the marked rows (or columns) of src; an empty
// selection is #N/A, the surface's "no matches" signal.
func filterSelect(src *value.Range, keep []bool, byRows bool) value.Value {
	var rows [][]value.Scalar
	if byRows {
		for ri := 0; ri < src.Height(); ri++ {
			if !keep[ri] {
				continue
			}
			row := make([]value.Scalar, src.Width())
			for ci := 0; ci < src.Width(); ci++ {
				row[ci] = src.At(ri, ci)
			}
			rows = append(rows, row)
		}
	} else {
		for ri := 0; ri < src.Height(); ri++ {
			var row []value.Scalar
			for ci := 0; ci < src.Width(); ci++ {
				if keep[ci] {
					row = append(row, src.At(ri, ci))
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
		}
	}
	if len(rows) == 0 {
		return value.ErrKind(cellerr.NA)
	}
	out, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return out
}

// broadcastAt reads rng at (ri, ci) with 1x1 and single-row/column
// broadcasting, the same shape rule the evaluator applies to binary
// operators.
func broadcastAt(rng *value.Range, ri, ci int) value.Scalar {
	r, c := ri, ci
	if rng.Height() == 1 {
		r = 0
	}
	if rng.Width() == 1 {
		c = 0
	}
	return rng.At(r, c)
}

// The size predictors below recover a static extent from a literal
// reference argument; a computed argument can't be sized without
// evaluating it, so 1x1 is the honest floor (the spill engine treats
// the prediction as a ceiling only when one is recoverable).

func staticDims(n ast.Node) (rows, cols int, ok bool) {
	switch t := n.(type) {
	case ast.CellReference:
		return 1, 1, true
	case ast.RangeReference:
		if t.Ref.Kind != ast.AreaRef {
			return 0, 0, false
		}
		return t.Ref.Row1 - t.Ref.Row0 + 1, t.Ref.Col1 - t.Ref.Col0 + 1, true
	case ast.ArrayLiteral:
		if len(t.Rows) == 0 {
			return 0, 0, false
		}
		return len(t.Rows), len(t.Rows[0]), true
	default:
		return 0, 0, false
	}
}

func firstRangeSize(state *eval.State, args []ast.Node) (rows, cols int) {
	if len(args) > 0 {
		if r, c, ok := staticDims(args[0]); ok {
			return r, c
		}
	}
	return 1, 1
}

func secondRangeSize(state *eval.State, args []ast.Node) (rows, cols int) {
	if len(args) > 1 {
		if r, c, ok := staticDims(args[1]); ok {
			return r, c
		}
	}
	return 1, 1
}

func byColSize(state *eval.State, args []ast.Node) (rows, cols int) {
	if len(args) > 0 {
		if _, c, ok := staticDims(args[0]); ok {
			return 1, c
		}
	}
	return 1, 1
}

func byRowSize(state *eval.State, args []ast.Node) (rows, cols int) {
	if len(args) > 0 {
		if r, _, ok := staticDims(args[0]); ok {
			return r, 1
		}
	}
	return 1, 1
}
