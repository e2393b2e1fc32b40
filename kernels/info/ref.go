package info

import (
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/parser"
	"github.com/gscompat/formulacore/value"
)

// The reference-introspecting functions receive their arguments as
// un-evaluated Ast nodes (spec §4.6's
// does_not_need_arguments_to_be_computed): ISREF inspects the node
// shape itself, INDIRECT builds a reference from runtime text, and
// OFFSET displaces a reference node before resolving it.

func registerRefIntrospection(r *eval.Registry) {
	r.RegisterDefault("ISREF", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) != 1 {
				return value.ErrKind(cellerr.NA)
			}
			switch args[0].(type) {
			case ast.CellReference, ast.RangeReference:
				return value.Bool(true)
			default:
				return value.Bool(false)
			}
		},
	})

	r.RegisterDefault("INDIRECT", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) < 1 || len(args) > 2 {
				return value.ErrKind(cellerr.NA)
			}
			refV := state.Eval.Evaluate(args[0], state)
			refS, ok := value.AsScalar(refV)
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			if refS.IsError() {
				return refS
			}
			if len(args) > 1 {
				// Only A1 notation is supported; an explicit R1C1 request
				// is rejected rather than misread.
				a1V := state.Eval.Evaluate(args[1], state)
				a1S, _ := value.AsScalar(a1V)
				if a1S.Kind() == value.KBool && !a1S.RawBool() {
					return value.ErrKind(cellerr.REF)
				}
			}
			ref, parsed := parser.ParseReference(refS.TextValue())
			if !parsed {
				return value.ErrKind(cellerr.REF)
			}
			return resolveRef(ref, state)
		},
	})

	r.RegisterDefault("OFFSET", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) < 3 || len(args) > 5 {
				return value.ErrKind(cellerr.NA)
			}
			base, ok := refOf(args[0])
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			dRows, rErr := intArg(state, args[1])
			if rErr != nil {
				return *rErr
			}
			dCols, cErr := intArg(state, args[2])
			if cErr != nil {
				return *cErr
			}
			height := base.Row1 - base.Row0 + 1
			width := base.Col1 - base.Col0 + 1
			if len(args) > 3 {
				if height, rErr = intArg(state, args[3]); rErr != nil {
					return *rErr
				}
			}
			if len(args) > 4 {
				if width, cErr = intArg(state, args[4]); cErr != nil {
					return *cErr
				}
			}
			if height < 1 || width < 1 {
				return value.ErrKind(cellerr.REF)
			}
			r0 := base.Row0 + dRows
			c0 := base.Col0 + dCols
			if r0 < 0 || c0 < 0 {
				return value.ErrKind(cellerr.REF)
			}
			out := ast.Ref{
				Kind:  ast.AreaRef,
				Sheet: base.Sheet,
				Col0:  c0, Row0: r0,
				Col1: c0 + width - 1, Row1: r0 + height - 1,
			}
			return resolveRef(out, state)
		},
	})
}

// refOf extracts the Ref from a direct reference node.
func refOf(node ast.Node) (ast.Ref, bool) {
	switch n := node.(type) {
	case ast.CellReference:
		return n.Ref, true
	case ast.RangeReference:
		return n.Ref, true
	default:
		return ast.Ref{}, false
	}
}

// resolveRef evaluates ref through the ordinary reference path, so
// sheet defaulting and out-of-bounds behavior stay identical to a
// lexed reference.
func resolveRef(ref ast.Ref, state *eval.State) value.Value {
	if ref.Kind == ast.CellRef {
		return state.Eval.Evaluate(ast.CellReference{Ref: ref}, state)
	}
	return state.Eval.Evaluate(ast.RangeReference{Ref: ref}, state)
}

// intArg evaluates node to a truncated integer, reporting #VALUE! on
// a non-numeric result and passing an Error argument through.
func intArg(state *eval.State, node ast.Node) (int, *value.Scalar) {
	v := state.Eval.Evaluate(node, state)
	s, ok := value.AsScalar(v)
	if !ok {
		e := value.ErrKind(cellerr.VALUE)
		return 0, &e
	}
	if s.IsError() {
		return 0, &s
	}
	n, numOK := s.NumberValue()
	if !numOK {
		e := value.ErrKind(cellerr.VALUE)
		return 0, &e
	}
	return int(n), nil
}
