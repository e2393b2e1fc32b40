package info

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// The error-inspecting predicates (spec §4.2): each must receive an
// Error argument intact rather than have it short-circuit the call,
// which the evaluator arranges by name.

func anyArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgAny} }

func registerPredicates(r *eval.Registry) {
	r.RegisterDefault("ISERROR", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Bool(s.IsError())
		},
	})

	// ISERR is ISERROR minus #N/A.
	r.RegisterDefault("ISERR", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			e, isErr := s.Error()
			return value.Bool(isErr && e.Kind != cellerr.NA)
		},
	})

	r.RegisterDefault("ISNA", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			e, isErr := s.Error()
			return value.Bool(isErr && e.Kind == cellerr.NA)
		},
	})

	r.RegisterDefault("IFERROR", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg(), {Type: eval.ArgAny, Optional: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, isScalar := value.AsScalar(args[0])
			if isScalar && s.IsError() {
				if len(args) > 1 {
					return args[1]
				}
				return value.Empty()
			}
			return args[0]
		},
	})

	r.RegisterDefault("IFNA", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg(), {Type: eval.ArgAny, Optional: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, isScalar := value.AsScalar(args[0])
			if isScalar {
				if e, isErr := s.Error(); isErr && e.Kind == cellerr.NA {
					if len(args) > 1 {
						return args[1]
					}
					return value.Empty()
				}
			}
			return args[0]
		},
	})

	// ISBLANK distinguishes Empty from Text("") (spec §4.1).
	r.RegisterDefault("ISBLANK", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Bool(s.IsEmpty())
		},
	})
}
