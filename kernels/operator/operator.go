// Package operator implements the ADD/MINUS/.../ISBETWEEN operator
// functions of spec §4.14: thin descriptor wrappers around arith and
// value, registered under their function-call spellings for callers
// that prefer =ADD(a,b) to =a+b.
package operator

import (
	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func numArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgNumber} }
func anyArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgScalar} }

func num(args []value.Value, i int) float64 {
	s, _ := value.AsScalar(args[i])
	f, _ := s.NumberValue()
	return f
}

// Register installs every operator-function descriptor. ISBETWEEN has
// no Excel counterpart, so it lands on the google-sheets overlay
// layer (spec §4.6/C6) rather than the default layer the arithmetic
// and comparison operators use.
func Register(r *eval.Registry) {
	binary := func(fn func(a, b float64) value.Value) eval.KernelFunc {
		return func(state *eval.State, args []value.Value) value.Value {
			return fn(num(args, 0), num(args, 1))
		}
	}

	r.RegisterDefault("ADD", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), numArg()},
		Fn:     binary(func(a, b float64) value.Value { return value.Number(arith.AddEps(a, b)) }),
	})
	r.RegisterDefault("MINUS", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), numArg()},
		Fn:     binary(func(a, b float64) value.Value { return value.Number(arith.Subtract(a, b)) }),
	})
	r.RegisterDefault("MULTIPLY", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), numArg()},
		Fn:     binary(func(a, b float64) value.Value { return value.Number(arith.Multiply(a, b)) }),
	})
	r.RegisterDefault("DIVIDE", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), numArg()},
		Fn: binary(func(a, b float64) value.Value {
			f, err := arith.Divide(a, b)
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(f)
		}),
	})
	r.RegisterDefault("POW", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), numArg()},
		Fn:     binary(func(a, b float64) value.Value { return value.Number(arith.Pow(a, b)) }),
	})
	r.RegisterDefault("UMINUS", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber, PassSubtype: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.NumberTagged(arith.UnaryMinus(f), s.Subtype())
		},
	})
	r.RegisterDefault("UPLUS", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber, PassSubtype: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.NumberTagged(arith.UnaryPlus(f), s.Subtype())
		},
	})
	r.RegisterDefault("UNARY_PERCENT", eval.Descriptor{
		Params: []eval.ArgSpec{numArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			return value.NumberTagged(arith.UnaryPercent(num(args, 0)), value.Percent)
		},
	})

	cmp := func(fn func(int) bool) eval.KernelFunc {
		return func(state *eval.State, args []value.Value) value.Value {
			a, _ := value.AsScalar(args[0])
			b, _ := value.AsScalar(args[1])
			var col arith.Collator
			if state.Locale != nil {
				col = state.Locale
			}
			return value.Bool(fn(arith.Compare(a, b, col)))
		}
	}
	r.RegisterDefault("EQ", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg(), anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			a, _ := value.AsScalar(args[0])
			b, _ := value.AsScalar(args[1])
			var col arith.Collator
			if state.Locale != nil {
				col = state.Locale
			}
			return value.Bool(arith.Equal(a, b, col))
		},
	})
	r.RegisterDefault("NE", eval.Descriptor{
		Params: []eval.ArgSpec{anyArg(), anyArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			a, _ := value.AsScalar(args[0])
			b, _ := value.AsScalar(args[1])
			var col arith.Collator
			if state.Locale != nil {
				col = state.Locale
			}
			return value.Bool(!arith.Equal(a, b, col))
		},
	})
	r.RegisterDefault("GT", eval.Descriptor{Params: []eval.ArgSpec{anyArg(), anyArg()}, Fn: cmp(func(c int) bool { return c > 0 })})
	r.RegisterDefault("LT", eval.Descriptor{Params: []eval.ArgSpec{anyArg(), anyArg()}, Fn: cmp(func(c int) bool { return c < 0 })})
	r.RegisterDefault("GTE", eval.Descriptor{Params: []eval.ArgSpec{anyArg(), anyArg()}, Fn: cmp(func(c int) bool { return c >= 0 })})
	r.RegisterDefault("LTE", eval.Descriptor{Params: []eval.ArgSpec{anyArg(), anyArg()}, Fn: cmp(func(c int) bool { return c <= 0 })})

	r.RegisterDefault("CONCAT", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgString}, {Type: eval.ArgString}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			a, _ := value.AsScalar(args[0])
			b, _ := value.AsScalar(args[1])
			return value.Text(a.TextValue() + b.TextValue())
		},
	})

	r.RegisterGoogleSheets("ISBETWEEN", eval.Descriptor{
		Params: []eval.ArgSpec{
			numArg(), numArg(), numArg(),
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			val, lo, hi := num(args, 0), num(args, 1), num(args, 2)
			loInc, _ := value.AsScalar(args[3])
			hiInc, _ := value.AsScalar(args[4])
			if arith.FloatCmp(lo, hi) > 0 {
				return value.ErrKind(cellerr.NUM)
			}
			okLo := arith.FloatCmp(val, lo) > 0 || (loInc.RawBool() && arith.FloatCmp(val, lo) == 0)
			okHi := arith.FloatCmp(val, hi) < 0 || (hiInc.RawBool() && arith.FloatCmp(val, hi) == 0)
			return value.Bool(okLo && okHi)
		},
	})
}
