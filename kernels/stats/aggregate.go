package stats

import (
	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// The plain aggregates the *IF family generalizes. Each takes a
// repeating tail of ranges (a bare scalar argument arrives promoted
// to 1x1) and walks every cell row-major, folding numerically where
// the cell coerces.

// foldRanges walks every cell of every range argument in order,
// calling visit on each.
func foldRanges(args []value.Value, visit func(value.Scalar)) {
	for _, a := range args {
		it := value.ToRange(a).ValuesTopLeftToBottomRight()
		for {
			s, ok := it()
			if !ok {
				break
			}
			visit(s)
		}
	}
}

func variadicRange() eval.Descriptor {
	return eval.Descriptor{
		Params:         []eval.ArgSpec{{Type: eval.ArgRange}},
		RepeatLastArgs: 1,
		ExpandRanges:   true,
	}
}

func registerAggregates(r *eval.Registry) {
	sum := variadicRange()
	sum.Fn = func(state *eval.State, args []value.Value) value.Value {
		var total float64
		foldRanges(args, func(s value.Scalar) {
			if s.IsNumber() {
				total = arith.AddEps(total, mustNum(s))
			}
		})
		return value.Number(total)
	}
	r.RegisterDefault("SUM", sum)

	avg := variadicRange()
	avg.Fn = func(state *eval.State, args []value.Value) value.Value {
		var total float64
		var n int
		foldRanges(args, func(s value.Scalar) {
			if s.IsNumber() {
				total += mustNum(s)
				n++
			}
		})
		if n == 0 {
			return value.ErrKind(cellerr.DIV_BY_ZERO)
		}
		return value.Number(total / float64(n))
	}
	r.RegisterDefault("AVERAGE", avg)

	count := variadicRange()
	count.Fn = func(state *eval.State, args []value.Value) value.Value {
		var n int
		foldRanges(args, func(s value.Scalar) {
			if s.IsNumber() {
				n++
			}
		})
		return value.Number(float64(n))
	}
	r.RegisterDefault("COUNT", count)

	counta := variadicRange()
	counta.Fn = func(state *eval.State, args []value.Value) value.Value {
		var n int
		foldRanges(args, func(s value.Scalar) {
			if !s.IsEmpty() {
				n++
			}
		})
		return value.Number(float64(n))
	}
	r.RegisterDefault("COUNTA", counta)

	min := variadicRange()
	min.Fn = func(state *eval.State, args []value.Value) value.Value {
		best, seen := 0.0, false
		foldRanges(args, func(s value.Scalar) {
			if s.IsNumber() {
				if n := mustNum(s); !seen || n < best {
					best, seen = n, true
				}
			}
		})
		return value.Number(best)
	}
	r.RegisterDefault("MIN", min)

	max := variadicRange()
	max.Fn = func(state *eval.State, args []value.Value) value.Value {
		best, seen := 0.0, false
		foldRanges(args, func(s value.Scalar) {
			if s.IsNumber() {
				if n := mustNum(s); !seen || n > best {
					best, seen = n, true
				}
			}
		})
		return value.Number(best)
	}
	r.RegisterDefault("MAX", max)
}

func mustNum(s value.Scalar) float64 {
	n, _ := s.NumberValue()
	return n
}
