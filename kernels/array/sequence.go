package array

import (
	"sort"

	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// literalInt reads a literal Number node's integer value, or returns
// def when the argument is absent or not a literal — used by
// SizeOfResultArray predictors, which only ever see the raw Ast and
// so cannot evaluate cell references or nested calls.
func literalInt(args []ast.Node, idx, def int) int {
	if idx >= len(args) {
		return def
	}
	if n, ok := args[idx].(ast.Number); ok {
		return int(n.Value)
	}
	return def
}

func registerSequenceFrequency(r *eval.Registry) {
	r.RegisterDefault("SEQUENCE", eval.Descriptor{
		Params: []eval.ArgSpec{
			{Type: eval.ArgInteger, GreaterThan: f(0)},
			{Type: eval.ArgInteger, Optional: true, Default: value.Number(1), GreaterThan: f(0)},
			{Type: eval.ArgNumber, Optional: true, Default: value.Number(1)},
			{Type: eval.ArgNumber, Optional: true, Default: value.Number(1)},
		},
		SizeOfResultArray: func(state *eval.State, args []ast.Node) (rows, cols int) {
			return literalInt(args, 0, 1), literalInt(args, 1, 1)
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			rowsN := intOf(args[0])
			colsN := intOf(args[1])
			start := floatOf(args[2])
			step := floatOf(args[3])
			rows := make([][]value.Scalar, rowsN)
			v := start
			for i := 0; i < rowsN; i++ {
				row := make([]value.Scalar, colsN)
				for j := 0; j < colsN; j++ {
					row[j] = value.Number(v)
					v = arith.AddEps(v, step)
				}
				rows[i] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("FREQUENCY", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			bins := numericValues(asRange(args[1]))
			sorted := append([]float64(nil), bins...)
			sort.Float64s(sorted)
			counts := make([]int, len(sorted)+1)
			for _, d := range data {
				placed := false
				for i, b := range sorted {
					if arith.FloatCmp(d, b) <= 0 {
						counts[i]++
						placed = true
						break
					}
				}
				if !placed {
					counts[len(sorted)]++
				}
			}
			rows := make([][]value.Scalar, len(counts))
			for i, c := range counts {
				rows[i] = []value.Scalar{value.Number(float64(c))}
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
}

func intOf(v value.Value) int {
	s, _ := value.AsScalar(v)
	f, _ := s.NumberValue()
	return int(f)
}

func floatOf(v value.Value) float64 {
	s, _ := value.AsScalar(v)
	f, _ := s.NumberValue()
	return f
}

// numericValues gathers the true Number cells of rng in row-major
// order; blanks and booleans are not data points in a range context.
func numericValues(rng *value.Range) []float64 {
	var out []float64
	it := rng.ValuesTopLeftToBottomRight()
	for {
		s, ok := it()
		if !ok {
			break
		}
		if s.IsNumber() {
			f, _ := s.NumberValue()
			out = append(out, f)
		}
	}
	return out
}
