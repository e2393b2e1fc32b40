// Package array implements the array/matrix reshaping and regression
// kernels of spec §4.10: SORT, UNIQUE, FLATTEN, CHOOSECOLS/ROWS,
// HSTACK/VSTACK, WRAPCOLS/ROWS, TOCOL/TOROW, SEQUENCE, FREQUENCY,
// MDETERM/MINVERSE/MUNIT, and the GROWTH/TREND/LINEST/LOGEST
// regression family.
package array

import (
	"sort"
	"strconv"

	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func asRange(v value.Value) *value.Range { return value.ToRange(v) }

func rangeArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgRange} }

func f(v float64) *float64 { return &v }

// Register installs every array/matrix/regression descriptor.
func Register(r *eval.Registry) {
	registerSortUnique(r)
	registerReshape(r)
	registerSequenceFrequency(r)
	registerMatrix(r)
	registerRegression(r)
}

func registerSortUnique(r *eval.Registry) {
	r.RegisterDefault("SORT", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg()},
		RepeatLastArgs: 2,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			rng := asRange(args[0])
			type key struct {
				col int
				asc bool
			}
			var keys []key
			for i := 1; i+1 < len(args); i += 2 {
				col, _ := value.AsScalar(args[i])
				ascS, _ := value.AsScalar(args[i+1])
				cf, _ := col.NumberValue()
				af, _ := ascS.NumberValue()
				keys = append(keys, key{col: int(cf), asc: af != 0})
			}
			if len(keys) == 0 {
				keys = []key{{col: 1, asc: true}}
			}
			rows := make([][]value.Scalar, rng.Height())
			for i := 0; i < rng.Height(); i++ {
				row := make([]value.Scalar, rng.Width())
				for j := 0; j < rng.Width(); j++ {
					row[j] = rng.At(i, j)
				}
				rows[i] = row
			}
			var col arith.Collator
			if state.Locale != nil {
				col = state.Locale
			}
			sort.SliceStable(rows, func(a, b int) bool {
				for _, k := range keys {
					ci := k.col - 1
					if ci < 0 || ci >= rng.Width() {
						continue
					}
					c := arith.Compare(rows[a][ci], rows[b][ci], col)
					if c == 0 {
						continue
					}
					if k.asc {
						return c < 0
					}
					return c > 0
				}
				return false
			})
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("UNIQUE", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			rng := asRange(args[0])
			seen := map[string]bool{}
			var rows [][]value.Scalar
			for i := 0; i < rng.Height(); i++ {
				row := make([]value.Scalar, rng.Width())
				var k string
				for j := 0; j < rng.Width(); j++ {
					row[j] = rng.At(i, j)
					k += rowKey(row[j])
				}
				if !seen[k] {
					seen[k] = true
					rows = append(rows, row)
				}
			}
			if len(rows) == 0 {
				return value.ErrKind(cellerr.VALUE)
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
}

func rowKey(s value.Scalar) string {
	switch s.Kind() {
	case value.KNumber:
		f, _ := s.NumberValue()
		return "n:" + fmtFloat(f)
	case value.KText:
		return "t:" + s.TextValue()
	case value.KBool:
		if s.RawBool() {
			return "b:1"
		}
		return "b:0"
	case value.KEmpty:
		return "e:"
	default:
		e, _ := s.Error()
		return "x:" + e.Kind.String()
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
