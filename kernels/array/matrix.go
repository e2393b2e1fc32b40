package array

import (
	"math"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

const pivotEps = 1e-12

func toSquareMatrix(rng *value.Range) ([][]float64, bool) {
	n := rng.Height()
	if n != rng.Width() {
		return nil, false
	}
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			f, ok := rng.At(i, j).NumberValue()
			if !ok {
				return nil, false
			}
			row[j] = f
		}
		m[i] = row
	}
	return m, true
}

func registerMatrix(r *eval.Registry) {
	r.RegisterDefault("MUNIT", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgInteger, GreaterThan: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			n := intOf(args[0])
			rows := make([][]value.Scalar, n)
			for i := 0; i < n; i++ {
				row := make([]value.Scalar, n)
				for j := 0; j < n; j++ {
					if i == j {
						row[j] = value.Number(1)
					} else {
						row[j] = value.Number(0)
					}
				}
				rows[i] = row
			}
			out, _ := value.NewRange(rows)
			return out
		},
	})

	r.RegisterDefault("MDETERM", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			m, ok := toSquareMatrix(asRange(args[0]))
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			det, singular := gaussJordanDeterminant(m)
			if singular {
				return value.Number(0)
			}
			return value.Number(det)
		},
	})

	r.RegisterDefault("MINVERSE", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			m, ok := toSquareMatrix(asRange(args[0]))
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			inv, ok := gaussJordanInverse(m)
			if !ok {
				return value.ErrKind(cellerr.NUM)
			}
			rows := make([][]value.Scalar, len(inv))
			for i, row := range inv {
				sRow := make([]value.Scalar, len(row))
				for j, f := range row {
					sRow[j] = value.Number(f)
				}
				rows[i] = sRow
			}
			out, _ := value.NewRange(rows)
			return out
		},
	})
}

// gaussJordanDeterminant reduces a copy of m to upper-triangular form
// with partial pivoting and returns the product of the pivots (with
// sign flips for row swaps).
func gaussJordanDeterminant(m [][]float64) (det float64, singular bool) {
	n := len(m)
	a := cloneMatrix(m)
	det = 1
	for col := 0; col < n; col++ {
		piv := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[piv][col]) {
				piv = row
			}
		}
		if math.Abs(a[piv][col]) < pivotEps {
			return 0, true
		}
		if piv != col {
			a[piv], a[col] = a[col], a[piv]
			det = -det
		}
		det *= a[col][col]
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}
	return det, false
}

// gaussJordanInverse computes m^-1 via Gauss-Jordan elimination with
// partial pivoting on the augmented [m | I] matrix.
func gaussJordanInverse(m [][]float64) ([][]float64, bool) {
	n := len(m)
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, 2*n)
		copy(a[i], m[i])
		a[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		piv := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[piv][col]) {
				piv = row
			}
		}
		if math.Abs(a[piv][col]) < pivotEps {
			return nil, false
		}
		a[piv], a[col] = a[col], a[piv]
		pivot := a[col][col]
		for k := 0; k < 2*n; k++ {
			a[col][k] /= pivot
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := a[row][col]
			for k := 0; k < 2*n; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}
	inv := make([][]float64, n)
	for i := 0; i < n; i++ {
		inv[i] = a[i][n:]
	}
	return inv, true
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
