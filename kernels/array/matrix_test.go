package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// MINVERSE(m) * m should reproduce MUNIT(n) within floating-point
// tolerance -- the defining property of a matrix inverse.
func TestMINVERSEInverseLaw(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	inv, ok := r.Lookup("MINVERSE", config.Default)
	require.True(t, ok)

	m, err := value.OnlyNumbers([][]float64{{4, 7}, {2, 6}})
	require.NoError(t, err)

	got := inv.Fn(&eval.State{}, []value.Value{m})
	invRange, isRange := got.(*value.Range)
	require.True(t, isRange)

	product := multiply(m, invRange)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			got, _ := product.At(i, j).NumberValue()
			assert.InDelta(t, want, got, 1e-9)
		}
	}
}

func multiply(a, b *value.Range) *value.Range {
	n := a.Height()
	rows := make([][]value.Scalar, n)
	for i := 0; i < n; i++ {
		row := make([]value.Scalar, n)
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < n; k++ {
				av, _ := a.At(i, k).NumberValue()
				bv, _ := b.At(k, j).NumberValue()
				sum += av * bv
			}
			row[j] = value.Number(sum)
		}
		rows[i] = row
	}
	out, _ := value.NewRange(rows)
	return out
}

func TestMDETERMSingularMatrixReturnsZero(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("MDETERM", config.Default)
	require.True(t, ok)
	m, err := value.OnlyNumbers([][]float64{{1, 2}, {2, 4}})
	require.NoError(t, err)
	got := desc.Fn(&eval.State{}, []value.Value{m})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(0), n)
}
