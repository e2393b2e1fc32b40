package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func TestSUMWalksEveryRangeArgument(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "SUM", config.Default)

	a := rangeOf([]float64{1, 2}, []float64{3, 4})
	got := desc.Fn(&eval.State{}, []value.Value{a, value.Number(10)})
	assert.Equal(t, 20.0, numberScalar(t, got))
}

func TestSUMSkipsTextAndEmptyCells(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "SUM", config.Default)

	mixed, err := value.NewRange([][]value.Scalar{
		{value.Number(1), value.Text("x")},
		{value.Empty(), value.Number(2)},
	})
	require.NoError(t, err)
	got := desc.Fn(&eval.State{}, []value.Value{mixed})
	assert.Equal(t, 3.0, numberScalar(t, got))
}

func TestAVERAGEOverEmptyInputReturnsDivByZero(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "AVERAGE", config.Default)

	blank := value.FromScalar(value.Empty())
	got := desc.Fn(&eval.State{}, []value.Value{blank})
	s, _ := value.AsScalar(got)
	errv, isErr := s.Error()
	require.True(t, isErr)
	assert.Equal(t, "#DIV/0!", errv.Kind.String())
}

func TestCOUNTVersusCOUNTA(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)

	mixed, err := value.NewRange([][]value.Scalar{
		{value.Number(1), value.Text("x"), value.Empty()},
	})
	require.NoError(t, err)

	count := lookup(t, r, "COUNT", config.Default)
	assert.Equal(t, 1.0, numberScalar(t, count.Fn(&eval.State{}, []value.Value{mixed})))

	counta := lookup(t, r, "COUNTA", config.Default)
	assert.Equal(t, 2.0, numberScalar(t, counta.Fn(&eval.State{}, []value.Value{mixed})))
}

func TestMINAndMAXAcrossArguments(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)

	a := rangeOf([]float64{3, 7}, []float64{-2, 5})
	min := lookup(t, r, "MIN", config.Default)
	max := lookup(t, r, "MAX", config.Default)
	assert.Equal(t, -2.0, numberScalar(t, min.Fn(&eval.State{}, []value.Value{a, value.Number(1)})))
	assert.Equal(t, 7.0, numberScalar(t, max.Fn(&eval.State{}, []value.Value{a, value.Number(1)})))
}
