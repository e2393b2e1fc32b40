package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func TestLINESTRecoversExactSlopeAndIntercept(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("LINEST", 0)
	require.True(t, ok)

	knownY, _ := value.OnlyNumbers([][]float64{{2}, {4}, {6}})
	knownX, _ := value.OnlyNumbers([][]float64{{1}, {2}, {3}})
	got := desc.Fn(&eval.State{}, []value.Value{knownY, knownX, value.Bool(true), value.Bool(false)})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	m, _ := rng.At(0, 0).NumberValue()
	b, _ := rng.At(0, 1).NumberValue()
	assert.InDelta(t, 2.0, m, 1e-9)
	assert.InDelta(t, 0.0, b, 1e-9)
}

func TestTRENDPredictsAlongTheFittedLine(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("TREND", 0)
	require.True(t, ok)

	knownY, _ := value.OnlyNumbers([][]float64{{2}, {4}, {6}})
	knownX, _ := value.OnlyNumbers([][]float64{{1}, {2}, {3}})
	newX, _ := value.OnlyNumbers([][]float64{{4}})
	got := desc.Fn(&eval.State{}, []value.Value{knownY, knownX, newX, value.Bool(true)})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	pred, _ := rng.At(0, 0).NumberValue()
	assert.InDelta(t, 8.0, pred, 1e-9)
}

func TestGROWTHFitsExponentialAndExpsBack(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("GROWTH", 0)
	require.True(t, ok)

	knownY, _ := value.OnlyNumbers([][]float64{{1}, {2}, {4}, {8}})
	knownX, _ := value.OnlyNumbers([][]float64{{1}, {2}, {3}, {4}})
	newX, _ := value.OnlyNumbers([][]float64{{5}})
	got := desc.Fn(&eval.State{}, []value.Value{knownY, knownX, newX, value.Bool(true)})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	pred, _ := rng.At(0, 0).NumberValue()
	assert.InDelta(t, 16.0, pred, 1e-6)
}

func TestLOGESTTooFewPointsReturnsValueError(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("LOGEST", 0)
	require.True(t, ok)

	knownY, _ := value.OnlyNumbers([][]float64{{5}})
	got := desc.Fn(&eval.State{}, []value.Value{knownY, knownY, value.Bool(true), value.Bool(false)})
	s, _ := value.AsScalar(got)
	_, isErr := s.Error()
	assert.True(t, isErr)
}
