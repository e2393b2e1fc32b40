package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func numberAt(t *testing.T, rng *value.Range, row, col int) float64 {
	t.Helper()
	n, ok := rng.At(row, col).NumberValue()
	require.True(t, ok)
	return n
}

func TestCHOOSECOLSSelectsByOneBasedIndex(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("CHOOSECOLS", 0)
	require.True(t, ok)

	m, _ := value.OnlyNumbers([][]float64{{1, 2, 3}, {4, 5, 6}})
	got := desc.Fn(&eval.State{}, []value.Value{m, value.Number(2), value.Number(1)})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 2.0, numberAt(t, rng, 0, 0))
	assert.Equal(t, 1.0, numberAt(t, rng, 0, 1))
}

func TestHSTACKConcatenatesColumnsPaddingShorterHeight(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("HSTACK", 0)
	require.True(t, ok)

	a, _ := value.OnlyNumbers([][]float64{{1}, {2}})
	b, _ := value.OnlyNumbers([][]float64{{9}})
	got := desc.Fn(&eval.State{}, []value.Value{a, b})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 2, rng.Height())
	assert.Equal(t, 2, rng.Width())
}

func TestWRAPROWSGroupsFlatValuesIntoRowsOfK(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("WRAPROWS", 0)
	require.True(t, ok)

	flat, _ := value.OnlyNumbers([][]float64{{1}, {2}, {3}, {4}, {5}})
	got := desc.Fn(&eval.State{}, []value.Value{flat, value.Number(2), value.Empty()})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 3, rng.Height())
	assert.Equal(t, 2, rng.Width())
	assert.True(t, rng.At(2, 1).IsEmpty())
}

func TestTOCOLIgnoresEmptyCellsWhenRequested(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("TOCOL", 0)
	require.True(t, ok)

	rows := [][]value.Scalar{{value.Number(1), value.Empty()}, {value.Number(2), value.Number(3)}}
	rng, err := value.NewRange(rows)
	require.NoError(t, err)
	got := desc.Fn(&eval.State{}, []value.Value{rng, value.Number(1), value.Bool(false)})
	out, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 3, out.Height())
	assert.Equal(t, 1, out.Width())
}

func TestFLATTENConcatenatesMultipleRangesRowMajor(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("FLATTEN", 0)
	require.True(t, ok)

	a, _ := value.OnlyNumbers([][]float64{{1, 2}})
	b, _ := value.OnlyNumbers([][]float64{{3}})
	got := desc.Fn(&eval.State{}, []value.Value{a, b})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 3, rng.Height())
	assert.Equal(t, 1, rng.Width())
	assert.Equal(t, 3.0, numberAt(t, rng, 2, 0))
}
