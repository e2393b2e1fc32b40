package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func TestFREQUENCYCountsMatchTotalPopulation(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("FREQUENCY", config.Default)
	require.True(t, ok)

	data, err := value.OnlyNumbers([][]float64{{1}, {5}, {10}, {15}, {20}})
	require.NoError(t, err)
	bins, err := value.OnlyNumbers([][]float64{{5}, {15}})
	require.NoError(t, err)

	got := desc.Fn(&eval.State{}, []value.Value{data, bins})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)

	var total float64
	for i := 0; i < rng.Height(); i++ {
		n, _ := rng.At(i, 0).NumberValue()
		total += n
	}
	assert.Equal(t, float64(5), total)
	assert.Equal(t, 3, rng.Height()) // len(bins)+1 buckets
}
