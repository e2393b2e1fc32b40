package criterion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/value"
)

func TestComputeAverageIfsStyleFold(t *testing.T) {
	val, err := value.OnlyNumbers([][]float64{{1}, {2}, {3}, {4}})
	require.NoError(t, err)
	criteria, err := value.OnlyNumbers([][]float64{{1}, {1}, {0}, {1}})
	require.NoError(t, err)

	pred := Compile(value.Number(1), nil)
	result, cErr := Compute(val, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{criteria}, []Predicate{pred})
	require.Nil(t, cErr)
	assert.Equal(t, 7.0, result.Sum)   // 1 + 2 + 4
	assert.Equal(t, 3, result.Count)
}

func TestComputeMismatchedLengthsReturnsError(t *testing.T) {
	val, _ := value.OnlyNumbers([][]float64{{1}, {2}})
	criteria, _ := value.OnlyNumbers([][]float64{{1}})
	pred := Compile(value.Number(1), nil)
	_, err := Compute(val, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{criteria}, []Predicate{pred})
	assert.NotNil(t, err)
}

func TestCacheComputesOnceForRepeatedKey(t *testing.T) {
	c := NewCache()
	calls := 0
	compute := func() any {
		calls++
		return 42
	}
	got1 := c.Get("key", compute)
	got2 := c.Get("key", compute)
	assert.Equal(t, 42, got1)
	assert.Equal(t, 42, got2)
	assert.Equal(t, 1, calls)
}

func TestComputeCachedReusesResultForIdenticalTuples(t *testing.T) {
	val, err := value.OnlyNumbers([][]float64{{1}, {2}, {3}, {4}})
	require.NoError(t, err)
	criteria, err := value.OnlyNumbers([][]float64{{1}, {1}, {0}, {1}})
	require.NoError(t, err)
	rawCriteria := []value.Scalar{value.Number(1)}
	pred := Compile(value.Number(1), nil)

	cache := NewCache()
	result1, cErr1 := ComputeCached(cache, val, rawCriteria, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{criteria}, []Predicate{pred})
	require.Nil(t, cErr1)
	result2, cErr2 := ComputeCached(cache, val, rawCriteria, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{criteria}, []Predicate{pred})
	require.Nil(t, cErr2)
	assert.Equal(t, result1, result2)
	assert.Equal(t, 7.0, result2.Sum)
	assert.Equal(t, 3, result2.Count)

	otherCriteria, err := value.OnlyNumbers([][]float64{{0}, {1}, {1}, {1}})
	require.NoError(t, err)
	result3, cErr3 := ComputeCached(cache, val, rawCriteria, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{otherCriteria}, []Predicate{pred})
	require.Nil(t, cErr3)
	assert.NotEqual(t, result2.Sum, result3.Sum)
}

func TestComputeCachedWithNilCacheFallsBackToCompute(t *testing.T) {
	val, err := value.OnlyNumbers([][]float64{{1}, {2}})
	require.NoError(t, err)
	criteria, err := value.OnlyNumbers([][]float64{{1}, {1}})
	require.NoError(t, err)
	pred := Compile(value.Number(1), nil)
	result, cErr := ComputeCached(nil, val, []value.Scalar{value.Number(1)}, AverageResult{}, CombineAverage, ProjectNumeric, []*value.Range{criteria}, []Predicate{pred})
	require.Nil(t, cErr)
	assert.Equal(t, 3.0, result.Sum)
}
