package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// Testable property #3: ADD(ADD(0.1,0.2),-0.3) collapses to exactly 0
// under the epsilon rule instead of leaking IEEE-754 noise.
func TestAddEpsCollapsesNearZeroNoise(t *testing.T) {
	sum := AddEps(AddEps(0.1, 0.2), -0.3)
	assert.Equal(t, float64(0), sum)
}

func TestSubtractUsesSameEpsilonRule(t *testing.T) {
	assert.Equal(t, float64(0), Subtract(0.3, 0.3))
}

func TestDivideByZero(t *testing.T) {
	_, err := Divide(1, 0)
	if assert.NotNil(t, err) {
		assert.Equal(t, cellerr.DIV_BY_ZERO, err.Kind)
	}
	f, err := Divide(10, 2)
	assert.Nil(t, err)
	assert.Equal(t, float64(5), f)
}

func TestFloatCmpEpsilonTolerance(t *testing.T) {
	assert.Equal(t, 0, FloatCmp(1.0, 1.0+1e-15))
	assert.Equal(t, -1, FloatCmp(1.0, 2.0))
	assert.Equal(t, 1, FloatCmp(2.0, 1.0))
}

// Testable property #4: cross-type ordering is Number < Text < Bool <
// Error < Empty, regardless of the scalars' own values.
func TestCompareCrossTypeOrdering(t *testing.T) {
	n := value.Number(1000)
	s := value.Text("a")
	b := value.Bool(false)
	e := value.ErrKind(cellerr.DIV_BY_ZERO)
	empty := value.Empty()

	assert.Equal(t, -1, Compare(n, s, nil))
	assert.Equal(t, -1, Compare(s, b, nil))
	assert.Equal(t, -1, Compare(b, e, nil))
	assert.Equal(t, -1, Compare(e, empty, nil))
}

func TestEqualNumberVsTextNeverEqual(t *testing.T) {
	assert.False(t, Equal(value.Number(1), value.Text("1"), nil))
}

func TestToNumberCoercesPercentText(t *testing.T) {
	f, ok := ToNumber(value.Text("50%"))
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)
}

