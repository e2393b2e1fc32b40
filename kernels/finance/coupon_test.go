package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// Testable property: COUPDAYBS + COUPDAYSNC reproduces COUPDAYS
// exactly, since both split the same coupon period at settlement.
func TestCouponDayCountsSplitThePeriodExactly(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	settlement := eval.SimpleDate{Year: 2011, Month: 3, Day: 15}
	maturity := eval.SimpleDate{Year: 2015, Month: 1, Day: 1}
	args := []value.Value{
		value.Number(serial(state, settlement)),
		value.Number(serial(state, maturity)),
		value.Number(2),
		value.Number(0),
	}

	days, ok := r.Lookup("COUPDAYS", 0)
	require.True(t, ok)
	bs, ok := r.Lookup("COUPDAYBS", 0)
	require.True(t, ok)
	nc, ok := r.Lookup("COUPDAYSNC", 0)
	require.True(t, ok)

	total := numberScalar(t, days.Fn(state, args))
	before := numberScalar(t, bs.Fn(state, args))
	after := numberScalar(t, nc.Fn(state, args))

	assert.InDelta(t, total, before+after, 1e-9)
}

func TestCOUPNCDIsStrictlyAfterCOUPPCD(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	settlement := eval.SimpleDate{Year: 2011, Month: 3, Day: 15}
	maturity := eval.SimpleDate{Year: 2015, Month: 1, Day: 1}
	args := []value.Value{
		value.Number(serial(state, settlement)),
		value.Number(serial(state, maturity)),
		value.Number(2),
		value.Number(0),
	}

	pcd, ok := r.Lookup("COUPPCD", 0)
	require.True(t, ok)
	ncd, ok := r.Lookup("COUPNCD", 0)
	require.True(t, ok)

	pcdSerial := numberScalar(t, pcd.Fn(state, args))
	ncdSerial := numberScalar(t, ncd.Fn(state, args))
	assert.Less(t, pcdSerial, ncdSerial)
}

func numberScalar(t *testing.T, v value.Value) float64 {
	t.Helper()
	s, ok := value.AsScalar(v)
	require.True(t, ok)
	n, ok := s.NumberValue()
	require.True(t, ok)
	return n
}
