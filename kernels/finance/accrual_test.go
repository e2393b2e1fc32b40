package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// Scenario S3 at the full-function level: the US 30/360 cross-date
// rollover fix must flow through ACCRINTM's simple accrued-interest
// formula, not just the bare yearFraction helper.
func TestACCRINTMUsesFixedUS3030YearFraction(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	issue := eval.SimpleDate{Year: 2010, Month: 1, Day: 1}
	settlement := eval.SimpleDate{Year: 2012, Month: 12, Day: 31}
	rate, par := 0.08, 100.0

	desc, ok := r.Lookup("ACCRINTM", 0)
	require.True(t, ok)
	got := numberScalar(t, desc.Fn(state, []value.Value{
		value.Number(serial(state, issue)),
		value.Number(serial(state, settlement)),
		value.Number(rate),
		value.Number(par),
		value.Number(0),
	}))
	assert.InDelta(t, 24.0, got, 1e-9) // 100 * 0.08 * 3.0
}

func TestACCRINTMSettlementBeforeIssueReturnsNUM(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	issue := eval.SimpleDate{Year: 2012, Month: 1, Day: 1}
	settlement := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}

	desc, ok := r.Lookup("ACCRINTM", 0)
	require.True(t, ok)
	got := desc.Fn(state, []value.Value{
		value.Number(serial(state, issue)),
		value.Number(serial(state, settlement)),
		value.Number(0.05),
		value.Number(100),
		value.Number(0),
	})
	s, _ := value.AsScalar(got)
	errv, isErr := s.Error()
	require.True(t, isErr)
	assert.Equal(t, "#NUM!", errv.Kind.String())
}

func TestACCRINTActualCalcMethodMatchesSimpleAccrual(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	issue := eval.SimpleDate{Year: 2010, Month: 1, Day: 1}
	firstInterest := eval.SimpleDate{Year: 2010, Month: 8, Day: 1}
	settlement := eval.SimpleDate{Year: 2012, Month: 12, Day: 31}
	rate, par := 0.08, 100.0

	desc, ok := r.Lookup("ACCRINT", 0)
	require.True(t, ok)
	got := numberScalar(t, desc.Fn(state, []value.Value{
		value.Number(serial(state, issue)),
		value.Number(serial(state, firstInterest)),
		value.Number(serial(state, settlement)),
		value.Number(rate),
		value.Number(par),
		value.Number(2),
		value.Number(0),
		value.Bool(true),
	}))
	assert.InDelta(t, 24.0, got, 1e-9)
}

func TestAMORLINCFirstPeriodProratesByYearFraction(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	purchased := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}
	firstPeriod := eval.SimpleDate{Year: 2011, Month: 4, Day: 1}
	cost, salvage, rate := 1000.0, 100.0, 0.1

	desc, ok := r.Lookup("AMORLINC", 0)
	require.True(t, ok)
	got := numberScalar(t, desc.Fn(state, []value.Value{
		value.Number(cost),
		value.Number(serial(state, purchased)),
		value.Number(serial(state, firstPeriod)),
		value.Number(salvage),
		value.Number(0),
		value.Number(rate),
		value.Number(0),
	}))
	want := cost * rate * (90.0 / 360.0)
	assert.InDelta(t, want, got, 1e-9)
}

func TestAMORLINCSalvageExceedsCostReturnsNUM(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	purchased := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}
	firstPeriod := eval.SimpleDate{Year: 2011, Month: 4, Day: 1}

	desc, ok := r.Lookup("AMORLINC", 0)
	require.True(t, ok)
	got := desc.Fn(state, []value.Value{
		value.Number(100),
		value.Number(serial(state, purchased)),
		value.Number(serial(state, firstPeriod)),
		value.Number(200),
		value.Number(0),
		value.Number(0.1),
		value.Number(0),
	})
	s, _ := value.AsScalar(got)
	_, isErr := s.Error()
	assert.True(t, isErr)
}
