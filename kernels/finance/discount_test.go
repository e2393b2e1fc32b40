package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// Testable property: PRICEDISC and DISC are inverses of one another
// for the same settlement/maturity/redemption triple.
func TestPRICEDISCAndDISCRoundTrip(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	settlement := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}
	maturity := eval.SimpleDate{Year: 2011, Month: 7, Day: 1}
	discount, redemption := 0.05, 100.0

	priceDesc, ok := r.Lookup("PRICEDISC", 0)
	require.True(t, ok)
	price := numberScalar(t, priceDesc.Fn(state, []value.Value{
		value.Number(serial(state, settlement)),
		value.Number(serial(state, maturity)),
		value.Number(discount),
		value.Number(redemption),
		value.Number(0),
	}))

	discDesc, ok := r.Lookup("DISC", 0)
	require.True(t, ok)
	gotDiscount := numberScalar(t, discDesc.Fn(state, []value.Value{
		value.Number(serial(state, settlement)),
		value.Number(serial(state, maturity)),
		value.Number(price),
		value.Number(redemption),
		value.Number(0),
	}))

	assert.InDelta(t, discount, gotDiscount, 1e-9)
}

func TestINTRATESimpleInterestRecovery(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	settlement := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}
	maturity := eval.SimpleDate{Year: 2012, Month: 1, Day: 1}
	desc, ok := r.Lookup("INTRATE", 0)
	require.True(t, ok)
	got := numberScalar(t, desc.Fn(state, []value.Value{
		value.Number(serial(state, settlement)),
		value.Number(serial(state, maturity)),
		value.Number(1000),
		value.Number(1050),
		value.Number(0),
	}))
	assert.InDelta(t, 0.05, got, 1e-9)
}

func TestDISCZeroYearFractionReturnsDivByZero(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	state := testState()

	sameDay := eval.SimpleDate{Year: 2011, Month: 1, Day: 1}
	desc, ok := r.Lookup("DISC", 0)
	require.True(t, ok)
	got := desc.Fn(state, []value.Value{
		value.Number(serial(state, sameDay)),
		value.Number(serial(state, sameDay)),
		value.Number(95),
		value.Number(100),
		value.Number(0),
	})
	s, _ := value.AsScalar(got)
	_, isErr := s.Error()
	assert.True(t, isErr)
}
