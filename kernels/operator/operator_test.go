package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/locale"
	"github.com/gscompat/formulacore/value"
)

func TestAddEpsilonRounding(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("ADD", config.Default)
	require.True(t, ok)
	got := desc.Fn(&eval.State{}, []value.Value{value.Number(0.1), value.Number(0.2)})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.InDelta(t, 0.3, n, 1e-15)
}

// ISBETWEEN has no default-dialect counterpart: it is registered only
// on the google-sheets overlay layer, so it resolves under
// config.GoogleSheets and is absent under config.Default.
func TestISBETWEENOnlyResolvesUnderGoogleSheetsMode(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)

	_, ok := r.Lookup("ISBETWEEN", config.Default)
	assert.False(t, ok, "ISBETWEEN should not resolve in default dialect mode")

	desc, ok := r.Lookup("ISBETWEEN", config.GoogleSheets)
	require.True(t, ok, "ISBETWEEN should resolve in google-sheets mode")

	state := &eval.State{}
	inRange := desc.Fn(state, []value.Value{
		value.Number(5), value.Number(1), value.Number(10), value.Bool(true), value.Bool(true),
	})
	s, _ := value.AsScalar(inRange)
	assert.True(t, s.RawBool())

	atEdgeExclusive := desc.Fn(state, []value.Value{
		value.Number(1), value.Number(1), value.Number(10), value.Bool(false), value.Bool(true),
	})
	s2, _ := value.AsScalar(atEdgeExclusive)
	assert.False(t, s2.RawBool())
}

func TestComparisonCrossTypeViaEQ(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, ok := r.Lookup("EQ", config.Default)
	require.True(t, ok)
	got := desc.Fn(&eval.State{}, []value.Value{value.Number(1), value.Text("1")})
	s, _ := value.AsScalar(got)
	assert.False(t, s.RawBool())
}

// Testable property: string equality is case-insensitive under the
// locale collator.
func TestEQCaseInsensitiveWithCollator(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("EQ", config.Default)
	loc, err := locale.New("en-US")
	require.NoError(t, err)
	got := desc.Fn(&eval.State{Locale: loc}, []value.Value{value.Text("HELLO"), value.Text("hello")})
	s, _ := value.AsScalar(got)
	assert.True(t, s.RawBool())
}

// Testable property: ISBETWEEN's boundary checks go through FloatCmp,
// so 0.1+0.2 sits inside [0, 0.3] with an inclusive upper bound and
// outside it with an exclusive one.
func TestISBETWEENEpsilonBoundary(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	add, _ := r.Lookup("ADD", config.Default)
	desc, _ := r.Lookup("ISBETWEEN", config.GoogleSheets)

	sum := add.Fn(&eval.State{}, []value.Value{value.Number(0.1), value.Number(0.2)})
	inclusive := desc.Fn(&eval.State{}, []value.Value{sum, value.Number(0), value.Number(0.3), value.Bool(true), value.Bool(true)})
	s, _ := value.AsScalar(inclusive)
	assert.True(t, s.RawBool())

	exclusive := desc.Fn(&eval.State{}, []value.Value{sum, value.Number(0), value.Number(0.3), value.Bool(true), value.Bool(false)})
	s2, _ := value.AsScalar(exclusive)
	assert.False(t, s2.RawBool())
}
