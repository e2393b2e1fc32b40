package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func lookup(t *testing.T, r *eval.Registry, name string, mode config.Mode) eval.Descriptor {
	t.Helper()
	d, ok := r.Lookup(name, mode)
	require.True(t, ok, "%s should resolve under mode %v", name, mode)
	return d
}

// LENB counts raw UTF-8 bytes, not runes, so a supplementary-plane or
// multi-byte character counts as more than one "character" of length.
func TestLENBCountsBytesNotRunes(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "LENB", config.Default)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("café")})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(5), n) // 'é' is 2 bytes in UTF-8
}

// SEARCHB is case-insensitive but still operates over the original
// byte offsets of the haystack, not a normalized/folded copy.
func TestSEARCHBCaseInsensitiveOriginalBytes(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "SEARCHB", config.Default)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("WORLD"), value.Text("hello world"), value.Number(1)})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(7), n)
}

// Lowercasing "İstanbul" turns the 2-byte İ into a 3-byte i̇; the
// reported position must come from the original bytes, so "s" sits at
// byte position 3, not 4.
func TestSEARCHBOffsetsSurviveCaseFoldLengthChange(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "SEARCHB", config.Default)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("s"), value.Text("İstanbul"), value.Number(1)})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(3), n)
}

func TestLENBSupplementaryPlaneIsFourBytes(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "LENB", config.Default)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("😀")})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(4), n)
}

func TestREGEXEXTRACTCapturesGroupWhenPresent(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "REGEXEXTRACT", config.GoogleSheets)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("order-4821"), value.Text(`(\d+)`)})
	s, _ := value.AsScalar(got)
	assert.Equal(t, "4821", s.TextValue())
}

func TestREGEXEXTRACTWholeMatchWithoutCaptureGroup(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc := lookup(t, r, "REGEXEXTRACT", config.GoogleSheets)
	got := desc.Fn(&eval.State{}, []value.Value{value.Text("order-4821"), value.Text(`\d+`)})
	s, _ := value.AsScalar(got)
	assert.Equal(t, "4821", s.TextValue())
}

func TestSPLITOnlyResolvesUnderGoogleSheetsMode(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	_, ok := r.Lookup("SPLIT", config.Default)
	assert.False(t, ok)
	_, ok = r.Lookup("SPLIT", config.GoogleSheets)
	assert.True(t, ok)
}
