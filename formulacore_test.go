package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// fakeSheet is a minimal SheetView backed by a plain map, enough to
// drive cell-reference evaluation in these tests.
type fakeSheet struct {
	cells map[string]value.Scalar
}

func (f *fakeSheet) GetCell(sheet string, col, row int) value.Scalar {
	key := cellKey(sheet, col, row)
	if s, ok := f.cells[key]; ok {
		return s
	}
	return value.Empty()
}

func (f *fakeSheet) IsArrayRoot(sheet string, col, row int) bool { return false }

func cellKey(sheet string, col, row int) string {
	return sheet + ":" + string(rune('A'+col)) + string(rune('1'+row))
}

func TestEvaluateFormulaArithmetic(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)
	sheet := &fakeSheet{cells: map[string]value.Scalar{}}
	got := e.EvaluateFormula("=1+2*3", sheet, eval.CellAddress{Sheet: "Sheet1"})
	s, ok := value.AsScalar(got)
	require.True(t, ok)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(7), n)
}

func TestEvaluateFormulaCellReference(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)
	sheet := &fakeSheet{cells: map[string]value.Scalar{
		"Sheet1:A1": value.Number(10),
	}}
	got := e.EvaluateFormula("=A1*2", sheet, eval.CellAddress{Sheet: "Sheet1"})
	s, ok := value.AsScalar(got)
	require.True(t, ok)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(20), n)
}

func TestEvaluateFormulaSumOverRange(t *testing.T) {
	e, err := NewGoogleSheets()
	require.NoError(t, err)
	sheet := &fakeSheet{cells: map[string]value.Scalar{
		"Sheet1:A1": value.Number(1),
		"Sheet1:A2": value.Number(2),
		"Sheet1:A3": value.Number(3),
	}}
	got := e.EvaluateFormula("=SUM(A1:A3)/2", sheet, eval.CellAddress{Sheet: "Sheet1"})
	s, ok := value.AsScalar(got)
	require.True(t, ok)
	n, _ := s.NumberValue()
	assert.Equal(t, float64(3), n)
}

func TestEvaluateFormulaLambdaMapEndToEnd(t *testing.T) {
	e, err := NewGoogleSheets()
	require.NoError(t, err)
	sheet := &fakeSheet{cells: map[string]value.Scalar{}}
	got := e.EvaluateFormula("=MAP({1,2,3}, LAMBDA(x, x*10))", sheet, eval.CellAddress{Sheet: "Sheet1"})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	require.Equal(t, 3, rng.Width())
	n, _ := rng.At(0, 2).NumberValue()
	assert.Equal(t, float64(30), n)
}

func TestISBETWEENResolvesOnlyInGoogleSheetsEngine(t *testing.T) {
	def, err := New(nil)
	require.NoError(t, err)
	gs, err := NewGoogleSheets()
	require.NoError(t, err)

	sheet := &fakeSheet{cells: map[string]value.Scalar{}}
	got := def.EvaluateFormula("=ISBETWEEN(5,1,10)", sheet, eval.CellAddress{Sheet: "Sheet1"})
	s, _ := value.AsScalar(got)
	assert.True(t, s.IsError(), "ISBETWEEN should be unavailable in the default dialect")

	got = gs.EvaluateFormula("=ISBETWEEN(5,1,10)", sheet, eval.CellAddress{Sheet: "Sheet1"})
	s2, _ := value.AsScalar(got)
	assert.False(t, s2.IsError())
}
