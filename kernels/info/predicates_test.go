package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func boolScalar(t *testing.T, v value.Value) bool {
	t.Helper()
	s, ok := value.AsScalar(v)
	require.True(t, ok)
	return s.RawBool()
}

func TestISERRORFamilyDistinguishesNA(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)

	na := value.ErrKind(cellerr.NA)
	div := value.ErrKind(cellerr.DIV_BY_ZERO)

	iserror, _ := r.Lookup("ISERROR", config.Default)
	assert.True(t, boolScalar(t, iserror.Fn(&eval.State{}, []value.Value{na})))
	assert.True(t, boolScalar(t, iserror.Fn(&eval.State{}, []value.Value{div})))
	assert.False(t, boolScalar(t, iserror.Fn(&eval.State{}, []value.Value{value.Number(1)})))

	iserr, _ := r.Lookup("ISERR", config.Default)
	assert.False(t, boolScalar(t, iserr.Fn(&eval.State{}, []value.Value{na})))
	assert.True(t, boolScalar(t, iserr.Fn(&eval.State{}, []value.Value{div})))

	isna, _ := r.Lookup("ISNA", config.Default)
	assert.True(t, boolScalar(t, isna.Fn(&eval.State{}, []value.Value{na})))
	assert.False(t, boolScalar(t, isna.Fn(&eval.State{}, []value.Value{div})))
}

func TestIFERRORSubstitutesOnlyOnError(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("IFERROR", config.Default)

	kept := desc.Fn(&eval.State{}, []value.Value{value.Number(7), value.Number(0)})
	s, _ := value.AsScalar(kept)
	n, _ := s.NumberValue()
	assert.Equal(t, 7.0, n)

	replaced := desc.Fn(&eval.State{}, []value.Value{value.ErrKind(cellerr.DIV_BY_ZERO), value.Text("fallback")})
	s2, _ := value.AsScalar(replaced)
	assert.Equal(t, "fallback", s2.TextValue())
}

func TestIFNAOnlyCatchesNA(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("IFNA", config.Default)

	passed := desc.Fn(&eval.State{}, []value.Value{value.ErrKind(cellerr.DIV_BY_ZERO), value.Number(0)})
	s, _ := value.AsScalar(passed)
	errv, isErr := s.Error()
	require.True(t, isErr)
	assert.Equal(t, cellerr.DIV_BY_ZERO, errv.Kind)

	caught := desc.Fn(&eval.State{}, []value.Value{value.ErrKind(cellerr.NA), value.Number(0)})
	s2, _ := value.AsScalar(caught)
	n, _ := s2.NumberValue()
	assert.Equal(t, 0.0, n)
}

// ISBLANK must separate an unpopulated cell from text "" (spec §4.1).
func TestISBLANKDistinguishesEmptyFromEmptyString(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("ISBLANK", config.Default)

	assert.True(t, boolScalar(t, desc.Fn(&eval.State{}, []value.Value{value.Empty()})))
	assert.False(t, boolScalar(t, desc.Fn(&eval.State{}, []value.Value{value.Text("")})))
}

// gridSheet backs the reference-introspection tests: cell (col, row)
// holds col*10 + row.
type gridSheet struct{}

func (gridSheet) GetCell(sheet string, col, row int) value.Scalar {
	return value.Number(float64(col*10 + row))
}

func (gridSheet) IsArrayRoot(string, int, int) bool { return false }

func refState(r *eval.Registry) *eval.State {
	return &eval.State{
		Registry: r,
		Config:   config.NewGoogleSheets(),
		Sheet:    gridSheet{},
		Eval:     eval.NewEvaluator(),
		Address:  eval.CellAddress{Sheet: "Sheet1"},
	}
}

func TestISREFReportsReferenceNodesOnly(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("ISREF", config.Default)
	state := refState(r)

	ref := ast.CellReference{Ref: ast.Ref{Kind: ast.CellRef, Col0: 0, Row0: 0}}
	assert.True(t, boolScalar(t, desc.RawFn(state, []ast.Node{ref})))
	assert.False(t, boolScalar(t, desc.RawFn(state, []ast.Node{ast.Number{Value: 1}})))
}

func TestINDIRECTResolvesTextReference(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("INDIRECT", config.Default)
	state := refState(r)

	got := desc.RawFn(state, []ast.Node{ast.Text{Value: "B3"}})
	s, _ := value.AsScalar(got)
	n, _ := s.NumberValue()
	assert.Equal(t, 12.0, n) // col 1, row 2

	bad := desc.RawFn(state, []ast.Node{ast.Text{Value: "no such ref"}})
	s2, _ := value.AsScalar(bad)
	errv, isErr := s2.Error()
	require.True(t, isErr)
	assert.Equal(t, cellerr.REF, errv.Kind)
}

func TestOFFSETDisplacesAndResizes(t *testing.T) {
	r := eval.NewRegistry()
	Register(r)
	desc, _ := r.Lookup("OFFSET", config.Default)
	state := refState(r)

	base := ast.CellReference{Ref: ast.Ref{Kind: ast.CellRef, Col0: 0, Row0: 0}}
	got := desc.RawFn(state, []ast.Node{base, ast.Number{Value: 1}, ast.Number{Value: 2},
		ast.Number{Value: 2}, ast.Number{Value: 1}})
	rng, isRange := got.(*value.Range)
	require.True(t, isRange)
	assert.Equal(t, 2, rng.Height())
	assert.Equal(t, 1, rng.Width())
	n, _ := rng.At(0, 0).NumberValue()
	assert.Equal(t, 21.0, n) // col 2, row 1

	negative := desc.RawFn(state, []ast.Node{base, ast.Number{Value: -1}, ast.Number{Value: 0}})
	s, _ := value.AsScalar(negative)
	errv, isErr := s.Error()
	require.True(t, isErr)
	assert.Equal(t, cellerr.REF, errv.Kind)
}
