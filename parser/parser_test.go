package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gscompat/formulacore/ast"
)

func TestArithmeticRespectsOperatorPrecedence(t *testing.T) {
	p := New("1+2*3", nil, nil)
	got := p.ParseFormula()
	require.Empty(t, p.Errors())

	bin, ok := got.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs, ok := bin.RHS.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

// Unary minus binds tighter than the caret, so -2^2 parses as (-2)^2:
// a Pow node whose left operand is the negation.
func TestUnaryMinusBindsTighterThanCaret(t *testing.T) {
	p := New("-2^2", nil, nil)
	got := p.ParseFormula()
	require.Empty(t, p.Errors())

	bin, ok := got.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpPow, bin.Op)
	unary, ok := bin.LHS.(ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpNeg, unary.Op)
}

// Postfix percent parses to a UnaryOp wrapping its operand: 50% is
// OpPercentPostfix applied to 50.
func TestPostfixPercentAppliesToItsOperand(t *testing.T) {
	p := New("50%", nil, nil)
	got := p.ParseFormula()
	require.Empty(t, p.Errors())

	unary, ok := got.(ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpPercentPostfix, unary.Op)
}

func TestCellRangeOperatorMergesIntoSingleReference(t *testing.T) {
	p := New("A1:B2", nil, nil)
	got := p.ParseFormula()
	require.Empty(t, p.Errors())

	rng, ok := got.(ast.RangeReference)
	require.True(t, ok)
	assert.Equal(t, ast.AreaRef, rng.Ref.Kind)
	assert.Equal(t, 0, rng.Ref.Col0)
	assert.Equal(t, 1, rng.Ref.Col1)
}

func TestProcedureParsesCommaSeparatedArgs(t *testing.T) {
	p := New("SUM(1,2,3)", nil, nil)
	got := p.ParseFormula()
	require.Empty(t, p.Errors())

	proc, ok := got.(ast.Procedure)
	require.True(t, ok)
	assert.Equal(t, "SUM", proc.Name)
	assert.Len(t, proc.Args, 3)
}

func TestArrayLiteralRequiresEqualRowWidths(t *testing.T) {
	p := New("{1,2;3}", nil, nil)
	p.ParseFormula()
	assert.NotEmpty(t, p.Errors())
}

func TestUnexpectedTokenRecordsParseError(t *testing.T) {
	p := New(")", nil, nil)
	p.ParseFormula()
	assert.NotEmpty(t, p.Errors())
}

type fakeResolver struct{}

func (fakeResolver) CanonicalFunctionName(localUpper string) (string, bool) {
	if localUpper == "SOMME" {
		return "SUM", true
	}
	return "", false
}

func TestNameResolverTranslatesLocalFunctionNames(t *testing.T) {
	p := New("SOMME(1,2)", nil, fakeResolver{})
	got := p.ParseFormula()
	require.Empty(t, p.Errors())
	proc, ok := got.(ast.Procedure)
	require.True(t, ok)
	assert.Equal(t, "SUM", proc.Name)
}
