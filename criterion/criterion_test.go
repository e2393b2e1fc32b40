package criterion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gscompat/formulacore/value"
)

func TestCompileNumericEquality(t *testing.T) {
	pred := Compile(value.Number(5), nil)
	assert.True(t, pred(value.Number(5)))
	assert.False(t, pred(value.Number(6)))
}

func TestCompileRelationalOperator(t *testing.T) {
	pred := Compile(value.Text(">=10"), nil)
	assert.True(t, pred(value.Number(10)))
	assert.True(t, pred(value.Number(20)))
	assert.False(t, pred(value.Number(9)))
}

func TestCompileWildcardText(t *testing.T) {
	pred := Compile(value.Text("a*z"), nil)
	assert.True(t, pred(value.Text("abcz")))
	assert.False(t, pred(value.Text("abcy")))
}

func TestCompileNegatedWildcard(t *testing.T) {
	pred := Compile(value.Text("<>a*"), nil)
	assert.False(t, pred(value.Text("apple")))
	assert.True(t, pred(value.Text("banana")))
}

func TestCompileEmptyCriterionMatchesOnlyEmpty(t *testing.T) {
	pred := Compile(value.Empty(), nil)
	assert.True(t, pred(value.Empty()))
	assert.False(t, pred(value.Text("")))
}
