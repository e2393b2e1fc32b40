package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/token"
)

// Two engines built back to back with different MaxCols must never
// share mutable cell-reference-matching state (spec §9, testable
// property #9): a column past one engine's MaxCols falls back to
// IDENT for that engine while still resolving as CELLREF for an
// engine with a larger MaxCols, regardless of which Lexer was built
// first.
func TestLexerCellRefMatcherIsolatedPerInstance(t *testing.T) {
	narrow := config.New()
	narrow.MaxCols = 3 // columns A, B, C only
	wide := config.New()
	wide.MaxCols = 16384

	lNarrow := New("D1", narrow)
	lWide := New("D1", wide)

	gotNarrow := lNarrow.NextToken()
	gotWide := lWide.NextToken()

	assert.Equal(t, token.IDENT, gotNarrow.Type, "D1 should exceed the narrow engine's MaxCols")
	assert.Equal(t, token.CELLREF, gotWide.Type, "D1 should resolve normally for the wide engine")

	// Building lWide after lNarrow must not have mutated lNarrow's
	// already-constructed matcher.
	lNarrowAgain := New("D1", narrow)
	assert.Equal(t, token.IDENT, lNarrowAgain.NextToken().Type)
}

func TestTokenizeProducesTrailingEOF(t *testing.T) {
	toks := Tokenize("A1+B2", config.New())
	assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
}
