package cellerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStringRoundTripsThroughFromLiteral(t *testing.T) {
	for _, k := range []Kind{NULL, DIV_BY_ZERO, VALUE, REF, NAME, NUM, NA, ERROR, SPILL, CYCLE} {
		lit := k.String()
		got, ok := FromLiteral(lit)
		assert.True(t, ok, "FromLiteral(%q)", lit)
		assert.Equal(t, k, got)
	}
}

func TestUnknownKindRendersGenericError(t *testing.T) {
	assert.Equal(t, "#ERROR!", Kind(999).String())
}

func TestErrorTypeCodeMatchesSpecNumbering(t *testing.T) {
	cases := map[Kind]int{
		NULL: 1, DIV_BY_ZERO: 2, VALUE: 3, REF: 4, NAME: 5, NUM: 6, NA: 7, ERROR: 8,
	}
	for k, want := range cases {
		got, ok := ErrorTypeCode(k)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ErrorTypeCode(SPILL)
	assert.False(t, ok)
}
