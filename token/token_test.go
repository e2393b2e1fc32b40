package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRendersKnownTypes(t *testing.T) {
	assert.Equal(t, "+", PLUS.String())
	assert.Equal(t, "CELLREF", CELLREF.String())
	assert.Equal(t, "EOF", EOF.String())
}

func TestStringUnknownTypeFallsBack(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Type(9999).String())
}
