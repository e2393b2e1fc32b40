package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberGroupedWithCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$1,234.50", Number(1234.5, 2, "$", true))
}

func TestNumberUngrouped(t *testing.T) {
	assert.Equal(t, "1234.50", Number(1234.5, 2, "", false))
}

func TestNumberNegativeValue(t *testing.T) {
	assert.Equal(t, "-$12.00", Number(-12, 2, "$", true))
}

func TestNumberNegativeDecimalsRoundsToPowerOfTen(t *testing.T) {
	assert.Equal(t, "1,200", Number(1234, -2, "", true))
}

func TestGroupThousandsShortInput(t *testing.T) {
	assert.Equal(t, "12", groupThousands("12"))
	assert.Equal(t, "1,234,567", groupThousands("1234567"))
}

func TestRenderCustomPatternDrivesDecimalsAndGrouping(t *testing.T) {
	assert.Equal(t, "1,234.500", Render(1234.5, "#,##0.000"))
	assert.Equal(t, "1234", Render(1234.5, "0"))
	assert.Equal(t, "$1,234.50", Render(1234.5, "$#,##0.00"))
}
