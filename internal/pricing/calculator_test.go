package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLine(t *testing.T) {
	line, err := PriceLine("p1", decimal.RequireFromString("19.99"), 3)
	require.NoError(t, err)
	assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("59.97")))

	_, err = PriceLine("p1", decimal.RequireFromString("19.99"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = PriceLine("p1", decimal.RequireFromString("19.99"), -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestTotal_NoFloatDrift(t *testing.T) {
	// 0.1 * 3 in binary floating point is 0.30000000000000004; decimals
	// must sum exactly.
	unit := decimal.RequireFromString("0.10")
	var lines []LinePrice
	for i := 0; i < 3; i++ {
		line, err := PriceLine("p1", unit, 1)
		require.NoError(t, err)
		lines = append(lines, line)
	}
	assert.True(t, Total(lines).Equal(decimal.RequireFromString("0.30")))
}

func TestTotal_Empty(t *testing.T) {
	assert.True(t, Total(nil).Equal(decimal.Zero))
}
