package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	testCases := []struct {
		name     string
		unit     string
		quantity int
		expected string
	}{
		{name: "single seat", unit: "499.99", quantity: 1, expected: "499.99"},
		{name: "several seats", unit: "0.10", quantity: 3, expected: "0.3"},
		{name: "zero quantity", unit: "120", quantity: 0, expected: "0"},
		{name: "large price", unit: "12345.67", quantity: 12, expected: "148148.04"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := LineTotal(decimal.RequireFromString(tc.unit), tc.quantity)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().Equal(decimal.Zero))

	total := Sum(
		decimal.RequireFromString("0.1"),
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("100.70"),
	)
	assert.Equal(t, "101", total.String())
}

func TestConvert_RoundsHalfAwayFromZero(t *testing.T) {
	got := Convert(decimal.RequireFromString("10.00"), decimal.RequireFromString("1.2345"))
	assert.Equal(t, "12.35", got.StringFixed(2))

	got = Convert(decimal.RequireFromString("-10.00"), decimal.RequireFromString("1.2345"))
	assert.Equal(t, "-12.35", got.StringFixed(2))
}
