// Package pricing holds the money arithmetic shared by carts, bookings and
// currency quotes. All amounts are exact decimals.
package pricing

import "github.com/shopspring/decimal"

// LineTotal is unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds line totals; the sum of nothing is zero.
func Sum(lines ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l)
	}
	return total
}

// RoundMoney rounds to cents, halves away from zero.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Convert applies an exchange rate and rounds the result to cents.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(rate))
}
