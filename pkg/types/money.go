package types

import (
	"github.com/shopspring/decimal"
)

// CentsToDecimal converts integer minor units into a currency decimal.
func CentsToDecimal(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}

// DecimalToCents rounds a currency decimal to minor units.
// Half-up rounding matches receipt math.
func DecimalToCents(amount decimal.Decimal) int {
	return int(amount.Mul(decimal.New(100, 0)).Round(0).IntPart())
}

// FormatMoney renders a decimal as a two-place string for API payloads.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
