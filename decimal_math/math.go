package decimal_math

import (
	"github.com/shopspring/decimal"
)

// Pow10 returns 10^n exactly.
func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// IntegerDigits is the number of digits left of the decimal point, negative
// for values below 0.1 (0.001 has -2).
func IntegerDigits(d decimal.Decimal) int32 {
	if d.IsZero() {
		return 0
	}
	return int32(d.NumDigits()) + d.Exponent()
}

// RoundSignificant rounds d to sig significant digits.
func RoundSignificant(d decimal.Decimal, sig int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	return d.Round(sig - IntegerDigits(d))
}
