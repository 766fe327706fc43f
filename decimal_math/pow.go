package decimal_math

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// PowInt raises base to an integer exponent by repeated squaring, keeping sig
// significant digits after every product. Negative exponents take the
// reciprocal of the positive power.
func PowInt(base decimal.Decimal, exp int64, sig int32) decimal.Decimal {
	if exp == 0 {
		return decimal.NewFromInt(1)
	}
	if base.IsZero() {
		return decimal.Zero
	}
	n := exp
	if n < 0 {
		n = -n
	}
	guard := sig + 8
	result := decimal.NewFromInt(1)
	sq := base
	for n > 0 {
		if n&1 == 1 {
			result = RoundSignificant(result.Mul(sq), guard)
		}
		n >>= 1
		if n > 0 {
			sq = RoundSignificant(sq.Mul(sq), guard)
		}
	}
	if exp < 0 {
		places := guard - IntegerDigits(result) + 1
		result = decimal.NewFromInt(1).DivRound(result, places)
	}
	return RoundSignificant(result, sig)
}

// Ln estimates the natural logarithm of a positive decimal without passing
// through a float64 that could overflow.
func Ln(d decimal.Decimal) float64 {
	coef := d.Coefficient()
	digits := len(coef.String())
	exp := int(d.Exponent())
	if digits > 17 {
		shift := digits - 17
		coef = new(big.Int).Quo(coef, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil))
		exp += shift
	}
	mantissa, _ := new(big.Float).SetInt(coef).Float64()
	return math.Log(mantissa) + float64(exp)*math.Ln10
}
