package math

import (
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
)

func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1))
	}
	return div
}

// MulShr computes (x * y) >> offset.
func MulShr(x, y *big.Int, offset uint, rounding shared.Rounding) *big.Int {
	return MulDiv(x, y, new(big.Int).Lsh(big.NewInt(1), offset), rounding)
}

// ShlDiv computes (x << offset) / y.
func ShlDiv(x, y *big.Int, offset uint, rounding shared.Rounding) *big.Int {
	return MulDiv(x, new(big.Int).Lsh(big.NewInt(1), offset), y, rounding)
}

func Q64ToDecimal(num *big.Int, decimalPlaces int32) decimal.Decimal {
	if num == nil {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(num, 0).Div(decimal.NewFromBigInt(shared.OneQ64, 0))
	if decimalPlaces >= 0 {
		return out.Round(decimalPlaces)
	}
	return out
}

// Pow raises a Q64.64 base to a signed integer exponent the way the ledger
// does, returning zero when the result underflows or the exponent is out of
// range.
func Pow(base *big.Int, exp int64) *big.Int {
	invert := exp < 0
	if exp == 0 {
		return new(big.Int).Set(shared.OneQ64)
	}
	absExp := exp
	if invert {
		absExp = -exp
	}
	if absExp >= shared.MaxExponential.Int64() {
		return big.NewInt(0)
	}

	squaredBase := new(big.Int).Set(base)
	result := new(big.Int).Set(shared.OneQ64)
	if squaredBase.Cmp(result) >= 0 {
		squaredBase = new(big.Int).Div(shared.MaxU128, squaredBase)
		invert = !invert
	}

	for bit := uint(0); bit <= 18; bit++ {
		if absExp&(1<<bit) != 0 {
			result.Mul(result, squaredBase)
			result.Rsh(result, shared.ScaleOffset)
		}
		squaredBase.Mul(squaredBase, squaredBase)
		squaredBase.Rsh(squaredBase, shared.ScaleOffset)
	}

	if result.Sign() == 0 {
		return big.NewInt(0)
	}
	if invert {
		result = new(big.Int).Div(shared.MaxU128, result)
	}
	return result
}

func toUint128(v *big.Int) (uint128.Uint128, error) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return uint128.Zero, shared.ErrMathOverflow
	}
	return uint128.FromBig(v), nil
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
