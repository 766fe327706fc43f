package decimal_math

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPowInt(t *testing.T) {
	base := decimal.RequireFromString("1.001")
	assert.True(t, PowInt(base, 0, 40).Equal(decimal.NewFromInt(1)))
	assert.True(t, PowInt(base, 1, 40).Equal(base))
	assert.True(t, PowInt(base, 2, 40).Equal(decimal.RequireFromString("1.002001")))
	assert.True(t, PowInt(decimal.NewFromInt(2), -3, 40).Equal(decimal.RequireFromString("0.125")))

	got := PowInt(base, 100, 40).InexactFloat64()
	assert.InDelta(t, math.Pow(1.001, 100), got, 1e-12)

	inv := PowInt(base, -100, 40).Mul(PowInt(base, 100, 40))
	assert.True(t, inv.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.New(1, -35)))
}

func TestRoundSignificant(t *testing.T) {
	assert.Equal(t, "123.5", RoundSignificant(decimal.RequireFromString("123.456"), 4).String())
	assert.Equal(t, "0.001235", RoundSignificant(decimal.RequireFromString("0.00123456"), 4).String())
	assert.Equal(t, int32(-2), IntegerDigits(decimal.RequireFromString("0.001")))
	assert.Equal(t, int32(3), IntegerDigits(decimal.NewFromInt(100)))
}

func TestLn(t *testing.T) {
	assert.InDelta(t, math.Log(12345.678), Ln(decimal.RequireFromString("12345.678")), 1e-9)
	huge := decimal.New(3, 1000)
	assert.InDelta(t, math.Log(3)+1000*math.Ln10, Ln(huge), 1e-6)
}
