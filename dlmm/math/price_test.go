package math

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
)

func TestGetPriceOfBinByBinId(t *testing.T) {
	tests := []struct {
		binId   int32
		binStep uint16
		want    string
	}{
		{0, 10, "1"},
		{1, 10, "1.001"},
		{-1, 10, "0.999000999000999"},
		{100, 1, "1.01005"},
		{100, 10, "1.10512"},
		{-100, 25, "0.779044"},
	}
	for _, tt := range tests {
		got := GetPriceOfBinByBinId(tt.binId, tt.binStep)
		want := decimal.RequireFromString(tt.want)
		assert.True(t, got.Sub(want).Abs().LessThan(decimal.New(1, -5)), "bin %d step %d: %s", tt.binId, tt.binStep, got)
	}
}

func TestPriceIsStrictlyIncreasing(t *testing.T) {
	for _, binStep := range []uint16{1, 10, 100} {
		prev := GetPriceOfBinByBinId(-2000, binStep)
		for id := int32(-1999); id <= 2000; id += 7 {
			cur := GetPriceOfBinByBinId(id, binStep)
			require.True(t, cur.GreaterThan(prev), "step %d bin %d", binStep, id)
			prev = cur
		}
	}
}

func TestBinIdFromPriceRoundTrip(t *testing.T) {
	ids := []int32{0, 1, -1, 69, -70, 100, 5_000, -5_000, 100_000, -100_000, shared.MaxBinId, shared.MinBinId}
	for _, binStep := range []uint16{1, 10, 25, 100} {
		for _, id := range ids {
			price := GetPriceOfBinByBinId(id, binStep)
			assert.Equal(t, id, GetBinIdFromPrice(price, binStep, true), "floor step %d bin %d", binStep, id)
			assert.Equal(t, id, GetBinIdFromPrice(price, binStep, false), "ceil step %d bin %d", binStep, id)
		}
	}
}

func TestBinIdFromPriceBetweenBins(t *testing.T) {
	lo := GetPriceOfBinByBinId(41, 10)
	hi := GetPriceOfBinByBinId(42, 10)
	mid := lo.Add(hi).Div(decimal.NewFromInt(2))

	assert.Equal(t, int32(41), GetBinIdFromPrice(mid, 10, true))
	assert.Equal(t, int32(42), GetBinIdFromPrice(mid, 10, false))

	minBin, maxBin := GetBinRangeFromPriceRange(mid, mid.Mul(decimal.NewFromInt(2)), 10)
	assert.Equal(t, int32(41), minBin)
	assert.Greater(t, maxBin, minBin)
}

func TestGetQPriceFromId(t *testing.T) {
	one, err := GetQPriceFromId(0, 10)
	require.NoError(t, err)
	assert.Zero(t, shared.OneQ64.Cmp(one.Big()))

	q, err := GetQPriceFromId(100, 10)
	require.NoError(t, err)
	diff := Q64ToDecimal(q.Big(), -1).Sub(GetPriceOfBinByBinId(100, 10)).Abs()
	assert.True(t, diff.LessThan(decimal.New(1, -12)), "diff %s", diff)

	neg, err := GetQPriceFromId(-100, 10)
	require.NoError(t, err)
	assert.Equal(t, -1, neg.Big().Cmp(shared.OneQ64))

	_, err = GetQPriceFromId(1, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidBinStep)
}

func TestMulShrShlDiv(t *testing.T) {
	price := new(big.Int).Lsh(big.NewInt(3), shared.ScaleOffset-1) // 1.5
	assertBig(t, 15, MulShr(big.NewInt(10), price, shared.ScaleOffset, shared.RoundingDown))
	assertBig(t, 6, ShlDiv(big.NewInt(10), price, shared.ScaleOffset, shared.RoundingDown))
	assertBig(t, 7, ShlDiv(big.NewInt(10), price, shared.ScaleOffset, shared.RoundingUp))
}

func TestPricePerToken(t *testing.T) {
	raw := decimal.RequireFromString("0.0015")
	ui := PricePerToken(raw, 9, 6)
	assert.True(t, ui.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, PricePerLamport(ui, 9, 6).Equal(raw))
}

func assertBig(t *testing.T, want int64, got *big.Int, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.Equal(t, big.NewInt(want).String(), got.String(), msgAndArgs...)
}
