package math

import (
	"fmt"
	gomath "math"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/krazyTry/meteora-dlmm-go/decimal_math"
	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
)

// PricePrecision is the number of significant digits kept by decimal prices.
const PricePrecision = 50

// GetQPriceFromId returns the Q64.64 price of a bin as stored by the ledger.
func GetQPriceFromId(binId int32, binStep uint16) (uint128.Uint128, error) {
	if binStep == 0 {
		return uint128.Zero, shared.ErrInvalidBinStep
	}
	bps := new(big.Int).Lsh(big.NewInt(int64(binStep)), shared.ScaleOffset)
	bps.Div(bps, big.NewInt(shared.BasisPointMax))
	base := new(big.Int).Add(shared.OneQ64, bps)

	price := Pow(base, int64(binId))
	if price.Sign() == 0 {
		return uint128.Zero, fmt.Errorf("price of bin %d: %w", binId, shared.ErrMathOverflow)
	}
	return toUint128(price)
}

// GetPriceOfBinByBinId returns (1 + binStep/10000)^binId.
func GetPriceOfBinByBinId(binId int32, binStep uint16) decimal.Decimal {
	return decimal_math.PowInt(binStepBase(binStep), int64(binId), PricePrecision)
}

// GetBinIdFromPrice maps a price back to a bin id. With roundDown it returns
// the largest id whose price does not exceed price, otherwise the smallest id
// whose price is not below it.
func GetBinIdFromPrice(price decimal.Decimal, binStep uint16, roundDown bool) int32 {
	if binStep == 0 || !price.IsPositive() {
		return shared.MinBinId
	}
	estimate := decimal_math.Ln(price) / gomath.Log1p(float64(binStep)/shared.BasisPointMax)
	id := clampBinId(int64(gomath.Round(estimate)))

	priceOf := func(id int32) decimal.Decimal {
		return GetPriceOfBinByBinId(id, binStep)
	}
	if roundDown {
		for id > shared.MinBinId && priceOf(id).GreaterThan(price) {
			id--
		}
		for id < shared.MaxBinId && priceOf(id+1).LessThanOrEqual(price) {
			id++
		}
		return id
	}
	for id < shared.MaxBinId && priceOf(id).LessThan(price) {
		id++
	}
	for id > shared.MinBinId && priceOf(id-1).GreaterThanOrEqual(price) {
		id--
	}
	return id
}

// GetBinRangeFromPriceRange converts a price interval into the inclusive bin
// interval it covers.
func GetBinRangeFromPriceRange(minPrice, maxPrice decimal.Decimal, binStep uint16) (int32, int32) {
	return GetBinIdFromPrice(minPrice, binStep, true), GetBinIdFromPrice(maxPrice, binStep, false)
}

// PricePerToken converts a raw per-lamport price into a UI price.
func PricePerToken(pricePerLamport decimal.Decimal, decimalsX, decimalsY uint8) decimal.Decimal {
	return pricePerLamport.Mul(decimal_math.Pow10(int32(decimalsX) - int32(decimalsY)))
}

// PricePerLamport converts a UI price into a raw per-lamport price.
func PricePerLamport(pricePerToken decimal.Decimal, decimalsX, decimalsY uint8) decimal.Decimal {
	return pricePerToken.Mul(decimal_math.Pow10(int32(decimalsY) - int32(decimalsX)))
}

func binStepBase(binStep uint16) decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.New(int64(binStep), -4))
}

func clampBinId(id int64) int32 {
	if id > shared.MaxBinId {
		return shared.MaxBinId
	}
	if id < shared.MinBinId {
		return shared.MinBinId
	}
	return int32(id)
}
