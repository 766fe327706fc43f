package dlmm

import (
	"github.com/shopspring/decimal"

	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
	"github.com/krazyTry/meteora-dlmm-go/dlmm/math/pool_fees"
)

// GetPriceOfBinByBinId returns the raw price, Y per X in lamports, of a bin.
func (m *DLMM) GetPriceOfBinByBinId(binId int32, binStep uint16) decimal.Decimal {
	return dlmmmath.GetPriceOfBinByBinId(binId, binStep)
}

// GetBinIdFromPrice returns the bin holding price, rounding down or up when
// price falls between two bins.
func (m *DLMM) GetBinIdFromPrice(price decimal.Decimal, binStep uint16, roundDown bool) int32 {
	return dlmmmath.GetBinIdFromPrice(price, binStep, roundDown)
}

// GetActivePrice returns the UI price of the pool's active bin given both
// token decimals.
func (m *DLMM) GetActivePrice(pool *Pool, decimalsX, decimalsY uint8) decimal.Decimal {
	raw := dlmmmath.GetPriceOfBinByBinId(pool.ActiveId, pool.BinStep)
	return dlmmmath.PricePerToken(raw, decimalsX, decimalsY)
}

func (m *DLMM) GetFeeInfo(pool *Pool) FeeInfo {
	return pool_fees.GetFeeInfo(pool.BinStep, pool.Parameters)
}

// GetDynamicFee returns the total fee percentage a swap in the active bin
// would pay at now. The pool is not modified.
func (m *DLMM) GetDynamicFee(pool *Pool, now int64) decimal.Decimal {
	return pool_fees.GetDynamicFee(pool.LbPair, now)
}
