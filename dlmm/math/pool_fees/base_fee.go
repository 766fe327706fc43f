package pool_fees

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

var (
	feePrecision = big.NewInt(shared.FeePrecision)
	maxFeeRate   = big.NewInt(shared.MaxFeeRate)
)

// GetBaseFee returns baseFactor * binStep * 10 * 10^baseFeePowerFactor in
// FeePrecision units.
func GetBaseFee(binStep uint16, s lbclmm.StaticParameters) *big.Int {
	fee := new(big.Int).Mul(big.NewInt(int64(s.BaseFactor)), big.NewInt(int64(binStep)))
	fee.Mul(fee, big.NewInt(10))
	if s.BaseFeePowerFactor > 0 {
		fee.Mul(fee, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.BaseFeePowerFactor)), nil))
	}
	return fee
}

// GetTotalFee returns base + variable fee, capped at MaxFeeRate.
func GetTotalFee(binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters) *big.Int {
	total := new(big.Int).Add(GetBaseFee(binStep, s), GetVariableFee(binStep, s, v))
	if total.Cmp(maxFeeRate) > 0 {
		return new(big.Int).Set(maxFeeRate)
	}
	return total
}

// ComputeFee returns the fee charged on top of an amount that excludes fees,
// rounded up.
func ComputeFee(binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters, amount *big.Int) *big.Int {
	totalFee := GetTotalFee(binStep, s, v)
	denominator := new(big.Int).Sub(feePrecision, totalFee)
	fee := new(big.Int).Mul(amount, totalFee)
	fee.Add(fee, denominator)
	fee.Sub(fee, big.NewInt(1))
	return fee.Div(fee, denominator)
}

// ComputeFeeFromAmount returns the fee contained in an amount that already
// includes fees, rounded up.
func ComputeFeeFromAmount(binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters, amountWithFees *big.Int) *big.Int {
	totalFee := GetTotalFee(binStep, s, v)
	fee := new(big.Int).Mul(amountWithFees, totalFee)
	fee.Add(fee, new(big.Int).Sub(feePrecision, big.NewInt(1)))
	return fee.Div(fee, feePrecision)
}

func ComputeProtocolFee(feeAmount *big.Int, s lbclmm.StaticParameters) *big.Int {
	out := new(big.Int).Mul(feeAmount, big.NewInt(int64(s.ProtocolShare)))
	return out.Div(out, big.NewInt(shared.BasisPointMax))
}

func GetFeeInfo(binStep uint16, s lbclmm.StaticParameters) shared.FeeInfo {
	hundred := decimal.NewFromInt(100)
	precision := decimal.NewFromInt(shared.FeePrecision)
	return shared.FeeInfo{
		BaseFeeRatePercentage: decimal.NewFromBigInt(GetBaseFee(binStep, s), 0).Mul(hundred).Div(precision),
		MaxFeeRatePercentage:  decimal.NewFromInt(shared.MaxFeeRate).Mul(hundred).Div(precision),
		ProtocolFeePercentage: decimal.NewFromInt(int64(s.ProtocolShare)).Mul(hundred).Div(decimal.NewFromInt(shared.BasisPointMax)),
	}
}

// GetDynamicFee refreshes a working copy of the pair's volatility state at
// now and returns the resulting total fee as a percentage.
func GetDynamicFee(pair *lbclmm.LbPair, now int64) decimal.Decimal {
	v := pair.VParameters
	UpdateReference(&v, pair.Parameters, pair.ActiveId, now)
	UpdateVolatilityAccumulator(&v, pair.Parameters, pair.ActiveId)
	total := GetTotalFee(pair.BinStep, pair.Parameters, v)
	return decimal.NewFromBigInt(total, 0).Div(decimal.NewFromInt(shared.FeePrecision)).Mul(decimal.NewFromInt(100))
}
