package pool_fees

import (
	"math/big"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// UpdateReference moves the volatility reference once at least filterPeriod
// has passed since the last update. The reference decays by reductionFactor
// inside decayPeriod and resets to zero after it.
func UpdateReference(v *lbclmm.VariableParameters, s lbclmm.StaticParameters, activeId int32, now int64) {
	elapsed := now - v.LastUpdateTimestamp
	if elapsed < int64(s.FilterPeriod) {
		return
	}
	v.IndexReference = activeId
	if elapsed < int64(s.DecayPeriod) {
		decayed := uint64(v.VolatilityAccumulator) * uint64(s.ReductionFactor) / shared.BasisPointMax
		v.VolatilityReference = uint32(decayed)
	} else {
		v.VolatilityReference = 0
	}
}

// UpdateVolatilityAccumulator sets the accumulator from the distance between
// activeId and the index reference, capped at maxVolatilityAccumulator.
func UpdateVolatilityAccumulator(v *lbclmm.VariableParameters, s lbclmm.StaticParameters, activeId int32) {
	delta := int64(v.IndexReference) - int64(activeId)
	if delta < 0 {
		delta = -delta
	}
	acc := uint64(v.VolatilityReference) + uint64(delta)*shared.BasisPointMax
	if acc > uint64(s.MaxVolatilityAccumulator) {
		acc = uint64(s.MaxVolatilityAccumulator)
	}
	v.VolatilityAccumulator = uint32(acc)
}

func GetDynamicFeeNumerator(volatilityAccumulator, binStep, variableFeeControl *big.Int) *big.Int {
	squareVfaBin := new(big.Int).Mul(volatilityAccumulator, binStep)
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)
	vFee := new(big.Int).Mul(variableFeeControl, squareVfaBin)
	vFee.Add(vFee, shared.DynamicFeeRoundingOffset)
	return vFee.Div(vFee, shared.DynamicFeeScalingFactor)
}

func GetVariableFee(binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters) *big.Int {
	if s.VariableFeeControl == 0 {
		return big.NewInt(0)
	}
	return GetDynamicFeeNumerator(
		new(big.Int).SetUint64(uint64(v.VolatilityAccumulator)),
		big.NewInt(int64(binStep)),
		new(big.Int).SetUint64(uint64(s.VariableFeeControl)),
	)
}
