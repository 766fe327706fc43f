package dlmm

import (
	"go.uber.org/zap"

	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// GetPositionBinArrayIndexes returns the bin array indexes a position reads.
func (m *DLMM) GetPositionBinArrayIndexes(position *PositionState) []int64 {
	return dlmmmath.GetBinArrayIndexesCoverage(position.LowerBinId, position.UpperBinId)
}

// GetClaimableSwapFee returns the swap fees a position can claim. upper may
// be nil when the position sits in a single bin array.
func (m *DLMM) GetClaimableSwapFee(position *PositionState, lower, upper *lbclmm.BinArray) (ClaimableFee, error) {
	fee, err := dlmmmath.GetClaimableSwapFee(position, PositionBinArrays{Lower: lower, Upper: upper})
	if err != nil {
		return ClaimableFee{}, err
	}
	m.logger.Debug("claimable swap fee",
		zap.Stringer("position", position.Address),
		zap.Stringer("feeX", fee.FeeX),
		zap.Stringer("feeY", fee.FeeY),
	)
	return fee, nil
}

// GetClaimableLMReward returns the liquidity mining rewards a position can
// claim at now.
func (m *DLMM) GetClaimableLMReward(pool *Pool, position *PositionState, now int64, lower, upper *lbclmm.BinArray) (ClaimableReward, error) {
	if pool == nil || pool.LbPair == nil {
		return ClaimableReward{}, ErrPoolRequired
	}
	reward, err := dlmmmath.GetClaimableLMReward(pool.LbPair, position, PositionBinArrays{Lower: lower, Upper: upper}, now)
	if err != nil {
		return ClaimableReward{}, err
	}
	m.logger.Debug("claimable lm reward",
		zap.Stringer("position", position.Address),
		zap.Stringer("reward0", reward.Rewards[0]),
		zap.Stringer("reward1", reward.Rewards[1]),
	)
	return reward, nil
}

// GetPositionInfo reports a position bin by bin: reserves owned, claimable
// fees and claimable rewards at now.
func (m *DLMM) GetPositionInfo(pool *Pool, position *PositionState, now int64, lower, upper *lbclmm.BinArray) (PositionData, error) {
	if pool == nil || pool.LbPair == nil {
		return PositionData{}, ErrPoolRequired
	}
	data, err := dlmmmath.ProcessPosition(pool.LbPair, position, PositionBinArrays{Lower: lower, Upper: upper}, now)
	if err != nil {
		return PositionData{}, err
	}
	m.logger.Debug("position info",
		zap.Stringer("position", position.Address),
		zap.String("version", position.Version.String()),
		zap.Int("bins", len(data.PositionBinData)),
	)
	return data, nil
}
