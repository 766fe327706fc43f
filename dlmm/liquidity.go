package dlmm

import (
	"math/big"

	"go.uber.org/zap"

	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
)

// PlanDistribution splits totalX and totalY across contiguous bins by weight.
// The allocations sum exactly to the totals.
func (m *DLMM) PlanDistribution(totalX, totalY *big.Int, weights []BinWeight, binStep uint16) ([]BinAllocation, error) {
	return dlmmmath.PlanDistribution(totalX, totalY, weights, binStep)
}

type PlanStrategyParams struct {
	Pool     *Pool
	Strategy StrategyType
	MinBinId int32
	MaxBinId int32
	TotalX   *big.Int
	TotalY   *big.Int
}

// PlanStrategy builds the weights of a strategy around the pool's active bin
// and splits the totals with them.
//
// Example:
//
// allocations, _ := d.PlanStrategy(dlmm.PlanStrategyParams{Pool: pool, Strategy: dlmm.StrategyTypeSpot, MinBinId: pool.ActiveId - 10, MaxBinId: pool.ActiveId + 10, TotalX: x, TotalY: y})
func (m *DLMM) PlanStrategy(params PlanStrategyParams) ([]BinAllocation, error) {
	if params.Pool == nil || params.Pool.LbPair == nil {
		return nil, ErrPoolRequired
	}
	weights, err := dlmmmath.ToWeightDistribution(params.Strategy, params.Pool.ActiveId, params.MinBinId, params.MaxBinId)
	if err != nil {
		return nil, err
	}
	allocations, err := dlmmmath.PlanDistribution(params.TotalX, params.TotalY, weights, params.Pool.BinStep)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("plan strategy",
		zap.Stringer("strategy", params.Strategy),
		zap.Int32("activeId", params.Pool.ActiveId),
		zap.Int("bins", len(allocations)),
	)
	return allocations, nil
}
