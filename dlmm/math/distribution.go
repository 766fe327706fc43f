package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
)

// PlanDistribution splits totalX and totalY across bins by weight. Each bin
// gets floor(total * weight / sumOfWeights); the rounding remainder of X goes
// to the lowest bin carrying X weight and that of Y to the highest bin
// carrying Y weight, so allocations sum exactly to the totals.
func PlanDistribution(totalX, totalY *big.Int, weights []shared.BinWeight, binStep uint16) ([]shared.BinAllocation, error) {
	if len(weights) == 0 {
		return nil, shared.ErrNoLiquidityToAdd
	}
	if binStep == 0 {
		return nil, shared.ErrInvalidBinStep
	}
	if totalX == nil {
		totalX = big.NewInt(0)
	}
	if totalY == nil {
		totalY = big.NewInt(0)
	}
	if totalX.Sign() < 0 || totalY.Sign() < 0 {
		return nil, shared.ErrInvalidAmount
	}
	if totalX.Sign() == 0 && totalY.Sign() == 0 {
		return nil, shared.ErrNoLiquidityToAdd
	}

	sumX, sumY := new(big.Int), new(big.Int)
	xBin, yBin := -1, -1
	for i, w := range weights {
		if i > 0 && int64(w.BinId) != int64(weights[i-1].BinId)+1 {
			return nil, fmt.Errorf("bin %d follows %d: %w", w.BinId, weights[i-1].BinId, shared.ErrDiscontinuousRange)
		}
		sumX.Add(sumX, new(big.Int).SetUint64(w.XBps))
		sumY.Add(sumY, new(big.Int).SetUint64(w.YBps))
		if w.XBps > 0 && xBin < 0 {
			xBin = i
		}
		if w.YBps > 0 {
			yBin = i
		}
	}
	if (totalX.Sign() > 0 && sumX.Sign() == 0) || (totalY.Sign() > 0 && sumY.Sign() == 0) {
		return nil, shared.ErrNoLiquidityToAdd
	}

	out := make([]shared.BinAllocation, len(weights))
	allocatedX, allocatedY := new(big.Int), new(big.Int)
	for i, w := range weights {
		amountX := big.NewInt(0)
		if sumX.Sign() > 0 {
			amountX = MulDiv(totalX, new(big.Int).SetUint64(w.XBps), sumX, shared.RoundingDown)
		}
		amountY := big.NewInt(0)
		if sumY.Sign() > 0 {
			amountY = MulDiv(totalY, new(big.Int).SetUint64(w.YBps), sumY, shared.RoundingDown)
		}
		allocatedX.Add(allocatedX, amountX)
		allocatedY.Add(allocatedY, amountY)
		out[i] = shared.BinAllocation{
			BinId:   w.BinId,
			Price:   GetPriceOfBinByBinId(w.BinId, binStep),
			AmountX: amountX,
			AmountY: amountY,
		}
	}
	if xBin >= 0 {
		out[xBin].AmountX.Add(out[xBin].AmountX, new(big.Int).Sub(totalX, allocatedX))
	}
	if yBin >= 0 {
		out[yBin].AmountY.Add(out[yBin].AmountY, new(big.Int).Sub(totalY, allocatedY))
	}
	return out, nil
}

// ToWeightDistribution generates per-bin basis point weights for a strategy
// over [minBinId, maxBinId]. Bins below activeId take Y, bins above take X
// and the active bin takes both. Each side present sums to BasisPointMax.
func ToWeightDistribution(strategy shared.StrategyType, activeId, minBinId, maxBinId int32) ([]shared.BinWeight, error) {
	if minBinId > maxBinId {
		return nil, shared.ErrInvalidBinRange
	}
	var shape func(distance, maxDistance int64) uint64
	switch strategy {
	case shared.StrategyTypeSpot:
		shape = func(int64, int64) uint64 { return 1 }
	case shared.StrategyTypeCurve:
		shape = func(distance, maxDistance int64) uint64 { return uint64(maxDistance - distance + 1) }
	case shared.StrategyTypeBidAsk:
		shape = func(distance, _ int64) uint64 { return uint64(distance + 1) }
	default:
		return nil, fmt.Errorf("%s: %w", strategy, shared.ErrInvalidStrategy)
	}

	out := make([]shared.BinWeight, 0, int64(maxBinId)-int64(minBinId)+1)
	for id := minBinId; id <= maxBinId; id++ {
		out = append(out, shared.BinWeight{BinId: id})
	}
	yIdx, xIdx := sideIndexes(out, activeId)
	assignSide(out, yIdx, activeId, shape, func(w *shared.BinWeight, bps uint64) { w.YBps = bps })
	assignSide(out, xIdx, activeId, shape, func(w *shared.BinWeight, bps uint64) { w.XBps = bps })
	return out, nil
}

// CalculateSpotDistribution spreads liquidity uniformly around activeId.
func CalculateSpotDistribution(activeId, minBinId, maxBinId int32) ([]shared.BinWeight, error) {
	return ToWeightDistribution(shared.StrategyTypeSpot, activeId, minBinId, maxBinId)
}

// CalculateCurveDistribution concentrates liquidity at activeId and tapers
// linearly toward the edges.
func CalculateCurveDistribution(activeId, minBinId, maxBinId int32) ([]shared.BinWeight, error) {
	return ToWeightDistribution(shared.StrategyTypeCurve, activeId, minBinId, maxBinId)
}

// CalculateBidAskDistribution grows liquidity linearly away from activeId.
func CalculateBidAskDistribution(activeId, minBinId, maxBinId int32) ([]shared.BinWeight, error) {
	return ToWeightDistribution(shared.StrategyTypeBidAsk, activeId, minBinId, maxBinId)
}

func sideIndexes(weights []shared.BinWeight, activeId int32) (y, x []int) {
	for i, w := range weights {
		if w.BinId <= activeId {
			y = append(y, i)
		}
		if w.BinId >= activeId {
			x = append(x, i)
		}
	}
	return y, x
}

// assignSide splits BasisPointMax over one side. The active bin counts for
// half a bin; the remainder goes to the active bin, or to the bin farthest
// from it when the active bin is outside the range.
func assignSide(weights []shared.BinWeight, idx []int, activeId int32, shape func(distance, maxDistance int64) uint64, set func(*shared.BinWeight, uint64)) {
	if len(idx) == 0 {
		return
	}
	distance := func(i int) int64 {
		d := int64(weights[i].BinId) - int64(activeId)
		if d < 0 {
			d = -d
		}
		return d
	}
	var maxDistance int64
	for _, i := range idx {
		if d := distance(i); d > maxDistance {
			maxDistance = d
		}
	}
	raw := make([]uint64, len(idx))
	var sum uint64
	for k, i := range idx {
		w := 2 * shape(distance(i), maxDistance)
		if weights[i].BinId == activeId {
			w /= 2
		}
		raw[k] = w
		sum += w
	}
	target := 0
	for k, i := range idx {
		if weights[i].BinId == activeId {
			target = k
			break
		}
		if distance(i) > distance(idx[target]) {
			target = k
		}
	}
	bps := make([]uint64, len(idx))
	var assigned uint64
	for k := range idx {
		bps[k] = raw[k] * shared.BasisPointMax / sum
		assigned += bps[k]
	}
	bps[target] += shared.BasisPointMax - assigned
	for k, i := range idx {
		set(&weights[i], bps[k])
	}
}
