package math

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// PositionBinArrays holds the bin arrays covering a position. Upper may be
// nil or equal to Lower when the position fits in one array.
type PositionBinArrays struct {
	Lower *lbclmm.BinArray
	Upper *lbclmm.BinArray
}

func (b PositionBinArrays) covering(binId int32) (*lbclmm.BinArray, error) {
	idx := BinIdToBinArrayIndex(binId)
	if b.Lower != nil && b.Lower.Index == idx {
		return b.Lower, nil
	}
	if b.Upper != nil && b.Upper.Index == idx {
		return b.Upper, nil
	}
	return nil, fmt.Errorf("bin %d needs bin array %d: %w", binId, idx, shared.ErrMissingBinArray)
}

// ValidatePosition checks the bin range of a position record.
func ValidatePosition(position *shared.PositionState) error {
	if position == nil {
		return fmt.Errorf("nil position: %w", shared.ErrInvalidPosition)
	}
	if position.LowerBinId > position.UpperBinId {
		return fmt.Errorf("lower bin %d above upper bin %d: %w", position.LowerBinId, position.UpperBinId, shared.ErrInvalidPosition)
	}
	if width := int64(position.UpperBinId) - int64(position.LowerBinId) + 1; width > shared.MaxBinPerPosition {
		return fmt.Errorf("width %d exceeds %d bins: %w", width, shared.MaxBinPerPosition, shared.ErrInvalidPosition)
	}
	if BinIdToBinArrayIndex(position.UpperBinId)-BinIdToBinArrayIndex(position.LowerBinId) > 1 {
		return fmt.Errorf("position spans more than two bin arrays: %w", shared.ErrInvalidPosition)
	}
	return nil
}

func checkBinArrays(position *shared.PositionState, arrays PositionBinArrays) error {
	for _, ba := range []*lbclmm.BinArray{arrays.Lower, arrays.Upper} {
		if ba == nil || ba.LbPair.IsZero() || position.LbPair.IsZero() {
			continue
		}
		if !ba.LbPair.Equals(position.LbPair) {
			return fmt.Errorf("bin array %d: %w", ba.Index, shared.ErrPairMismatch)
		}
	}
	return nil
}

// positionBin is one bin of a position together with the record that holds it.
type positionBin struct {
	id       int32
	offset   int
	binArray *lbclmm.BinArray
	bin      *lbclmm.Bin
}

func forEachPositionBin(position *shared.PositionState, arrays PositionBinArrays, fn func(pb positionBin) error) error {
	if err := ValidatePosition(position); err != nil {
		return err
	}
	if err := checkBinArrays(position, arrays); err != nil {
		return err
	}
	for binId := position.LowerBinId; binId <= position.UpperBinId; binId++ {
		ba, err := arrays.covering(binId)
		if err != nil {
			return err
		}
		bin, err := GetBinFromBinArray(binId, ba)
		if err != nil {
			return err
		}
		if err := fn(positionBin{id: binId, offset: int(binId - position.LowerBinId), binArray: ba, bin: bin}); err != nil {
			return err
		}
	}
	return nil
}

// accrue returns floor((accumulator - checkpoint) * share >> 64). A checkpoint
// ahead of the accumulator accrues nothing.
func accrue(accumulator, checkpoint, share *uint256.Int) (*uint256.Int, error) {
	if accumulator.Lt(checkpoint) {
		return new(uint256.Int), nil
	}
	delta := new(uint256.Int).Sub(accumulator, checkpoint)
	out, overflow := new(uint256.Int).MulOverflow(delta, share)
	if overflow {
		return nil, shared.ErrMathOverflow
	}
	out.Rsh(out, shared.ScaleOffset)
	if !out.IsUint64() {
		return nil, shared.ErrMathOverflow
	}
	return out, nil
}

func binSwapFee(position *shared.PositionState, pb positionBin) (*uint256.Int, *uint256.Int, error) {
	share := position.Version.AccrualShare(position.Share(pb.id))
	info := position.FeeInfos[pb.offset]

	feeX, err := accrue(shared.U256FromRecord(pb.bin.FeeAmountXPerTokenStored), shared.U256FromRecord(info.FeeXPerTokenComplete), share)
	if err != nil {
		return nil, nil, fmt.Errorf("fee x at bin %d: %w", pb.id, err)
	}
	feeY, err := accrue(shared.U256FromRecord(pb.bin.FeeAmountYPerTokenStored), shared.U256FromRecord(info.FeeYPerTokenComplete), share)
	if err != nil {
		return nil, nil, fmt.Errorf("fee y at bin %d: %w", pb.id, err)
	}
	feeX.Add(feeX, uint256.NewInt(info.FeeXPending))
	feeY.Add(feeY, uint256.NewInt(info.FeeYPending))
	return feeX, feeY, nil
}

// rewardPerTokenStored returns the bin's reward accumulator for slot,
// extrapolated to now when the bin is the active one.
func rewardPerTokenStored(pair *lbclmm.LbPair, pb positionBin, slot int, now int64) *uint256.Int {
	acc := shared.U256FromRecord(pb.bin.RewardPerTokenStored[slot])
	if pb.id != pair.ActiveId {
		return acc
	}
	supply := shared.U256FromRecord(pb.bin.LiquiditySupply)
	if pb.binArray.Version != 0 {
		supply.Rsh(supply, shared.ScaleOffset)
	}
	if supply.IsZero() {
		return acc
	}
	info := pair.RewardInfos[slot]
	var current uint64
	if now > 0 {
		current = uint64(now)
	}
	if current > info.RewardDurationEnd {
		current = info.RewardDurationEnd
	}
	if current <= info.LastUpdateTime {
		return acc
	}
	delta := new(uint256.Int).Mul(shared.U256FromRecord(info.RewardRate), uint256.NewInt(current-info.LastUpdateTime))
	delta.Div(delta, supply)
	return acc.Add(acc, delta)
}

func binRewards(pair *lbclmm.LbPair, position *shared.PositionState, pb positionBin, now int64) ([lbclmm.NumRewards]*uint256.Int, error) {
	var out [lbclmm.NumRewards]*uint256.Int
	share := position.Version.AccrualShare(position.Share(pb.id))
	info := position.RewardInfos[pb.offset]
	for slot := range out {
		out[slot] = new(uint256.Int)
		if !pair.RewardInfos[slot].Initialized() {
			continue
		}
		reward, err := accrue(rewardPerTokenStored(pair, pb, slot, now), shared.U256FromRecord(info.RewardPerTokenCompletes[slot]), share)
		if err != nil {
			return out, fmt.Errorf("reward %d at bin %d: %w", slot, pb.id, err)
		}
		out[slot] = reward.Add(reward, uint256.NewInt(info.RewardPendings[slot]))
	}
	return out, nil
}

// binAmounts returns the position's share of the bin reserves.
func binAmounts(position *shared.PositionState, pb positionBin) (*big.Int, *big.Int) {
	supply := shared.U256FromRecord(pb.bin.LiquiditySupply)
	if supply.IsZero() {
		return big.NewInt(0), big.NewInt(0)
	}
	share := position.Version.ReserveShare(position.Share(pb.id), pb.binArray.Version).ToBig()
	supplyBig := supply.ToBig()
	x := new(big.Int).Mul(share, new(big.Int).SetUint64(pb.bin.AmountX))
	y := new(big.Int).Mul(share, new(big.Int).SetUint64(pb.bin.AmountY))
	return x.Quo(x, supplyBig), y.Quo(y, supplyBig)
}

// GetClaimableSwapFee sums the unclaimed swap fees of a position.
func GetClaimableSwapFee(position *shared.PositionState, arrays PositionBinArrays) (shared.ClaimableFee, error) {
	feeX, feeY := new(uint256.Int), new(uint256.Int)
	err := forEachPositionBin(position, arrays, func(pb positionBin) error {
		x, y, err := binSwapFee(position, pb)
		if err != nil {
			return err
		}
		feeX.Add(feeX, x)
		feeY.Add(feeY, y)
		return nil
	})
	if err != nil {
		return shared.ClaimableFee{}, err
	}
	return shared.ClaimableFee{FeeX: feeX.ToBig(), FeeY: feeY.ToBig()}, nil
}

// GetClaimableLMReward sums the unclaimed liquidity mining rewards of a
// position at now.
func GetClaimableLMReward(pair *lbclmm.LbPair, position *shared.PositionState, arrays PositionBinArrays, now int64) (shared.ClaimableReward, error) {
	var totals [lbclmm.NumRewards]*uint256.Int
	for i := range totals {
		totals[i] = new(uint256.Int)
	}
	err := forEachPositionBin(position, arrays, func(pb positionBin) error {
		rewards, err := binRewards(pair, position, pb, now)
		if err != nil {
			return err
		}
		for i := range totals {
			totals[i].Add(totals[i], rewards[i])
		}
		return nil
	})
	if err != nil {
		return shared.ClaimableReward{}, err
	}
	var out shared.ClaimableReward
	for i := range totals {
		out.Rewards[i] = totals[i].ToBig()
	}
	return out, nil
}

// GetPositionAmounts sums the position's share of every covered bin.
func GetPositionAmounts(position *shared.PositionState, arrays PositionBinArrays) (*big.Int, *big.Int, error) {
	totalX, totalY := big.NewInt(0), big.NewInt(0)
	err := forEachPositionBin(position, arrays, func(pb positionBin) error {
		x, y := binAmounts(position, pb)
		totalX.Add(totalX, x)
		totalY.Add(totalY, y)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return totalX, totalY, nil
}

// ProcessPosition builds the per-bin report of a position: reserves owned,
// claimable fees and claimable rewards.
func ProcessPosition(pair *lbclmm.LbPair, position *shared.PositionState, arrays PositionBinArrays, now int64) (shared.PositionData, error) {
	if err := ValidatePosition(position); err != nil {
		return shared.PositionData{}, err
	}
	data := shared.PositionData{
		LowerBinId:       position.LowerBinId,
		UpperBinId:       position.UpperBinId,
		TotalXAmount:     big.NewInt(0),
		TotalYAmount:     big.NewInt(0),
		FeeX:             big.NewInt(0),
		FeeY:             big.NewInt(0),
		LastUpdatedAt:    position.LastUpdatedAt,
		TotalClaimedFeeX: new(big.Int).SetUint64(position.TotalClaimedFeeX),
		TotalClaimedFeeY: new(big.Int).SetUint64(position.TotalClaimedFeeY),
	}
	for i := range data.Rewards {
		data.Rewards[i] = big.NewInt(0)
	}
	err := forEachPositionBin(position, arrays, func(pb positionBin) error {
		x, y := binAmounts(position, pb)
		feeX, feeY, err := binSwapFee(position, pb)
		if err != nil {
			return err
		}
		rewards, err := binRewards(pair, position, pb, now)
		if err != nil {
			return err
		}
		price, err := GetBinPrice(pb.bin, pb.id, pair.BinStep)
		if err != nil {
			return err
		}
		binData := shared.PositionBinData{
			BinId:              pb.id,
			Price:              Q64ToDecimal(price, -1),
			BinXAmount:         new(big.Int).SetUint64(pb.bin.AmountX),
			BinYAmount:         new(big.Int).SetUint64(pb.bin.AmountY),
			BinLiquidity:       shared.U256FromRecord(pb.bin.LiquiditySupply).ToBig(),
			PositionLiquidity:  position.Share(pb.id).ToBig(),
			PositionXAmount:    x,
			PositionYAmount:    y,
			PositionFeeXAmount: feeX.ToBig(),
			PositionFeeYAmount: feeY.ToBig(),
		}
		for i, r := range rewards {
			binData.PositionRewardAmounts[i] = r.ToBig()
			data.Rewards[i].Add(data.Rewards[i], binData.PositionRewardAmounts[i])
		}
		data.TotalXAmount.Add(data.TotalXAmount, x)
		data.TotalYAmount.Add(data.TotalYAmount, y)
		data.FeeX.Add(data.FeeX, binData.PositionFeeXAmount)
		data.FeeY.Add(data.FeeY, binData.PositionFeeYAmount)
		data.PositionBinData = append(data.PositionBinData, binData)
		return nil
	})
	if err != nil {
		return shared.PositionData{}, err
	}
	return data, nil
}
