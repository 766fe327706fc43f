package math

import (
	"math/big"
	"testing"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

func q64(v uint64) binary.Uint128 {
	return binary.Uint128{Hi: v}
}

// positionFixture is a pair at bin 100 with a position over 95..105 holding
// 1000 of the 5000 liquidity in bin 100.
type positionFixture struct {
	pair     *lbclmm.LbPair
	binArray *lbclmm.BinArray
	v1       *lbclmm.Position
}

func newPositionFixture() positionFixture {
	pairKey := solanago.NewWallet().PublicKey()
	pair := testPair(100)

	ba := &lbclmm.BinArray{Index: 1, LbPair: pairKey}
	active := &ba.Bins[100-70]
	active.AmountX = 2_000
	active.AmountY = 500
	active.LiquiditySupply = binary.Uint128{Lo: 5_000}
	active.FeeAmountXPerTokenStored = q64(3)
	active.FeeAmountYPerTokenStored = q64(1)

	position := &lbclmm.Position{
		LbPair:     pairKey,
		Owner:      solanago.NewWallet().PublicKey(),
		LowerBinId: 95,
		UpperBinId: 105,
	}
	position.LiquidityShares[5] = 1_000
	position.FeeInfos[5] = lbclmm.FeeInfo{
		FeeXPerTokenComplete: q64(1),
		FeeXPending:          7,
	}
	return positionFixture{pair: pair, binArray: ba, v1: position}
}

func (f positionFixture) arrays() PositionBinArrays {
	return PositionBinArrays{Lower: f.binArray, Upper: f.binArray}
}

func (f positionFixture) stateV1() *shared.PositionState {
	return shared.NewPositionStateV1(solanago.PublicKey{}, f.v1)
}

func (f positionFixture) stateV2() *shared.PositionState {
	v2 := &lbclmm.PositionV2{
		LbPair:      f.v1.LbPair,
		Owner:       f.v1.Owner,
		LowerBinId:  f.v1.LowerBinId,
		UpperBinId:  f.v1.UpperBinId,
		FeeInfos:    f.v1.FeeInfos,
		RewardInfos: f.v1.RewardInfos,
	}
	for i, s := range f.v1.LiquidityShares {
		v2.LiquidityShares[i] = q64(s)
	}
	return shared.NewPositionStateV2(solanago.PublicKey{}, v2)
}

func TestGetPositionAmounts(t *testing.T) {
	f := newPositionFixture()

	x, y, err := GetPositionAmounts(f.stateV1(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 400, x)
	assertBig(t, 100, y)

	x, y, err = GetPositionAmounts(f.stateV2(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 400, x)
	assertBig(t, 100, y)

	f.binArray.Version = 1
	f.binArray.Bins[30].LiquiditySupply = q64(5_000)
	x, _, err = GetPositionAmounts(f.stateV1(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 400, x)
	x, _, err = GetPositionAmounts(f.stateV2(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 400, x)
}

func TestGetClaimableSwapFee(t *testing.T) {
	f := newPositionFixture()

	for _, state := range []*shared.PositionState{f.stateV1(), f.stateV2()} {
		fee, err := GetClaimableSwapFee(state, f.arrays())
		require.NoError(t, err, state.Version.String())
		assertBig(t, 2_007, fee.FeeX, state.Version.String())
		assertBig(t, 1_000, fee.FeeY, state.Version.String())
	}
}

func TestGetClaimableSwapFeeCheckpointAhead(t *testing.T) {
	f := newPositionFixture()
	f.v1.FeeInfos[5].FeeXPerTokenComplete = q64(9)

	fee, err := GetClaimableSwapFee(f.stateV1(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 7, fee.FeeX)
}

func TestGetClaimableSwapFeePendingOnly(t *testing.T) {
	f := newPositionFixture()
	f.v1.LiquidityShares[5] = 0
	f.v1.FeeInfos[2].FeeYPending = 42

	fee, err := GetClaimableSwapFee(f.stateV1(), f.arrays())
	require.NoError(t, err)
	assertBig(t, 7, fee.FeeX)
	assertBig(t, 42, fee.FeeY)
}

func TestGetClaimableSwapFeeOverflow(t *testing.T) {
	f := newPositionFixture()
	f.v1.LiquidityShares[5] = ^uint64(0)
	f.binArray.Bins[30].FeeAmountXPerTokenStored = binary.Uint128{Lo: ^uint64(0), Hi: ^uint64(0)}
	f.v1.FeeInfos[5].FeeXPerTokenComplete = binary.Uint128{}

	_, err := GetClaimableSwapFee(f.stateV1(), f.arrays())
	assert.ErrorIs(t, err, shared.ErrMathOverflow)
}

func rewardFixture() positionFixture {
	f := newPositionFixture()
	f.pair.RewardInfos[0] = lbclmm.RewardInfo{
		Mint:              solanago.NewWallet().PublicKey(),
		RewardDurationEnd: 1_000,
		RewardRate:        q64(50),
		LastUpdateTime:    100,
	}
	// Bin 101 is inactive and already carries one token per unit.
	f.binArray.Bins[31].LiquiditySupply = binary.Uint128{Lo: 100}
	f.binArray.Bins[31].RewardPerTokenStored[0] = q64(1)
	f.binArray.Bins[31].RewardPerTokenStored[1] = q64(1)
	f.v1.LiquidityShares[6] = 10
	return f
}

func TestGetClaimableLMReward(t *testing.T) {
	f := rewardFixture()

	tests := []struct {
		name string
		now  int64
		want int64
	}{
		{"before last update", 50, 10},
		{"inside duration", 200, 1_010},
		{"past duration end", 5_000, 9_010},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, state := range []*shared.PositionState{f.stateV1(), f.stateV2()} {
				reward, err := GetClaimableLMReward(f.pair, state, f.arrays(), tt.now)
				require.NoError(t, err)
				assertBig(t, tt.want, reward.Rewards[0], state.Version.String())
				assertBig(t, 0, reward.Rewards[1], "uninitialized slot")
			}
		})
	}
}

func TestGetClaimableLMRewardScaledSupply(t *testing.T) {
	f := rewardFixture()
	f.binArray.Version = 1
	f.binArray.Bins[30].LiquiditySupply = q64(5_000)
	f.binArray.Bins[31].LiquiditySupply = q64(100)

	reward, err := GetClaimableLMReward(f.pair, f.stateV2(), f.arrays(), 200)
	require.NoError(t, err)
	assertBig(t, 1_010, reward.Rewards[0])
}

func TestProcessPosition(t *testing.T) {
	f := rewardFixture()

	data, err := ProcessPosition(f.pair, f.stateV1(), f.arrays(), 200)
	require.NoError(t, err)
	assert.Equal(t, int32(95), data.LowerBinId)
	assert.Equal(t, int32(105), data.UpperBinId)
	require.Len(t, data.PositionBinData, 11)
	assertBig(t, 400, data.TotalXAmount)
	assertBig(t, 100, data.TotalYAmount)
	assertBig(t, 2_007, data.FeeX)
	assertBig(t, 1_010, data.Rewards[0])
	assertBig(t, 0, data.Rewards[1])

	active := data.PositionBinData[5]
	assert.Equal(t, int32(100), active.BinId)
	assertBig(t, 1_000, active.PositionLiquidity)
	assertBig(t, 5_000, active.BinLiquidity)
	assertBig(t, 400, active.PositionXAmount)
	assert.True(t, active.Price.Sub(GetPriceOfBinByBinId(100, 10)).Abs().LessThan(GetPriceOfBinByBinId(0, 10).Shift(-12)))

	sumX := big.NewInt(0)
	for _, b := range data.PositionBinData {
		sumX.Add(sumX, b.PositionXAmount)
	}
	assert.Equal(t, data.TotalXAmount.String(), sumX.String())
}

func TestPositionValidation(t *testing.T) {
	f := newPositionFixture()

	tests := []struct {
		name         string
		lower, upper int32
		arrays       PositionBinArrays
		err          error
	}{
		{"inverted range", 105, 95, f.arrays(), shared.ErrInvalidPosition},
		{"too wide", 70, 140, f.arrays(), shared.ErrInvalidPosition},
		{"missing upper array", 60, 75, PositionBinArrays{Lower: f.binArray}, shared.ErrMissingBinArray},
		{"no arrays", 95, 105, PositionBinArrays{}, shared.ErrMissingBinArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := f.stateV1()
			state.LowerBinId, state.UpperBinId = tt.lower, tt.upper
			_, err := GetClaimableSwapFee(state, tt.arrays)
			assert.ErrorIs(t, err, tt.err)
			_, err = ProcessPosition(f.pair, state, tt.arrays, 0)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := GetClaimableSwapFee(nil, f.arrays())
	assert.ErrorIs(t, err, shared.ErrInvalidPosition)
}

func TestPositionPairMismatch(t *testing.T) {
	f := newPositionFixture()
	f.binArray.LbPair = solanago.NewWallet().PublicKey()

	_, _, err := GetPositionAmounts(f.stateV1(), f.arrays())
	assert.ErrorIs(t, err, shared.ErrPairMismatch)
}
