package lbclmm

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

const (
	MaxBinPerArray       = 70
	NumRewards           = 2
	BitmapWords          = 16
	ExtensionBitmapSize  = 12
	ExtensionBitmapWords = 8
)

type StaticParameters struct {
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	MinBinId                 int32
	MaxBinId                 int32
	ProtocolShare            uint16
	BaseFeePowerFactor       uint8
	Padding                  [5]uint8
}

type VariableParameters struct {
	VolatilityAccumulator uint32
	VolatilityReference   uint32
	IndexReference        int32
	Padding               [4]uint8
	LastUpdateTimestamp   int64
	Padding1              [8]uint8
}

type ProtocolFee struct {
	AmountX uint64
	AmountY uint64
}

type RewardInfo struct {
	Mint                                      solanago.PublicKey
	Vault                                     solanago.PublicKey
	Funder                                    solanago.PublicKey
	RewardDuration                            uint64
	RewardDurationEnd                         uint64
	RewardRate                                binary.Uint128
	LastUpdateTime                            uint64
	CumulativeSecondsWithEmptyLiquidityReward uint64
}

// Initialized reports whether the reward slot has been set up.
func (r RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

type LbPair struct {
	Parameters               StaticParameters
	VParameters              VariableParameters
	BumpSeed                 [1]uint8
	BinStepSeed              [2]uint8
	PairType                 uint8
	ActiveId                 int32
	BinStep                  uint16
	Status                   uint8
	RequireBaseFactorSeed    uint8
	BaseFactorSeed           [2]uint8
	ActivationType           uint8
	CreatorPoolOnOffControl  uint8
	TokenXMint               solanago.PublicKey
	TokenYMint               solanago.PublicKey
	ReserveX                 solanago.PublicKey
	ReserveY                 solanago.PublicKey
	ProtocolFee              ProtocolFee
	Padding1                 [32]uint8
	RewardInfos              [NumRewards]RewardInfo
	Oracle                   solanago.PublicKey
	BinArrayBitmap           [BitmapWords]uint64
	LastUpdatedAt            int64
	Padding2                 [32]uint8
	PreActivationSwapAddress solanago.PublicKey
	BaseKey                  solanago.PublicKey
	ActivationPoint          uint64
	PreActivationDuration    uint64
	Padding3                 [8]uint8
	Padding4                 uint64
	Creator                  solanago.PublicKey
	TokenMintXProgramFlag    uint8
	TokenMintYProgramFlag    uint8
	Reserved                 [22]uint8
}

type Bin struct {
	AmountX                  uint64
	AmountY                  uint64
	Price                    binary.Uint128
	LiquiditySupply          binary.Uint128
	RewardPerTokenStored     [NumRewards]binary.Uint128
	FeeAmountXPerTokenStored binary.Uint128
	FeeAmountYPerTokenStored binary.Uint128
	AmountXIn                binary.Uint128
	AmountYIn                binary.Uint128
}

// BinArray holds MaxBinPerArray consecutive bins. Version 0 arrays store
// liquidity supply in raw units, version 1 arrays store it shifted left by 64.
type BinArray struct {
	Index   int64
	Version uint8
	Padding [7]uint8
	LbPair  solanago.PublicKey
	Bins    [MaxBinPerArray]Bin
}

type BinArrayBitmapExtension struct {
	LbPair                 solanago.PublicKey
	PositiveBinArrayBitmap [ExtensionBitmapSize][ExtensionBitmapWords]uint64
	NegativeBinArrayBitmap [ExtensionBitmapSize][ExtensionBitmapWords]uint64
}

type UserRewardInfo struct {
	RewardPerTokenCompletes [NumRewards]binary.Uint128
	RewardPendings          [NumRewards]uint64
}

type FeeInfo struct {
	FeeXPerTokenComplete binary.Uint128
	FeeYPerTokenComplete binary.Uint128
	FeeXPending          uint64
	FeeYPending          uint64
}

// Position is the legacy position layout with raw u64 liquidity shares.
type Position struct {
	LbPair                 solanago.PublicKey
	Owner                  solanago.PublicKey
	LiquidityShares        [MaxBinPerArray]uint64
	RewardInfos            [MaxBinPerArray]UserRewardInfo
	FeeInfos               [MaxBinPerArray]FeeInfo
	LowerBinId             int32
	UpperBinId             int32
	LastUpdatedAt          int64
	TotalClaimedFeeXAmount uint64
	TotalClaimedFeeYAmount uint64
	TotalClaimedRewards    [NumRewards]uint64
	Reserved               [160]uint8
}

// PositionV2 stores liquidity shares scaled left by 64.
type PositionV2 struct {
	LbPair                 solanago.PublicKey
	Owner                  solanago.PublicKey
	LiquidityShares        [MaxBinPerArray]binary.Uint128
	RewardInfos            [MaxBinPerArray]UserRewardInfo
	FeeInfos               [MaxBinPerArray]FeeInfo
	LowerBinId             int32
	UpperBinId             int32
	LastUpdatedAt          int64
	TotalClaimedFeeXAmount uint64
	TotalClaimedFeeYAmount uint64
	TotalClaimedRewards    [NumRewards]uint64
	Operator               solanago.PublicKey
	LockReleasePoint       uint64
	Padding0               uint8
	FeeOwner               solanago.PublicKey
	Reserved               [87]uint8
}
