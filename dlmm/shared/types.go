package shared

import (
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// Enums and common types shared by math/pool_fees and dlmm.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type StrategyType uint8

const (
	StrategyTypeSpot   StrategyType = 0
	StrategyTypeCurve  StrategyType = 1
	StrategyTypeBidAsk StrategyType = 2
)

func (s StrategyType) String() string {
	switch s {
	case StrategyTypeSpot:
		return "spot"
	case StrategyTypeCurve:
		return "curve"
	case StrategyTypeBidAsk:
		return "bidask"
	default:
		return "unknown"
	}
}

// BinArrayAccount pairs a decoded bin array with its account address.
type BinArrayAccount struct {
	PublicKey solanago.PublicKey
	Account   *lbclmm.BinArray
}

// BinSwapResult is the outcome of trading inside a single bin.
type BinSwapResult struct {
	AmountIn    *big.Int
	AmountOut   *big.Int
	Fee         *big.Int
	ProtocolFee *big.Int
}

type SwapQuote struct {
	ConsumedInAmount *big.Int
	OutAmount        *big.Int
	Fee              *big.Int
	ProtocolFee      *big.Int
	MinOutAmount     *big.Int
	PriceImpact      decimal.Decimal
	StartBinId       int32
	EndBinId         int32
	EndPrice         decimal.Decimal
	BinArraysPubkey  []solanago.PublicKey
	BinArrayIndexes  []int64
}

type SwapQuoteExactOut struct {
	InAmount        *big.Int
	OutAmount       *big.Int
	Fee             *big.Int
	ProtocolFee     *big.Int
	MaxInAmount     *big.Int
	PriceImpact     decimal.Decimal
	StartBinId      int32
	EndBinId        int32
	BinArraysPubkey []solanago.PublicKey
	BinArrayIndexes []int64
}

type ClaimableFee struct {
	FeeX *big.Int
	FeeY *big.Int
}

type ClaimableReward struct {
	Rewards [lbclmm.NumRewards]*big.Int
}

type PositionBinData struct {
	BinId                 int32
	Price                 decimal.Decimal
	BinXAmount            *big.Int
	BinYAmount            *big.Int
	BinLiquidity          *big.Int
	PositionLiquidity     *big.Int
	PositionXAmount       *big.Int
	PositionYAmount       *big.Int
	PositionFeeXAmount    *big.Int
	PositionFeeYAmount    *big.Int
	PositionRewardAmounts [lbclmm.NumRewards]*big.Int
}

type PositionData struct {
	LowerBinId       int32
	UpperBinId       int32
	TotalXAmount     *big.Int
	TotalYAmount     *big.Int
	FeeX             *big.Int
	FeeY             *big.Int
	Rewards          [lbclmm.NumRewards]*big.Int
	PositionBinData  []PositionBinData
	LastUpdatedAt    int64
	TotalClaimedFeeX *big.Int
	TotalClaimedFeeY *big.Int
}

// BinWeight is one bin's share of each asset, in basis points of the total.
type BinWeight struct {
	BinId int32
	XBps  uint64
	YBps  uint64
}

type BinAllocation struct {
	BinId   int32
	Price   decimal.Decimal
	AmountX *big.Int
	AmountY *big.Int
}

type FeeInfo struct {
	BaseFeeRatePercentage decimal.Decimal
	MaxFeeRatePercentage  decimal.Decimal
	ProtocolFeePercentage decimal.Decimal
}

const (
	BasisPointMax = 10_000
	ScaleOffset   = 64

	FeePrecision = 1_000_000_000
	MaxFeeRate   = 100_000_000

	MaxBinPerArray = lbclmm.MaxBinPerArray
	// MaxBinPerPosition bounds the bins a single position record can hold.
	MaxBinPerPosition = lbclmm.MaxBinPerArray

	BinArrayBitmapSize          = 512
	ExtensionBinArrayBitmapSize = lbclmm.ExtensionBitmapSize

	MaxBinId = 443636
	MinBinId = -443636
)

var (
	OneQ64         = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	MaxExponential = big.NewInt(0x80000)
	MaxU128        = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	U64Max         = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))

	DynamicFeeScalingFactor  = big.NewInt(100_000_000_000)
	DynamicFeeRoundingOffset = big.NewInt(99_999_999_999)
)
