package dlmm

import (
	"github.com/gagliardetto/solana-go"

	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

type (
	Rounding        = shared.Rounding
	StrategyType    = shared.StrategyType
	PositionVersion = shared.PositionVersion

	BinArrayAccount   = shared.BinArrayAccount
	SwapQuote         = shared.SwapQuote
	SwapQuoteExactOut = shared.SwapQuoteExactOut
	ClaimableFee      = shared.ClaimableFee
	ClaimableReward   = shared.ClaimableReward
	PositionData      = shared.PositionData
	PositionBinData   = shared.PositionBinData
	PositionState     = shared.PositionState
	BinWeight         = shared.BinWeight
	BinAllocation     = shared.BinAllocation
	FeeInfo           = shared.FeeInfo

	PositionBinArrays = dlmmmath.PositionBinArrays
)

const (
	StrategyTypeSpot   = shared.StrategyTypeSpot
	StrategyTypeCurve  = shared.StrategyTypeCurve
	StrategyTypeBidAsk = shared.StrategyTypeBidAsk
)

// Pool is a decoded pair record together with its address.
type Pool struct {
	*lbclmm.LbPair
	Address solana.PublicKey
}

// NewPool decodes an LbPair account.
func NewPool(address solana.PublicKey, data []byte) (*Pool, error) {
	pair, err := lbclmm.ParseAccount_LbPair(data)
	if err != nil {
		return nil, err
	}
	return &Pool{LbPair: pair, Address: address}, nil
}

// NewBinArrayAccount decodes a BinArray account.
func NewBinArrayAccount(address solana.PublicKey, data []byte) (BinArrayAccount, error) {
	ba, err := lbclmm.ParseAccount_BinArray(data)
	if err != nil {
		return BinArrayAccount{}, err
	}
	return BinArrayAccount{PublicKey: address, Account: ba}, nil
}

// NewPositionState decodes a Position or PositionV2 account.
func NewPositionState(address solana.PublicKey, data []byte) (*PositionState, error) {
	return shared.DecodePositionState(address, data)
}
