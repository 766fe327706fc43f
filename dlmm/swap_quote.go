package dlmm

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

var ErrPoolRequired = errors.New("pool is required")

type SwapQuoteParams struct {
	Pool            *Pool
	BinArrays       []BinArrayAccount
	BitmapExtension *lbclmm.BinArrayBitmapExtension
	InAmount        *big.Int
	SwapForY        bool // true: X in, Y out
	SlippageBps     uint16
	// CurrentTimestamp drives the volatility reference decay.
	CurrentTimestamp  int64
	PartialFill       bool
	MaxExtraBinArrays int
}

type SwapQuoteExactOutParams struct {
	Pool              *Pool
	BinArrays         []BinArrayAccount
	BitmapExtension   *lbclmm.BinArrayBitmapExtension
	OutAmount         *big.Int
	SwapForY          bool
	SlippageBps       uint16
	CurrentTimestamp  int64
	PartialFill       bool
	MaxExtraBinArrays int
}

func (p SwapQuoteParams) quoteParams() dlmmmath.SwapQuoteParams {
	return dlmmmath.SwapQuoteParams{
		Pair:              p.Pool.LbPair,
		BinArrays:         p.BinArrays,
		BitmapExtension:   p.BitmapExtension,
		SwapForY:          p.SwapForY,
		Slippage:          p.SlippageBps,
		CurrentTimestamp:  p.CurrentTimestamp,
		PartialFill:       p.PartialFill,
		MaxExtraBinArrays: p.MaxExtraBinArrays,
	}
}

func (p SwapQuoteExactOutParams) quoteParams() dlmmmath.SwapQuoteParams {
	return dlmmmath.SwapQuoteParams{
		Pair:              p.Pool.LbPair,
		BinArrays:         p.BinArrays,
		BitmapExtension:   p.BitmapExtension,
		SwapForY:          p.SwapForY,
		Slippage:          p.SlippageBps,
		CurrentTimestamp:  p.CurrentTimestamp,
		PartialFill:       p.PartialFill,
		MaxExtraBinArrays: p.MaxExtraBinArrays,
	}
}

// SwapQuote quotes an exact-in swap.
//
// Example:
//
// quote, _ := d.SwapQuote(dlmm.SwapQuoteParams{Pool: pool, BinArrays: binArrays, InAmount: amountIn, SwapForY: true, SlippageBps: 100})
func (m *DLMM) SwapQuote(params SwapQuoteParams) (SwapQuote, error) {
	if params.Pool == nil || params.Pool.LbPair == nil {
		return SwapQuote{}, ErrPoolRequired
	}
	quote, err := dlmmmath.SwapQuoteExactIn(params.quoteParams(), params.InAmount)
	if err != nil {
		m.logger.Debug("swap quote failed", zap.Stringer("pool", params.Pool.Address), zap.Error(err))
		return SwapQuote{}, err
	}
	fillBinArrayKeys(params.Pool, quote.BinArrayIndexes, quote.BinArraysPubkey)
	m.logger.Debug("swap quote",
		zap.Stringer("pool", params.Pool.Address),
		zap.Bool("swapForY", params.SwapForY),
		zap.Stringer("in", quote.ConsumedInAmount),
		zap.Stringer("out", quote.OutAmount),
		zap.Int32("startBinId", quote.StartBinId),
		zap.Int32("endBinId", quote.EndBinId),
		zap.Int64s("binArrays", quote.BinArrayIndexes),
	)
	return quote, nil
}

// SwapQuoteExactOut quotes the input needed to receive OutAmount.
func (m *DLMM) SwapQuoteExactOut(params SwapQuoteExactOutParams) (SwapQuoteExactOut, error) {
	if params.Pool == nil || params.Pool.LbPair == nil {
		return SwapQuoteExactOut{}, ErrPoolRequired
	}
	quote, err := dlmmmath.SwapQuoteExactOut(params.quoteParams(), params.OutAmount)
	if err != nil {
		m.logger.Debug("swap quote exact out failed", zap.Stringer("pool", params.Pool.Address), zap.Error(err))
		return SwapQuoteExactOut{}, err
	}
	fillBinArrayKeys(params.Pool, quote.BinArrayIndexes, quote.BinArraysPubkey)
	m.logger.Debug("swap quote exact out",
		zap.Stringer("pool", params.Pool.Address),
		zap.Bool("swapForY", params.SwapForY),
		zap.Stringer("in", quote.InAmount),
		zap.Stringer("out", quote.OutAmount),
		zap.Int32("startBinId", quote.StartBinId),
		zap.Int32("endBinId", quote.EndBinId),
		zap.Int64s("binArrays", quote.BinArrayIndexes),
	)
	return quote, nil
}

// NextBinArrayIndexWithLiquidity returns the index of the first bin array at
// or beyond the one holding activeId, in the swap direction, that the pool
// marks as holding liquidity. ext may be nil.
func (m *DLMM) NextBinArrayIndexWithLiquidity(pool *Pool, ext *lbclmm.BinArrayBitmapExtension, activeId int32, swapForY bool) (int64, bool) {
	inline, extension := dlmmmath.NewLiquidityIndexes(pool.LbPair, ext)
	return dlmmmath.NextBinArrayIndexWithLiquidity(swapForY, activeId, inline, extension)
}

// BinArrayIndexesForQuote lists the liquid bin arrays a swap from the active
// bin would visit first, up to count of them.
func (m *DLMM) BinArrayIndexesForQuote(pool *Pool, ext *lbclmm.BinArrayBitmapExtension, swapForY bool, count int) []int64 {
	inline, extension := dlmmmath.NewLiquidityIndexes(pool.LbPair, ext)
	var out []int64
	idx, ok := dlmmmath.NextBinArrayIndexWithLiquidity(swapForY, pool.ActiveId, inline, extension)
	for ok && len(out) < count {
		out = append(out, idx)
		if swapForY {
			idx--
		} else {
			idx++
		}
		idx, ok = dlmmmath.NextBinArrayIndexFrom(swapForY, idx, inline, extension)
	}
	return out
}

// BinArrayAddresses derives the bin array accounts of pool at indexes.
func (m *DLMM) BinArrayAddresses(pool *Pool, indexes []int64) []solana.PublicKey {
	out := make([]solana.PublicKey, len(indexes))
	for i, idx := range indexes {
		out[i] = lbclmm.DeriveBinArray(pool.Address, idx)
	}
	return out
}

// fillBinArrayKeys derives the keys of bin arrays supplied without an address.
func fillBinArrayKeys(pool *Pool, indexes []int64, keys []solana.PublicKey) {
	for i := range keys {
		if keys[i].IsZero() && i < len(indexes) {
			keys[i] = lbclmm.DeriveBinArray(pool.Address, indexes[i])
		}
	}
}
