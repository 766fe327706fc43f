package math

import (
	"errors"
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/math/pool_fees"
	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
	"github.com/krazyTry/meteora-dlmm-go/u128"
)

// SwapQuoteParams describes a quote against already fetched records. The
// records are only read.
type SwapQuoteParams struct {
	Pair             *lbclmm.LbPair
	BinArrays        []shared.BinArrayAccount
	BitmapExtension  *lbclmm.BinArrayBitmapExtension
	SwapForY         bool
	Slippage         uint16
	CurrentTimestamp int64
	// PartialFill stops the walk without error once liquidity runs out.
	PartialFill bool
	// MaxExtraBinArrays appends up to this many further liquid bin arrays
	// beyond the last one touched.
	MaxExtraBinArrays int
}

// NewLiquidityIndexes builds the locator inputs for pair. The extension
// index is a nil interface when ext is nil.
func NewLiquidityIndexes(pair *lbclmm.LbPair, ext *lbclmm.BinArrayBitmapExtension) (LiquidityIndex, LiquidityIndex) {
	if ext == nil {
		return NewInlineBitmap(pair), nil
	}
	return NewInlineBitmap(pair), NewExtensionBitmap(ext)
}

// FindNextBinArrayWithLiquidity locates the next liquid bin array from
// activeId and returns it from binArrays.
func FindNextBinArrayWithLiquidity(swapForY bool, activeId int32, inline, ext LiquidityIndex, binArrays []shared.BinArrayAccount) (*shared.BinArrayAccount, error) {
	idx, ok := NextBinArrayIndexWithLiquidity(swapForY, activeId, inline, ext)
	if !ok {
		return nil, shared.ErrInsufficientLiquidity
	}
	account := FindBinArray(binArrays, idx)
	if account == nil {
		return nil, fmt.Errorf("bin array %d not supplied: %w", idx, shared.ErrInsufficientLiquidity)
	}
	return account, nil
}

// GetBinPrice returns the stored Q64.64 price of a bin, deriving it from the
// id when the record has none.
func GetBinPrice(bin *lbclmm.Bin, binId int32, binStep uint16) (*big.Int, error) {
	if bin.Price.Lo != 0 || bin.Price.Hi != 0 {
		return u128.Big(bin.Price), nil
	}
	price, err := GetQPriceFromId(binId, binStep)
	if err != nil {
		return nil, err
	}
	return price.Big(), nil
}

// GetOutAmount converts an input amount, net of fees, at a Q64.64 price.
func GetOutAmount(price, amountIn *big.Int, swapForY bool) *big.Int {
	if swapForY {
		return MulShr(amountIn, price, shared.ScaleOffset, shared.RoundingDown)
	}
	return ShlDiv(amountIn, price, shared.ScaleOffset, shared.RoundingDown)
}

// GetInAmount returns the input, excluding fees, needed for amountOut at a
// Q64.64 price.
func GetInAmount(price, amountOut *big.Int, swapForY bool) *big.Int {
	if swapForY {
		return ShlDiv(amountOut, price, shared.ScaleOffset, shared.RoundingUp)
	}
	return MulShr(amountOut, price, shared.ScaleOffset, shared.RoundingUp)
}

func zeroBinSwap() shared.BinSwapResult {
	return shared.BinSwapResult{
		AmountIn:    big.NewInt(0),
		AmountOut:   big.NewInt(0),
		Fee:         big.NewInt(0),
		ProtocolFee: big.NewInt(0),
	}
}

func binReserveOut(bin *lbclmm.Bin, swapForY bool) *big.Int {
	if swapForY {
		return new(big.Int).SetUint64(bin.AmountY)
	}
	return new(big.Int).SetUint64(bin.AmountX)
}

// SwapExactInQuoteAtBin trades inAmount, fees included, inside one bin.
func SwapExactInQuoteAtBin(bin *lbclmm.Bin, binId int32, binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters, inAmount *big.Int, swapForY bool) (shared.BinSwapResult, error) {
	maxAmountOut := binReserveOut(bin, swapForY)
	if maxAmountOut.Sign() == 0 {
		return zeroBinSwap(), nil
	}
	price, err := GetBinPrice(bin, binId, binStep)
	if err != nil {
		return shared.BinSwapResult{}, err
	}
	maxAmountIn := GetInAmount(price, maxAmountOut, swapForY)
	maxFee := pool_fees.ComputeFee(binStep, s, v, maxAmountIn)
	maxAmountIn.Add(maxAmountIn, maxFee)

	if inAmount.Cmp(maxAmountIn) > 0 {
		return shared.BinSwapResult{
			AmountIn:    maxAmountIn,
			AmountOut:   maxAmountOut,
			Fee:         maxFee,
			ProtocolFee: pool_fees.ComputeProtocolFee(maxFee, s),
		}, nil
	}
	fee := pool_fees.ComputeFeeFromAmount(binStep, s, v, inAmount)
	amountOut := GetOutAmount(price, new(big.Int).Sub(inAmount, fee), swapForY)
	return shared.BinSwapResult{
		AmountIn:    new(big.Int).Set(inAmount),
		AmountOut:   minBig(amountOut, maxAmountOut),
		Fee:         fee,
		ProtocolFee: pool_fees.ComputeProtocolFee(fee, s),
	}, nil
}

// SwapExactOutQuoteAtBin takes up to outAmount out of one bin and returns the
// input it costs, fees included.
func SwapExactOutQuoteAtBin(bin *lbclmm.Bin, binId int32, binStep uint16, s lbclmm.StaticParameters, v lbclmm.VariableParameters, outAmount *big.Int, swapForY bool) (shared.BinSwapResult, error) {
	reserve := binReserveOut(bin, swapForY)
	if reserve.Sign() == 0 {
		return zeroBinSwap(), nil
	}
	price, err := GetBinPrice(bin, binId, binStep)
	if err != nil {
		return shared.BinSwapResult{}, err
	}
	amountOut := minBig(outAmount, reserve)
	amountIn := GetInAmount(price, amountOut, swapForY)
	fee := pool_fees.ComputeFee(binStep, s, v, amountIn)
	return shared.BinSwapResult{
		AmountIn:    amountIn.Add(amountIn, fee),
		AmountOut:   amountOut,
		Fee:         fee,
		ProtocolFee: pool_fees.ComputeProtocolFee(fee, s),
	}, nil
}

// touchedBinArrays keeps bin arrays in first-touch order without duplicates.
type touchedBinArrays struct {
	seen    map[int64]struct{}
	indexes []int64
	keys    []solanago.PublicKey
}

func (t *touchedBinArrays) add(account *shared.BinArrayAccount) {
	if t.seen == nil {
		t.seen = make(map[int64]struct{})
	}
	idx := account.Account.Index
	if _, ok := t.seen[idx]; ok {
		return
	}
	t.seen[idx] = struct{}{}
	t.indexes = append(t.indexes, idx)
	t.keys = append(t.keys, account.PublicKey)
}

func (t *touchedBinArrays) addExtra(swapForY bool, inline, ext LiquidityIndex, binArrays []shared.BinArrayAccount, n int) {
	if n <= 0 || len(t.indexes) == 0 {
		return
	}
	last := t.indexes[len(t.indexes)-1]
	for i := 0; i < n; i++ {
		start := last + 1
		if swapForY {
			start = last - 1
		}
		idx, ok := NextBinArrayIndexFrom(swapForY, start, inline, ext)
		if !ok {
			return
		}
		account := FindBinArray(binArrays, idx)
		if account == nil {
			return
		}
		t.add(account)
		last = idx
	}
}

// swapWalk is the working state of one quote.
type swapWalk struct {
	v        lbclmm.VariableParameters
	inline   LiquidityIndex
	ext      LiquidityIndex
	activeId int32
	touched  touchedBinArrays
}

func newSwapWalk(p SwapQuoteParams) *swapWalk {
	w := &swapWalk{v: p.Pair.VParameters, activeId: p.Pair.ActiveId}
	w.inline, w.ext = NewLiquidityIndexes(p.Pair, p.BitmapExtension)
	pool_fees.UpdateReference(&w.v, p.Pair.Parameters, p.Pair.ActiveId, p.CurrentTimestamp)
	return w
}

// nextBin moves activeId onto the next bin that can be traded and refreshes
// the volatility accumulator there.
func (w *swapWalk) nextBin(p SwapQuoteParams) (*lbclmm.Bin, error) {
	account, err := FindNextBinArrayWithLiquidity(p.SwapForY, w.activeId, w.inline, w.ext, p.BinArrays)
	if err != nil {
		return nil, err
	}
	w.touched.add(account)
	idx := account.Account.Index
	if !IsBinIdWithinBinArray(w.activeId, idx) {
		// Skip the empty bins up to the edge of the located array.
		lower, upper := GetBinArrayLowerUpperBinId(idx)
		if p.SwapForY {
			w.activeId = upper
		} else {
			w.activeId = lower
		}
	}
	pool_fees.UpdateVolatilityAccumulator(&w.v, p.Pair.Parameters, w.activeId)
	return GetBinFromBinArray(w.activeId, account.Account)
}

func (w *swapWalk) step(swapForY bool) {
	if swapForY {
		w.activeId--
	} else {
		w.activeId++
	}
}

func validateSwapParams(p SwapQuoteParams, amount *big.Int) error {
	if p.Pair == nil {
		return errors.New("pair state is required")
	}
	if p.Pair.BinStep == 0 {
		return shared.ErrInvalidBinStep
	}
	if amount == nil || amount.Sign() < 0 {
		return shared.ErrInvalidAmount
	}
	if p.Slippage > shared.BasisPointMax {
		return shared.ErrInvalidSlippage
	}
	return nil
}

func priceImpact(actual, ideal *big.Int) decimal.Decimal {
	if ideal.Sign() == 0 {
		return decimal.Zero
	}
	idealDec := decimal.NewFromBigInt(ideal, 0)
	return decimal.NewFromBigInt(actual, 0).Sub(idealDec).Div(idealDec).Mul(decimal.NewFromInt(100))
}

// SwapQuoteExactIn walks bins in the swap direction until inAmount is spent.
func SwapQuoteExactIn(p SwapQuoteParams, inAmount *big.Int) (shared.SwapQuote, error) {
	if err := validateSwapParams(p, inAmount); err != nil {
		return shared.SwapQuote{}, err
	}
	binStep := p.Pair.BinStep
	s := p.Pair.Parameters
	w := newSwapWalk(p)

	inAmountLeft := new(big.Int).Set(inAmount)
	outAmount := big.NewInt(0)
	feeAmount := big.NewInt(0)
	protocolFeeAmount := big.NewInt(0)
	var startBin *lbclmm.Bin
	var startBinId, lastFilledBinId int32

	for inAmountLeft.Sign() > 0 {
		bin, err := w.nextBin(p)
		if err != nil {
			if p.PartialFill && startBin != nil && errors.Is(err, shared.ErrInsufficientLiquidity) {
				break
			}
			return shared.SwapQuote{}, err
		}
		res, err := SwapExactInQuoteAtBin(bin, w.activeId, binStep, s, w.v, inAmountLeft, p.SwapForY)
		if err != nil {
			return shared.SwapQuote{}, err
		}
		if res.AmountIn.Sign() > 0 {
			inAmountLeft.Sub(inAmountLeft, res.AmountIn)
			outAmount.Add(outAmount, res.AmountOut)
			feeAmount.Add(feeAmount, res.Fee)
			protocolFeeAmount.Add(protocolFeeAmount, res.ProtocolFee)
			if startBin == nil {
				startBin = bin
				startBinId = w.activeId
			}
			lastFilledBinId = w.activeId
		}
		if inAmountLeft.Sign() > 0 {
			w.step(p.SwapForY)
		}
	}
	if startBin == nil {
		return shared.SwapQuote{}, shared.ErrInvalidStartBin
	}

	consumed := new(big.Int).Sub(inAmount, inAmountLeft)
	startPrice, err := GetBinPrice(startBin, startBinId, binStep)
	if err != nil {
		return shared.SwapQuote{}, err
	}
	idealOut := GetOutAmount(startPrice, new(big.Int).Sub(consumed, pool_fees.ComputeFeeFromAmount(binStep, s, w.v, consumed)), p.SwapForY)

	minOutAmount := new(big.Int).Mul(outAmount, big.NewInt(int64(shared.BasisPointMax-p.Slippage)))
	minOutAmount.Div(minOutAmount, big.NewInt(shared.BasisPointMax))

	w.touched.addExtra(p.SwapForY, w.inline, w.ext, p.BinArrays, p.MaxExtraBinArrays)

	return shared.SwapQuote{
		ConsumedInAmount: consumed,
		OutAmount:        outAmount,
		Fee:              feeAmount,
		ProtocolFee:      protocolFeeAmount,
		MinOutAmount:     minOutAmount,
		PriceImpact:      priceImpact(outAmount, idealOut),
		StartBinId:       startBinId,
		EndBinId:         lastFilledBinId,
		EndPrice:         GetPriceOfBinByBinId(lastFilledBinId, binStep),
		BinArraysPubkey:  w.touched.keys,
		BinArrayIndexes:  w.touched.indexes,
	}, nil
}

// SwapQuoteExactOut walks bins in the swap direction until outAmount has
// been taken out.
func SwapQuoteExactOut(p SwapQuoteParams, outAmount *big.Int) (shared.SwapQuoteExactOut, error) {
	if err := validateSwapParams(p, outAmount); err != nil {
		return shared.SwapQuoteExactOut{}, err
	}
	binStep := p.Pair.BinStep
	s := p.Pair.Parameters
	w := newSwapWalk(p)

	outAmountLeft := new(big.Int).Set(outAmount)
	inAmount := big.NewInt(0)
	feeAmount := big.NewInt(0)
	protocolFeeAmount := big.NewInt(0)
	var startBin *lbclmm.Bin
	var startBinId, lastFilledBinId int32

	for outAmountLeft.Sign() > 0 {
		bin, err := w.nextBin(p)
		if err != nil {
			if p.PartialFill && startBin != nil && errors.Is(err, shared.ErrInsufficientLiquidity) {
				break
			}
			return shared.SwapQuoteExactOut{}, err
		}
		res, err := SwapExactOutQuoteAtBin(bin, w.activeId, binStep, s, w.v, outAmountLeft, p.SwapForY)
		if err != nil {
			return shared.SwapQuoteExactOut{}, err
		}
		if res.AmountOut.Sign() > 0 {
			outAmountLeft.Sub(outAmountLeft, res.AmountOut)
			inAmount.Add(inAmount, res.AmountIn)
			feeAmount.Add(feeAmount, res.Fee)
			protocolFeeAmount.Add(protocolFeeAmount, res.ProtocolFee)
			if startBin == nil {
				startBin = bin
				startBinId = w.activeId
			}
			lastFilledBinId = w.activeId
		}
		if outAmountLeft.Sign() > 0 {
			w.step(p.SwapForY)
		}
	}
	if startBin == nil {
		return shared.SwapQuoteExactOut{}, shared.ErrInvalidStartBin
	}

	filled := new(big.Int).Sub(outAmount, outAmountLeft)
	startPrice, err := GetBinPrice(startBin, startBinId, binStep)
	if err != nil {
		return shared.SwapQuoteExactOut{}, err
	}
	idealIn := GetInAmount(startPrice, filled, p.SwapForY)

	maxInAmount := new(big.Int).Mul(inAmount, big.NewInt(int64(shared.BasisPointMax+uint32(p.Slippage))))
	maxInAmount.Div(maxInAmount, big.NewInt(shared.BasisPointMax))

	w.touched.addExtra(p.SwapForY, w.inline, w.ext, p.BinArrays, p.MaxExtraBinArrays)

	return shared.SwapQuoteExactOut{
		InAmount:        inAmount,
		OutAmount:       filled,
		Fee:             feeAmount,
		ProtocolFee:     protocolFeeAmount,
		MaxInAmount:     maxInAmount,
		PriceImpact:     priceImpact(new(big.Int).Sub(inAmount, feeAmount), idealIn),
		StartBinId:      startBinId,
		EndBinId:        lastFilledBinId,
		BinArraysPubkey: w.touched.keys,
		BinArrayIndexes: w.touched.indexes,
	}, nil
}
