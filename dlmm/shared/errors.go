package shared

import "errors"

var (
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidStartBin       = errors.New("invalid start bin")
	ErrNoLiquidityToAdd      = errors.New("no liquidity to add")
	ErrDiscontinuousRange    = errors.New("bin ids are not contiguous")
	ErrMissingBinArray       = errors.New("missing bin array")

	ErrMathOverflow    = errors.New("math overflow")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidBinStep  = errors.New("bin step must be positive")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidSlippage = errors.New("slippage exceeds basis point max")
	ErrInvalidStrategy = errors.New("unsupported strategy")
	ErrInvalidBinRange = errors.New("min bin id greater than max bin id")
	ErrPairMismatch    = errors.New("bin array belongs to another pair")
)
