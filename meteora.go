package meteora

import (
	"github.com/krazyTry/meteora-dlmm-go/dlmm"
)

// NewDLMM creates a new DLMM client.
//
// Example:
//
// meteoraDLMM := NewDLMM(dlmm.WithLogger(logger))
//
// quote, _ := meteoraDLMM.SwapQuote(dlmm.SwapQuoteParams{Pool: pool, BinArrays: binArrays, InAmount: amountIn, SwapForY: true, SlippageBps: 100})
//
// info, _ := meteoraDLMM.GetPositionInfo(pool, position, now, lowerBinArray, upperBinArray)
var NewDLMM = dlmm.NewDLMM
