package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
)

func parseAmount(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%s: invalid amount %q", name, s)
	}
	return v, nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	cfg := env.cfg
	if cfg.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	amount, err := parseAmount("amount", cfg.Amount)
	if err != nil {
		return err
	}

	snap, err := env.loadSnapshot()
	if err != nil {
		return err
	}

	if cfg.ExactOut {
		quote, err := env.client.SwapQuoteExactOut(dlmm.SwapQuoteExactOutParams{
			Pool:              snap.Pool,
			BinArrays:         snap.BinArrays,
			BitmapExtension:   snap.BitmapExtension,
			OutAmount:         amount,
			SwapForY:          cfg.SwapForY,
			SlippageBps:       cfg.SlippageBps,
			CurrentTimestamp:  cfg.Now,
			PartialFill:       cfg.PartialFill,
			MaxExtraBinArrays: cfg.MaxExtraBinArrays,
		})
		if err != nil {
			return err
		}
		env.logger.Info("quote exact out",
			zap.Stringer("in", quote.InAmount),
			zap.Stringer("out", quote.OutAmount),
			zap.Stringer("fee", quote.Fee),
		)
		return env.write(cmd, quote)
	}

	quote, err := env.client.SwapQuote(dlmm.SwapQuoteParams{
		Pool:              snap.Pool,
		BinArrays:         snap.BinArrays,
		BitmapExtension:   snap.BitmapExtension,
		InAmount:          amount,
		SwapForY:          cfg.SwapForY,
		SlippageBps:       cfg.SlippageBps,
		CurrentTimestamp:  cfg.Now,
		PartialFill:       cfg.PartialFill,
		MaxExtraBinArrays: cfg.MaxExtraBinArrays,
	})
	if err != nil {
		return err
	}
	env.logger.Info("quote",
		zap.Stringer("in", quote.ConsumedInAmount),
		zap.Stringer("out", quote.OutAmount),
		zap.Stringer("fee", quote.Fee),
		zap.String("priceImpact", quote.PriceImpact.String()),
	)
	return env.write(cmd, quote)
}
