package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
)

func parseStrategy(s string) (dlmm.StrategyType, error) {
	for _, st := range []dlmm.StrategyType{dlmm.StrategyTypeSpot, dlmm.StrategyTypeCurve, dlmm.StrategyTypeBidAsk} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	cfg := env.cfg
	strategy, err := parseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	totalX, err := parseAmount("total-x", cfg.TotalX)
	if err != nil {
		return err
	}
	totalY, err := parseAmount("total-y", cfg.TotalY)
	if err != nil {
		return err
	}

	snap, err := env.loadSnapshot()
	if err != nil {
		return err
	}
	minBinId, maxBinId := cfg.MinBinId, cfg.MaxBinId
	if !cmd.Flags().Changed("min-bin-id") && !cmd.Flags().Changed("max-bin-id") && minBinId == 0 && maxBinId == 0 {
		minBinId, maxBinId = snap.Pool.ActiveId, snap.Pool.ActiveId
	}

	allocations, err := env.client.PlanStrategy(dlmm.PlanStrategyParams{
		Pool:     snap.Pool,
		Strategy: strategy,
		MinBinId: minBinId,
		MaxBinId: maxBinId,
		TotalX:   totalX,
		TotalY:   totalY,
	})
	if err != nil {
		return err
	}
	env.logger.Info("plan",
		zap.Stringer("strategy", strategy),
		zap.Int32("minBinId", minBinId),
		zap.Int32("maxBinId", maxBinId),
		zap.Int("bins", len(allocations)),
	)
	return env.write(cmd, allocations)
}
