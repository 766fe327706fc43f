package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
)

type positionReport struct {
	Address solana.PublicKey     `json:"address"`
	Owner   solana.PublicKey     `json:"owner"`
	Version string               `json:"version"`
	Data    dlmm.PositionData    `json:"data"`
	Fee     dlmm.ClaimableFee    `json:"claimableFee"`
	Reward  dlmm.ClaimableReward `json:"claimableReward"`
}

func runPosition(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	snap, err := env.loadSnapshot()
	if err != nil {
		return err
	}

	positions := snap.Positions
	if env.cfg.Position != "" {
		address, err := solana.PublicKeyFromBase58(env.cfg.Position)
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		p, err := snap.Position(address)
		if err != nil {
			return err
		}
		positions = []*dlmm.PositionState{p}
	}

	reports := make([]positionReport, 0, len(positions))
	for _, p := range positions {
		lower, upper := snap.PositionBinArrays(p)
		data, err := env.client.GetPositionInfo(snap.Pool, p, env.cfg.Now, lower, upper)
		if err != nil {
			return fmt.Errorf("position %s: %w", p.Address, err)
		}
		reports = append(reports, positionReport{
			Address: p.Address,
			Owner:   p.Owner,
			Version: p.Version.String(),
			Data:    data,
			Fee:     dlmm.ClaimableFee{FeeX: data.FeeX, FeeY: data.FeeY},
			Reward:  dlmm.ClaimableReward{Rewards: data.Rewards},
		})
		env.logger.Info("position",
			zap.Stringer("address", p.Address),
			zap.Stringer("x", data.TotalXAmount),
			zap.Stringer("y", data.TotalYAmount),
			zap.Stringer("feeX", data.FeeX),
			zap.Stringer("feeY", data.FeeY),
		)
	}
	return env.write(cmd, reports)
}
