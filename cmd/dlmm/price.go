package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
)

type priceReport struct {
	BinStep    uint16           `json:"binStep"`
	BinId      int32            `json:"binId"`
	Price      decimal.Decimal  `json:"price"`
	UIPrice    decimal.Decimal  `json:"uiPrice"`
	BinIdFloor *int32           `json:"binIdFloor,omitempty"`
	BinIdCeil  *int32           `json:"binIdCeil,omitempty"`
	ActiveId   *int32           `json:"activeId,omitempty"`
	FeeInfo    *dlmm.FeeInfo    `json:"feeInfo,omitempty"`
	DynamicFee *decimal.Decimal `json:"dynamicFeePercentage,omitempty"`
}

func runPrice(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	cfg := env.cfg
	report := priceReport{BinStep: cfg.BinStep, BinId: cfg.BinId}
	if report.BinStep == 0 {
		snap, err := env.loadSnapshot()
		if err != nil {
			return err
		}
		pool := snap.Pool
		report.BinStep = pool.BinStep
		activeId := pool.ActiveId
		feeInfo := env.client.GetFeeInfo(pool)
		dynamicFee := env.client.GetDynamicFee(pool, cfg.Now)
		report.ActiveId = &activeId
		report.FeeInfo = &feeInfo
		report.DynamicFee = &dynamicFee
		if !cmd.Flags().Changed("bin-id") {
			report.BinId = activeId
		}
	}

	report.Price = env.client.GetPriceOfBinByBinId(report.BinId, report.BinStep)
	report.UIPrice = dlmmmath.PricePerToken(report.Price, cfg.DecimalsX, cfg.DecimalsY)

	if cfg.Price != "" {
		uiPrice, err := decimal.NewFromString(cfg.Price)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		raw := dlmmmath.PricePerLamport(uiPrice, cfg.DecimalsX, cfg.DecimalsY)
		floor := env.client.GetBinIdFromPrice(raw, report.BinStep, true)
		ceil := env.client.GetBinIdFromPrice(raw, report.BinStep, false)
		report.BinIdFloor = &floor
		report.BinIdCeil = &ceil
	}
	return env.write(cmd, report)
}
