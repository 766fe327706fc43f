package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
	"github.com/krazyTry/meteora-dlmm-go/internal/config"
	"github.com/krazyTry/meteora-dlmm-go/internal/snapshot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dlmm",
		Short:        "Offline DLMM quotes, position reports and deposit plans",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("snapshot", "./snapshot.json", "pool snapshot JSON")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("output", "-", "output path, - for stdout")
	root.PersistentFlags().Int64("now", 0, "unix timestamp used for fee decay and rewards (default: current time)")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against the snapshot",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("amount", "", "amount in (or out with --exact-out), in base units")
	quoteCmd.Flags().Bool("swap-for-y", true, "sell X for Y")
	quoteCmd.Flags().Bool("exact-out", false, "treat amount as the desired output")
	quoteCmd.Flags().Uint16("slippage-bps", 100, "slippage tolerance in basis points")
	quoteCmd.Flags().Bool("partial-fill", false, "return a partial quote when liquidity runs out")
	quoteCmd.Flags().Int("max-extra-bin-arrays", 0, "extra liquid bin arrays to list past the last one crossed")
	root.AddCommand(quoteCmd)

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Report the reserves, fees and rewards of a position",
		RunE:  runPosition,
	}
	positionCmd.Flags().String("position", "", "position address, empty for every position in the snapshot")
	root.AddCommand(positionCmd)

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Convert between bin ids and prices",
		RunE:  runPrice,
	}
	priceCmd.Flags().Int32("bin-id", 0, "bin id to price")
	priceCmd.Flags().Uint16("bin-step", 0, "bin step in basis points, 0 to read it from the snapshot")
	priceCmd.Flags().String("price", "", "price to map back to a bin id")
	priceCmd.Flags().Uint8("decimals-x", 0, "token X decimals")
	priceCmd.Flags().Uint8("decimals-y", 0, "token Y decimals")
	root.AddCommand(priceCmd)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a deposit across bins with a strategy",
		RunE:  runPlan,
	}
	planCmd.Flags().String("strategy", "spot", "spot, curve or bidask")
	planCmd.Flags().Int32("min-bin-id", 0, "lowest bin of the range")
	planCmd.Flags().Int32("max-bin-id", 0, "highest bin of the range")
	planCmd.Flags().String("total-x", "0", "total X to deposit, in base units")
	planCmd.Flags().String("total-y", "0", "total Y to deposit, in base units")
	root.AddCommand(planCmd)

	return root
}

// commandEnv is what every subcommand starts from.
type commandEnv struct {
	cfg    config.Config
	logger *zap.Logger
	client *dlmm.DLMM
}

func setup(cmd *cobra.Command) (*commandEnv, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &commandEnv{
		cfg:    cfg,
		logger: logger,
		client: dlmm.NewDLMM(dlmm.WithLogger(logger)),
	}, nil
}

func (e *commandEnv) loadSnapshot() (*snapshot.Snapshot, error) {
	if e.cfg.Snapshot == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	snap, err := snapshot.Load(e.cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	e.logger.Info("snapshot loaded",
		zap.String("path", e.cfg.Snapshot),
		zap.Stringer("pool", snap.Pool.Address),
		zap.Int32("activeId", snap.Pool.ActiveId),
		zap.Uint16("binStep", snap.Pool.BinStep),
		zap.Int("binArrays", len(snap.BinArrays)),
		zap.Int("positions", len(snap.Positions)),
	)
	return snap, nil
}

func (e *commandEnv) write(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')

	var w io.Writer = cmd.OutOrStdout()
	if e.cfg.Output != "" && e.cfg.Output != "-" {
		f, err := os.Create(e.cfg.Output)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
