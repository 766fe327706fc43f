package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Snapshot          string
	SlippageBps       uint16
	LogLevel          string
	Now               int64
	PartialFill       bool
	MaxExtraBinArrays int
	Output            string

	// quote
	Amount   string
	SwapForY bool
	ExactOut bool

	// position
	Position string

	// price
	BinId     int32
	BinStep   uint16
	Price     string
	DecimalsX uint8
	DecimalsY uint8

	// plan
	Strategy string
	MinBinId int32
	MaxBinId int32
	TotalX   string
	TotalY   string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DLMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("snapshot", "./snapshot.json")
	v.SetDefault("slippage-bps", 100)
	v.SetDefault("log-level", "info")
	v.SetDefault("now", int64(0))
	v.SetDefault("partial-fill", false)
	v.SetDefault("max-extra-bin-arrays", 0)
	v.SetDefault("output", "-")
	v.SetDefault("swap-for-y", true)
	v.SetDefault("strategy", "spot")
	v.SetDefault("total-x", "0")
	v.SetDefault("total-y", "0")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("dlmm")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	slippage := v.GetUint("slippage-bps")
	if slippage > 10_000 {
		return Config{}, fmt.Errorf("slippage-bps %d above 10000", slippage)
	}
	if v.GetInt("max-extra-bin-arrays") < 0 {
		return Config{}, fmt.Errorf("max-extra-bin-arrays must not be negative")
	}

	cfg := Config{
		Snapshot:          v.GetString("snapshot"),
		SlippageBps:       uint16(slippage),
		LogLevel:          v.GetString("log-level"),
		Now:               v.GetInt64("now"),
		PartialFill:       v.GetBool("partial-fill"),
		MaxExtraBinArrays: v.GetInt("max-extra-bin-arrays"),
		Output:            v.GetString("output"),
		Amount:            v.GetString("amount"),
		SwapForY:          v.GetBool("swap-for-y"),
		ExactOut:          v.GetBool("exact-out"),
		Position:          v.GetString("position"),
		BinId:             v.GetInt32("bin-id"),
		BinStep:           uint16(v.GetUint("bin-step")),
		Price:             v.GetString("price"),
		DecimalsX:         uint8(v.GetUint("decimals-x")),
		DecimalsY:         uint8(v.GetUint("decimals-y")),
		Strategy:          strings.ToLower(strings.TrimSpace(v.GetString("strategy"))),
		MinBinId:          v.GetInt32("min-bin-id"),
		MaxBinId:          v.GetInt32("max-bin-id"),
		TotalX:            v.GetString("total-x"),
		TotalY:            v.GetString("total-y"),
	}

	if cfg.Now <= 0 {
		cfg.Now = time.Now().Unix()
	}

	return cfg, nil
}
