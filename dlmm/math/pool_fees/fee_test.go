package pool_fees

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

func staticParams() lbclmm.StaticParameters {
	return lbclmm.StaticParameters{
		BaseFactor:               10_000,
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          5_000,
		VariableFeeControl:       40_000,
		MaxVolatilityAccumulator: 350_000,
		MinBinId:                 -443636,
		MaxBinId:                 443636,
		ProtocolShare:            500,
	}
}

func TestUpdateReference(t *testing.T) {
	s := staticParams()
	tests := []struct {
		name        string
		now         int64
		wantIndex   int32
		wantVolRef  uint32
		untouchedVA uint32
	}{
		{"inside filter period", 1_010, 10, 7_000, 20_000},
		{"inside decay period", 1_100, 47, 10_000, 20_000},
		{"after decay period", 1_700, 47, 0, 20_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := lbclmm.VariableParameters{
				VolatilityAccumulator: 20_000,
				VolatilityReference:   7_000,
				IndexReference:        10,
				LastUpdateTimestamp:   1_000,
			}
			UpdateReference(&v, s, 47, tt.now)
			assert.Equal(t, tt.wantIndex, v.IndexReference)
			assert.Equal(t, tt.wantVolRef, v.VolatilityReference)
			assert.Equal(t, tt.untouchedVA, v.VolatilityAccumulator)
		})
	}
}

func TestUpdateVolatilityAccumulator(t *testing.T) {
	s := staticParams()
	v := lbclmm.VariableParameters{VolatilityReference: 1_234, IndexReference: 50}

	UpdateVolatilityAccumulator(&v, s, 47)
	assert.Equal(t, uint32(1_234+3*10_000), v.VolatilityAccumulator)

	UpdateVolatilityAccumulator(&v, s, 53)
	assert.Equal(t, uint32(1_234+3*10_000), v.VolatilityAccumulator)

	UpdateVolatilityAccumulator(&v, s, 50+100)
	assert.Equal(t, s.MaxVolatilityAccumulator, v.VolatilityAccumulator)
}

func TestGetTotalFee(t *testing.T) {
	s := staticParams()
	require.Equal(t, big.NewInt(1_000_000), GetBaseFee(10, s))

	v := lbclmm.VariableParameters{VolatilityAccumulator: 30_000}
	require.Equal(t, big.NewInt(36_000), GetVariableFee(10, s, v))
	require.Equal(t, big.NewInt(1_036_000), GetTotalFee(10, s, v))

	s.BaseFeePowerFactor = 1
	require.Equal(t, big.NewInt(10_000_000), GetBaseFee(10, s))

	s.VariableFeeControl = 0
	require.Equal(t, 0, GetVariableFee(10, s, v).Sign())

	s.BaseFactor = 60_000
	s.BaseFeePowerFactor = 2
	require.Equal(t, big.NewInt(100_000_000), GetTotalFee(100, s, v))
}

func TestComputeFees(t *testing.T) {
	s := staticParams()
	s.VariableFeeControl = 0
	v := lbclmm.VariableParameters{}

	assert.Equal(t, big.NewInt(1_002), ComputeFee(10, s, v, big.NewInt(1_000_000)))
	assert.Equal(t, big.NewInt(1_000), ComputeFeeFromAmount(10, s, v, big.NewInt(1_000_000)))
	assert.Equal(t, big.NewInt(1), ComputeFeeFromAmount(10, s, v, big.NewInt(1)))
	assert.Equal(t, big.NewInt(50), ComputeProtocolFee(big.NewInt(1_000), s))
}

func TestFeeInfo(t *testing.T) {
	s := staticParams()
	info := GetFeeInfo(10, s)
	assert.True(t, info.BaseFeeRatePercentage.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, info.MaxFeeRatePercentage.Equal(decimal.NewFromInt(10)))
	assert.True(t, info.ProtocolFeePercentage.Equal(decimal.NewFromInt(5)))
}

func TestGetDynamicFeeDoesNotMutatePair(t *testing.T) {
	pair := &lbclmm.LbPair{Parameters: staticParams(), ActiveId: 47, BinStep: 10}
	pair.VParameters = lbclmm.VariableParameters{IndexReference: 50, LastUpdateTimestamp: 1_000}

	fee := GetDynamicFee(pair, 1_010)
	assert.True(t, fee.Equal(decimal.RequireFromString("0.1036")))
	assert.Equal(t, uint32(0), pair.VParameters.VolatilityAccumulator)
	assert.Equal(t, int32(50), pair.VParameters.IndexReference)
}
