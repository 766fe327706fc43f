package shared

import (
	"testing"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

func TestPositionVersionScaling(t *testing.T) {
	raw := uint256.NewInt(1000)
	scaled := new(uint256.Int).Lsh(raw, ScaleOffset)

	tests := []struct {
		name            string
		version         PositionVersion
		share           *uint256.Int
		binArrayVersion uint8
		accrual         *uint256.Int
		reserve         *uint256.Int
	}{
		{"v1 on v0 array", PositionVersionV1, raw, 0, raw, raw},
		{"v1 on v1 array", PositionVersionV1, raw, 1, raw, scaled},
		{"v2 on v0 array", PositionVersionV2, scaled, 0, raw, raw},
		{"v2 on v1 array", PositionVersionV2, scaled, 1, raw, scaled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accrual, tt.version.AccrualShare(tt.share))
			assert.Equal(t, tt.reserve, tt.version.ReserveShare(tt.share, tt.binArrayVersion))
		})
	}
}

func TestPositionVersionTruncates(t *testing.T) {
	share := uint256.NewInt(1<<20 - 1)
	assert.True(t, PositionVersionV2.AccrualShare(share).IsZero())
}

func TestDecodePositionState(t *testing.T) {
	addr := solanago.NewWallet().PublicKey()

	v2 := &lbclmm.PositionV2{LowerBinId: 95, UpperBinId: 105}
	v2.LiquidityShares[5] = binary.Uint128{Hi: 1000}
	data, err := v2.Marshal()
	require.NoError(t, err)

	state, err := DecodePositionState(addr, data)
	require.NoError(t, err)
	assert.Equal(t, PositionVersionV2, state.Version)
	assert.Equal(t, uint256.NewInt(1000), PositionVersionV2.AccrualShare(state.Share(100)))
	assert.True(t, state.Share(94).IsZero())
	assert.True(t, state.Address.Equals(addr))

	v1 := &lbclmm.Position{LowerBinId: 95, UpperBinId: 105}
	v1.LiquidityShares[5] = 1000
	data, err = v1.Marshal()
	require.NoError(t, err)

	state, err = DecodePositionState(addr, data)
	require.NoError(t, err)
	assert.Equal(t, PositionVersionV1, state.Version)
	assert.Equal(t, uint256.NewInt(1000), state.Share(100))
}
