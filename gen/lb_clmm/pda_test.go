package lbclmm

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveBinArray(t *testing.T) {
	pair := solanago.NewWallet().PublicKey()

	// Negative indexes are encoded as two's complement i64.
	want, _, err := solanago.FindProgramAddress([][]byte{
		[]byte("bin_array"), pair.Bytes(), {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, DeriveBinArray(pair, -1))

	assert.NotEqual(t, DeriveBinArray(pair, 0), DeriveBinArray(pair, 1))
	assert.Equal(t, DeriveBinArray(pair, 7), DeriveBinArray(pair, 7))
	assert.NotEqual(t, DeriveBinArray(pair, 7), DeriveBinArray(solanago.NewWallet().PublicKey(), 7))
}
