package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

type fixture struct {
	file     File
	pool     solana.PublicKey
	position solana.PublicKey
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	pool := solana.NewWallet().PublicKey()
	pair := &lbclmm.LbPair{ActiveId: 75, BinStep: 25}
	pairData, err := pair.Marshal()
	require.NoError(t, err)

	var arrays []Account
	for _, idx := range []int64{0, 1} {
		ba := &lbclmm.BinArray{Index: idx, LbPair: pool}
		ba.Bins[5].AmountX = uint64(100 * (idx + 1))
		data, err := ba.Marshal()
		require.NoError(t, err)
		arrays = append(arrays, Account{Address: solana.NewWallet().PublicKey().String(), Data: data})
	}

	ext := &lbclmm.BinArrayBitmapExtension{LbPair: pool}
	ext.PositiveBinArrayBitmap[0][0] = 1
	extData, err := ext.Marshal()
	require.NoError(t, err)

	positionKey := solana.NewWallet().PublicKey()
	position := &lbclmm.PositionV2{LbPair: pool, LowerBinId: 60, UpperBinId: 80}
	positionData, err := position.Marshal()
	require.NoError(t, err)

	return fixture{
		file: File{
			Pool:            Account{Address: pool.String(), Data: pairData},
			BinArrays:       arrays,
			BitmapExtension: &Account{Address: solana.NewWallet().PublicKey().String(), Data: extData},
			Positions:       []Account{{Address: positionKey.String(), Data: positionData}},
		},
		pool:     pool,
		position: positionKey,
	}
}

func TestLoad(t *testing.T) {
	f := newFixture(t)
	data, err := Encode(f.file)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.pool, snap.Pool.Address)
	assert.Equal(t, int32(75), snap.Pool.ActiveId)
	assert.Equal(t, uint16(25), snap.Pool.BinStep)
	require.Len(t, snap.BinArrays, 2)
	assert.Equal(t, uint64(200), snap.BinArrays[1].Account.Bins[5].AmountX)
	require.NotNil(t, snap.BitmapExtension)
	assert.Equal(t, uint64(1), snap.BitmapExtension.PositiveBinArrayBitmap[0][0])

	position, err := snap.Position(f.position)
	require.NoError(t, err)
	assert.Equal(t, shared.PositionVersionV2, position.Version)

	lower, upper := snap.PositionBinArrays(position)
	require.NotNil(t, lower)
	require.NotNil(t, upper)
	assert.Equal(t, int64(0), lower.Index)
	assert.Equal(t, int64(1), upper.Index)

	_, err = snap.Position(solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestParseOptionalSections(t *testing.T) {
	f := newFixture(t)
	f.file.BinArrays = nil
	f.file.BitmapExtension = nil
	f.file.Positions = nil
	data, err := Encode(f.file)
	require.NoError(t, err)

	snap, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, snap.BinArrays)
	assert.Nil(t, snap.BitmapExtension)
	assert.Empty(t, snap.Positions)
}

func TestParseDerivesBinArrayAddress(t *testing.T) {
	f := newFixture(t)
	f.file.BinArrays[1].Address = ""
	data, err := Encode(f.file)
	require.NoError(t, err)

	snap, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, snap.BinArrays, 2)
	assert.Equal(t, lbclmm.DeriveBinArray(f.pool, 1), snap.BinArrays[1].PublicKey)
	assert.Equal(t, f.file.BinArrays[0].Address, snap.BinArrays[0].PublicKey.String())
}

func TestParseErrors(t *testing.T) {
	f := newFixture(t)

	_, err := Parse([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Parse([]byte(`{"binArrays": []}`))
	assert.ErrorIs(t, err, ErrMissingPool)

	_, err = Parse([]byte(`{"pool": {"address": "not-a-key", "data": ""}}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"pool": {"address": "11111111111111111111111111111111", "data": "%%%"}}`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	// Bin array bytes under the pool entry fail the discriminator check.
	f.file.Pool.Data = f.file.BinArrays[0].Data
	data, err := Encode(f.file)
	require.NoError(t, err)
	_, err = Parse(data)
	assert.ErrorIs(t, err, lbclmm.ErrInvalidDiscriminator)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
