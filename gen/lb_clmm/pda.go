package lbclmm

import (
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"
)

func DeriveBinArray(lbPair solanago.PublicKey, index int64) solanago.PublicKey {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, uint64(index))
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("bin_array"), lbPair.Bytes(), indexBytes}, ProgramID)
	return pub
}
