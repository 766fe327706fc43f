package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

var errOverflow = errors.New("value overflows Uint128")

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errOverflow
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

// GenUint128FromString parses a decimal string into a record field value.
func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}

// FromRecord converts a decoded record field into a uint128 value.
func FromRecord(v binary.Uint128) uint128.Uint128 {
	return uint128.New(v.Lo, v.Hi)
}

// ToRecord converts a uint128 value into a record field.
func ToRecord(v uint128.Uint128) binary.Uint128 {
	return binary.Uint128{Lo: v.Lo, Hi: v.Hi}
}

// RecordFromBig converts v into a record field, failing when v does not fit.
func RecordFromBig(v *big.Int) (binary.Uint128, error) {
	if v == nil {
		return binary.Uint128{}, nil
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return binary.Uint128{}, errOverflow
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return binary.Uint128{Lo: lo, Hi: hi}, nil
}

// Big returns the record field as a new big.Int.
func Big(v binary.Uint128) *big.Int {
	return FromRecord(v).Big()
}
