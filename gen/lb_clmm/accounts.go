package lbclmm

import (
	"bytes"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
)

var ErrInvalidDiscriminator = errors.New("invalid account discriminator")

var (
	Account_LbPair                  = accountDiscriminator("LbPair")
	Account_BinArray                = accountDiscriminator("BinArray")
	Account_BinArrayBitmapExtension = accountDiscriminator("BinArrayBitmapExtension")
	Account_Position                = accountDiscriminator("Position")
	Account_PositionV2              = accountDiscriminator("PositionV2")
)

func accountDiscriminator(name string) [8]byte {
	var out [8]byte
	copy(out[:], binary.SighashAccount(name))
	return out
}

func decodeAccount(data []byte, discriminator [8]byte, name string, out interface{}) error {
	if len(data) < 8 {
		return fmt.Errorf("%s: account data too short: %d bytes", name, len(data))
	}
	if !bytes.Equal(data[:8], discriminator[:]) {
		return fmt.Errorf("%s: %w", name, ErrInvalidDiscriminator)
	}
	if err := binary.NewBorshDecoder(data[8:]).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func encodeAccount(discriminator [8]byte, in interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	if err := binary.NewBorshEncoder(buf).Encode(in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ParseAccount_LbPair(data []byte) (*LbPair, error) {
	out := new(LbPair)
	if err := decodeAccount(data, Account_LbPair, "LbPair", out); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_BinArray(data []byte) (*BinArray, error) {
	out := new(BinArray)
	if err := decodeAccount(data, Account_BinArray, "BinArray", out); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_BinArrayBitmapExtension(data []byte) (*BinArrayBitmapExtension, error) {
	out := new(BinArrayBitmapExtension)
	if err := decodeAccount(data, Account_BinArrayBitmapExtension, "BinArrayBitmapExtension", out); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_Position(data []byte) (*Position, error) {
	out := new(Position)
	if err := decodeAccount(data, Account_Position, "Position", out); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseAccount_PositionV2(data []byte) (*PositionV2, error) {
	out := new(PositionV2)
	if err := decodeAccount(data, Account_PositionV2, "PositionV2", out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsPositionV2 reports whether data carries the PositionV2 discriminator.
func IsPositionV2(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], Account_PositionV2[:])
}

func (a *LbPair) Marshal() ([]byte, error) {
	return encodeAccount(Account_LbPair, a)
}

func (a *BinArray) Marshal() ([]byte, error) {
	return encodeAccount(Account_BinArray, a)
}

func (a *BinArrayBitmapExtension) Marshal() ([]byte, error) {
	return encodeAccount(Account_BinArrayBitmapExtension, a)
}

func (a *Position) Marshal() ([]byte, error) {
	return encodeAccount(Account_Position, a)
}

func (a *PositionV2) Marshal() ([]byte, error) {
	return encodeAccount(Account_PositionV2, a)
}
