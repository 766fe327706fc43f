package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/meteora-dlmm-go/dlmm"
	dlmmmath "github.com/krazyTry/meteora-dlmm-go/dlmm/math"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

var (
	ErrInvalidJSON      = errors.New("snapshot is not valid json")
	ErrMissingPool      = errors.New("snapshot has no pool")
	ErrPositionNotFound = errors.New("position not in snapshot")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Account is one raw account as stored in a snapshot file.
type Account struct {
	Address string `json:"address"`
	Data    []byte `json:"data"`
}

// File is the on-disk layout of a snapshot.
type File struct {
	Pool            Account   `json:"pool"`
	BinArrays       []Account `json:"binArrays,omitempty"`
	BitmapExtension *Account  `json:"bitmapExtension,omitempty"`
	Positions       []Account `json:"positions,omitempty"`
}

// Encode writes f as snapshot JSON with base64 account data.
func Encode(f File) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Snapshot holds the decoded records of one pool.
type Snapshot struct {
	Pool            *dlmm.Pool
	BinArrays       []dlmm.BinArrayAccount
	BitmapExtension *lbclmm.BinArrayBitmapExtension
	Positions       []*dlmm.PositionState
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes snapshot JSON.
func Parse(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	if !gjson.GetBytes(data, "pool").Exists() {
		return nil, ErrMissingPool
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	address, err := f.Pool.key()
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	out := &Snapshot{}
	if out.Pool, err = dlmm.NewPool(address, f.Pool.Data); err != nil {
		return nil, fmt.Errorf("pool %s: %w", address, err)
	}

	for i, item := range f.BinArrays {
		var address solana.PublicKey
		// A bin array without an address is keyed by its derived account.
		if item.Address != "" {
			if address, err = item.key(); err != nil {
				return nil, fmt.Errorf("bin array %d: %w", i, err)
			}
		}
		ba, err := dlmm.NewBinArrayAccount(address, item.Data)
		if err != nil {
			return nil, fmt.Errorf("bin array %d: %w", i, err)
		}
		if address.IsZero() {
			ba.PublicKey = lbclmm.DeriveBinArray(out.Pool.Address, ba.Account.Index)
		}
		out.BinArrays = append(out.BinArrays, ba)
	}

	if ext := f.BitmapExtension; ext != nil {
		if out.BitmapExtension, err = lbclmm.ParseAccount_BinArrayBitmapExtension(ext.Data); err != nil {
			return nil, fmt.Errorf("bitmap extension %s: %w", ext.Address, err)
		}
	}

	for i, item := range f.Positions {
		address, err := item.key()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		position, err := dlmm.NewPositionState(address, item.Data)
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", address, err)
		}
		out.Positions = append(out.Positions, position)
	}
	return out, nil
}

func (a Account) key() (solana.PublicKey, error) {
	address, err := solana.PublicKeyFromBase58(a.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("address: %w", err)
	}
	return address, nil
}

// Position returns the position stored under address.
func (s *Snapshot) Position(address solana.PublicKey) (*dlmm.PositionState, error) {
	for _, p := range s.Positions {
		if p.Address.Equals(address) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", address, ErrPositionNotFound)
}

// PositionBinArrays returns the bin arrays covering position's lower and
// upper bins. Either is nil when the snapshot lacks it.
func (s *Snapshot) PositionBinArrays(position *dlmm.PositionState) (lower, upper *lbclmm.BinArray) {
	find := func(binId int32) *lbclmm.BinArray {
		if ba := dlmmmath.FindBinArray(s.BinArrays, dlmmmath.BinIdToBinArrayIndex(binId)); ba != nil {
			return ba.Account
		}
		return nil
	}
	return find(position.LowerBinId), find(position.UpperBinId)
}
