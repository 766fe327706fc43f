package shared

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// PositionVersion tags the storage scale of a position's liquidity shares.
type PositionVersion uint8

const (
	// PositionVersionV1 stores shares as raw liquidity units.
	PositionVersionV1 PositionVersion = 1
	// PositionVersionV2 stores shares shifted left by ScaleOffset.
	PositionVersionV2 PositionVersion = 2
)

func (v PositionVersion) String() string {
	switch v {
	case PositionVersionV1:
		return "v1"
	case PositionVersionV2:
		return "v2"
	default:
		return fmt.Sprintf("PositionVersion(%d)", uint8(v))
	}
}

// AccrualShare converts a stored share into raw liquidity units, the scale
// fee and reward accumulators are multiplied by.
func (v PositionVersion) AccrualShare(share *uint256.Int) *uint256.Int {
	if v == PositionVersionV2 {
		return new(uint256.Int).Rsh(share, ScaleOffset)
	}
	return new(uint256.Int).Set(share)
}

// ReserveShare converts a stored share to the scale of the liquidity supply
// kept by a bin array of the given version.
func (v PositionVersion) ReserveShare(share *uint256.Int, binArrayVersion uint8) *uint256.Int {
	switch {
	case v == PositionVersionV1 && binArrayVersion == 1:
		return new(uint256.Int).Lsh(share, ScaleOffset)
	case v == PositionVersionV2 && binArrayVersion == 0:
		return new(uint256.Int).Rsh(share, ScaleOffset)
	default:
		return new(uint256.Int).Set(share)
	}
}

// PositionState is a version-neutral view over Position and PositionV2
// records. Per-bin slices are indexed by binId - LowerBinId.
type PositionState struct {
	Address          solanago.PublicKey
	Version          PositionVersion
	LbPair           solanago.PublicKey
	Owner            solanago.PublicKey
	LowerBinId       int32
	UpperBinId       int32
	LastUpdatedAt    int64
	LiquidityShares  [lbclmm.MaxBinPerArray]*uint256.Int
	FeeInfos         [lbclmm.MaxBinPerArray]lbclmm.FeeInfo
	RewardInfos      [lbclmm.MaxBinPerArray]lbclmm.UserRewardInfo
	TotalClaimedFeeX uint64
	TotalClaimedFeeY uint64
}

func NewPositionStateV1(address solanago.PublicKey, p *lbclmm.Position) *PositionState {
	out := &PositionState{
		Address:          address,
		Version:          PositionVersionV1,
		LbPair:           p.LbPair,
		Owner:            p.Owner,
		LowerBinId:       p.LowerBinId,
		UpperBinId:       p.UpperBinId,
		LastUpdatedAt:    p.LastUpdatedAt,
		FeeInfos:         p.FeeInfos,
		RewardInfos:      p.RewardInfos,
		TotalClaimedFeeX: p.TotalClaimedFeeXAmount,
		TotalClaimedFeeY: p.TotalClaimedFeeYAmount,
	}
	for i, s := range p.LiquidityShares {
		out.LiquidityShares[i] = uint256.NewInt(s)
	}
	return out
}

func NewPositionStateV2(address solanago.PublicKey, p *lbclmm.PositionV2) *PositionState {
	out := &PositionState{
		Address:          address,
		Version:          PositionVersionV2,
		LbPair:           p.LbPair,
		Owner:            p.Owner,
		LowerBinId:       p.LowerBinId,
		UpperBinId:       p.UpperBinId,
		LastUpdatedAt:    p.LastUpdatedAt,
		FeeInfos:         p.FeeInfos,
		RewardInfos:      p.RewardInfos,
		TotalClaimedFeeX: p.TotalClaimedFeeXAmount,
		TotalClaimedFeeY: p.TotalClaimedFeeYAmount,
	}
	for i, s := range p.LiquidityShares {
		out.LiquidityShares[i] = U256FromRecord(s)
	}
	return out
}

// DecodePositionState decodes either position layout.
func DecodePositionState(address solanago.PublicKey, data []byte) (*PositionState, error) {
	if lbclmm.IsPositionV2(data) {
		p, err := lbclmm.ParseAccount_PositionV2(data)
		if err != nil {
			return nil, err
		}
		return NewPositionStateV2(address, p), nil
	}
	p, err := lbclmm.ParseAccount_Position(data)
	if err != nil {
		return nil, err
	}
	return NewPositionStateV1(address, p), nil
}

// Share returns the stored share for binId, zero outside the position.
func (p *PositionState) Share(binId int32) *uint256.Int {
	i := binId - p.LowerBinId
	if i < 0 || int(i) >= len(p.LiquidityShares) || p.LiquidityShares[i] == nil {
		return new(uint256.Int)
	}
	return p.LiquidityShares[i]
}

func U256FromRecord(v binary.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}
