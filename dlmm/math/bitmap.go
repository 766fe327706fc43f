package math

import (
	"math/bits"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

const (
	MinBinArrayIndexInline = -shared.BinArrayBitmapSize
	MaxBinArrayIndexInline = shared.BinArrayBitmapSize - 1

	MinBinArrayIndexExtension = -shared.BinArrayBitmapSize * (shared.ExtensionBinArrayBitmapSize + 1)
	MaxBinArrayIndexExtension = shared.BinArrayBitmapSize*(shared.ExtensionBinArrayBitmapSize+1) - 1
)

// LiquidityIndex tracks which bin array indexes may hold liquidity.
type LiquidityIndex interface {
	// Covers reports whether index falls inside the range this index tracks.
	Covers(index int64) bool
	// IsSet reports whether the bin array at index is marked.
	IsSet(index int64) bool
	// NextSetIndex searches from index (inclusive) toward lower or higher
	// indexes, without leaving the contiguous range that contains index.
	NextSetIndex(from int64, towardLower bool) (int64, bool)
}

// bitSegment maps a contiguous index range onto a little-endian bit vector.
// Ascending segments store first at bit 0 and grow upward, descending ones
// store first at bit 0 and grow downward.
type bitSegment struct {
	words      []uint64
	first      int64
	descending bool
}

func (s bitSegment) size() int64 {
	return int64(len(s.words)) * 64
}

func (s bitSegment) pos(index int64) (int64, bool) {
	p := index - s.first
	if s.descending {
		p = s.first - index
	}
	return p, p >= 0 && p < s.size()
}

func (s bitSegment) index(pos int64) int64 {
	if s.descending {
		return s.first - pos
	}
	return s.first + pos
}

func (s bitSegment) covers(index int64) bool {
	_, ok := s.pos(index)
	return ok
}

func (s bitSegment) isSet(index int64) bool {
	p, ok := s.pos(index)
	if !ok {
		return false
	}
	return s.words[p/64]&(1<<uint(p%64)) != 0
}

func (s bitSegment) next(from int64, towardLower bool) (int64, bool) {
	p, ok := s.pos(from)
	if !ok {
		return 0, false
	}
	var found int64
	if towardLower == s.descending {
		found, ok = scanUp(s.words, p)
	} else {
		found, ok = scanDown(s.words, p)
	}
	if !ok {
		return 0, false
	}
	return s.index(found), true
}

// scanUp returns the lowest set bit at or above pos, skipping zero words.
func scanUp(words []uint64, pos int64) (int64, bool) {
	w := pos / 64
	word := words[w] &^ (1<<uint(pos%64) - 1)
	for {
		if word != 0 {
			return w*64 + int64(bits.TrailingZeros64(word)), true
		}
		w++
		if w >= int64(len(words)) {
			return 0, false
		}
		word = words[w]
	}
}

// scanDown returns the highest set bit at or below pos, skipping zero words.
func scanDown(words []uint64, pos int64) (int64, bool) {
	w := pos / 64
	shift := uint(63 - pos%64)
	word := words[w] << shift >> shift
	for {
		if word != 0 {
			return w*64 + int64(63-bits.LeadingZeros64(word)), true
		}
		w--
		if w < 0 {
			return 0, false
		}
		word = words[w]
	}
}

// InlineBitmap is the pair's own bitmap covering indexes [-512, 511].
type InlineBitmap struct {
	seg bitSegment
}

func NewInlineBitmap(pair *lbclmm.LbPair) *InlineBitmap {
	words := make([]uint64, len(pair.BinArrayBitmap))
	copy(words, pair.BinArrayBitmap[:])
	return &InlineBitmap{seg: bitSegment{words: words, first: MinBinArrayIndexInline}}
}

func (b *InlineBitmap) Covers(index int64) bool { return b.seg.covers(index) }

func (b *InlineBitmap) IsSet(index int64) bool { return b.seg.isSet(index) }

func (b *InlineBitmap) NextSetIndex(from int64, towardLower bool) (int64, bool) {
	return b.seg.next(from, towardLower)
}

// ExtensionBitmap covers [-6656, -513] and [512, 6655]. The negative half is
// stored with -513 at bit 0, growing toward lower indexes.
type ExtensionBitmap struct {
	positive bitSegment
	negative bitSegment
}

func NewExtensionBitmap(ext *lbclmm.BinArrayBitmapExtension) *ExtensionBitmap {
	flatten := func(in [lbclmm.ExtensionBitmapSize][lbclmm.ExtensionBitmapWords]uint64) []uint64 {
		out := make([]uint64, 0, lbclmm.ExtensionBitmapSize*lbclmm.ExtensionBitmapWords)
		for _, row := range in {
			out = append(out, row[:]...)
		}
		return out
	}
	return &ExtensionBitmap{
		positive: bitSegment{words: flatten(ext.PositiveBinArrayBitmap), first: MaxBinArrayIndexInline + 1},
		negative: bitSegment{words: flatten(ext.NegativeBinArrayBitmap), first: MinBinArrayIndexInline - 1, descending: true},
	}
}

func (b *ExtensionBitmap) segment(index int64) (bitSegment, bool) {
	if b.positive.covers(index) {
		return b.positive, true
	}
	if b.negative.covers(index) {
		return b.negative, true
	}
	return bitSegment{}, false
}

func (b *ExtensionBitmap) Covers(index int64) bool {
	_, ok := b.segment(index)
	return ok
}

func (b *ExtensionBitmap) IsSet(index int64) bool {
	seg, ok := b.segment(index)
	return ok && seg.isSet(index)
}

func (b *ExtensionBitmap) NextSetIndex(from int64, towardLower bool) (int64, bool) {
	seg, ok := b.segment(from)
	if !ok {
		return 0, false
	}
	return seg.next(from, towardLower)
}

// ExtensionBitmapOffset returns the row and bit of index inside the
// extension bitmap, following the ledger's layout.
func ExtensionBitmapOffset(index int64) (offset int, bit int) {
	if index > 0 {
		return int(index/shared.BinArrayBitmapSize) - 1, int(index % shared.BinArrayBitmapSize)
	}
	return int(-(index+1)/shared.BinArrayBitmapSize) - 1, int((-(index + 1)) % shared.BinArrayBitmapSize)
}

// NextBinArrayIndexWithLiquidity returns the first marked bin array index at
// or beyond the array holding activeId in the swap direction. ext may be nil.
func NextBinArrayIndexWithLiquidity(swapForY bool, activeId int32, inline, ext LiquidityIndex) (int64, bool) {
	return NextBinArrayIndexFrom(swapForY, BinIdToBinArrayIndex(activeId), inline, ext)
}

// NextBinArrayIndexFrom is NextBinArrayIndexWithLiquidity starting at a bin
// array index. Searching toward lower indexes when swapForY.
func NextBinArrayIndexFrom(swapForY bool, start int64, inline, ext LiquidityIndex) (int64, bool) {
	idx := start
	for {
		switch {
		case inline.Covers(idx):
			if found, ok := inline.NextSetIndex(idx, swapForY); ok {
				return found, true
			}
			if swapForY {
				idx = MinBinArrayIndexInline - 1
			} else {
				idx = MaxBinArrayIndexInline + 1
			}
		case ext != nil && ext.Covers(idx):
			if found, ok := ext.NextSetIndex(idx, swapForY); ok {
				return found, true
			}
			switch {
			case swapForY && idx > 0:
				idx = MaxBinArrayIndexInline
			case !swapForY && idx < 0:
				idx = MinBinArrayIndexInline
			default:
				return 0, false
			}
		default:
			return 0, false
		}
	}
}
