package math

import (
	"fmt"

	"github.com/krazyTry/meteora-dlmm-go/dlmm/shared"
	lbclmm "github.com/krazyTry/meteora-dlmm-go/gen/lb_clmm"
)

// BinIdToBinArrayIndex returns the index of the bin array holding binId,
// rounding toward negative infinity.
func BinIdToBinArrayIndex(binId int32) int64 {
	idx := int64(binId) / shared.MaxBinPerArray
	if binId < 0 && int64(binId)%shared.MaxBinPerArray != 0 {
		idx--
	}
	return idx
}

// GetBinArrayLowerUpperBinId returns the inclusive bin id range of an array.
func GetBinArrayLowerUpperBinId(binArrayIndex int64) (int32, int32) {
	lower := binArrayIndex * shared.MaxBinPerArray
	return int32(lower), int32(lower + shared.MaxBinPerArray - 1)
}

func IsBinIdWithinBinArray(binId int32, binArrayIndex int64) bool {
	lower, upper := GetBinArrayLowerUpperBinId(binArrayIndex)
	return binId >= lower && binId <= upper
}

// GetBinArrayIndexesCoverage lists every array index touching [lowerBinId, upperBinId].
func GetBinArrayIndexesCoverage(lowerBinId, upperBinId int32) []int64 {
	lo := BinIdToBinArrayIndex(lowerBinId)
	hi := BinIdToBinArrayIndex(upperBinId)
	if hi < lo {
		return nil
	}
	out := make([]int64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// GetBinFromBinArray returns the bin record for binId inside binArray.
func GetBinFromBinArray(binId int32, binArray *lbclmm.BinArray) (*lbclmm.Bin, error) {
	if !IsBinIdWithinBinArray(binId, binArray.Index) {
		return nil, fmt.Errorf("bin %d outside bin array %d: %w", binId, binArray.Index, shared.ErrMissingBinArray)
	}
	lower, _ := GetBinArrayLowerUpperBinId(binArray.Index)
	return &binArray.Bins[binId-lower], nil
}

// FindBinArray returns the supplied array with the given index, or nil.
func FindBinArray(binArrays []shared.BinArrayAccount, index int64) *shared.BinArrayAccount {
	for i := range binArrays {
		if binArrays[i].Account != nil && binArrays[i].Account.Index == index {
			return &binArrays[i]
		}
	}
	return nil
}
