// Package topology converts between the two encodings of variable-length
// element lists used by the geometry models: cumulative offsets (N+1
// entries, starting at zero) and per-element counts (N entries).
//
// Both encodings index into the same flattened vertex-index array, which is
// shared verbatim and never touched here.
package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTopology is returned for an offsets array with no entries.
	// A valid offsets array always has at least the leading zero.
	ErrInvalidTopology = errors.New("topology: offsets array is empty")

	// ErrNonZeroStart is returned by Validate when offsets[0] != 0.
	ErrNonZeroStart = errors.New("topology: offsets must start at zero")

	// ErrDecreasingOffsets is returned by Validate when an offset is smaller
	// than its predecessor.
	ErrDecreasingOffsets = errors.New("topology: offsets must be non-decreasing")
)

// OffsetsToCounts returns counts[i] = offsets[i+1] - offsets[i].
//
// A single-element offsets array ([0]) describes zero elements and yields an
// empty, non-nil counts slice. Monotonicity is not checked; see Validate.
func OffsetsToCounts(offsets []int32) ([]int32, error) {
	if len(offsets) == 0 {
		return nil, ErrInvalidTopology
	}
	counts := make([]int32, len(offsets)-1)
	for i := range counts {
		counts[i] = offsets[i+1] - offsets[i]
	}
	return counts, nil
}

// CountsToOffsets returns the inclusive prefix sum of counts with a leading
// zero, so len(result) == len(counts)+1 and result[0] == 0.
func CountsToOffsets(counts []int32) []int32 {
	offsets := make([]int32, len(counts)+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}
	return offsets
}

// Validate checks the structural invariants of an offsets array.
func Validate(offsets []int32) error {
	if len(offsets) == 0 {
		return ErrInvalidTopology
	}
	if offsets[0] != 0 {
		return fmt.Errorf("%w: got %d", ErrNonZeroStart, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offsets[%d]=%d < offsets[%d]=%d",
				ErrDecreasingOffsets, i, offsets[i], i-1, offsets[i-1])
		}
	}
	return nil
}

// ElementCount returns the number of elements an offsets array describes,
// or zero for an empty array.
func ElementCount(offsets []int32) int {
	if len(offsets) == 0 {
		return 0
	}
	return len(offsets) - 1
}
