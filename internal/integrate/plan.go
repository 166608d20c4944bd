package integrate

import (
	"fmt"
	"iter"
	"slices"

	"github.com/Elenmith/TPLProgram/internal/errors"
)

// Partition is a half-open index range [Lo, Hi) over the interval count.
type Partition struct {
	Index int // Position of the partition in plan order
	Lo    int // First interval index (inclusive)
	Hi    int // Last interval index (exclusive)
}

// Width returns the number of intervals the partition covers.
func (p Partition) Width() int {
	return p.Hi - p.Lo
}

// String renders the partition as "[lo,hi)".
func (p Partition) String() string {
	return fmt.Sprintf("[%d,%d)", p.Lo, p.Hi)
}

// Plan divides [0, totalIntervals) into partitionCount contiguous partitions
// of totalIntervals/partitionCount intervals each. The last partition absorbs
// the remainder.
//
// The returned sequence is lazy and stateless; ranging over it again yields
// the same partitions. Plan fails with an InvalidRange error when either
// count is not positive or when partitionCount exceeds totalIntervals.
func Plan(totalIntervals, partitionCount int) (iter.Seq[Partition], error) {
	if err := validatePlan(totalIntervals, partitionCount); err != nil {
		return nil, err
	}

	chunk := totalIntervals / partitionCount

	return func(yield func(Partition) bool) {
		for i := 0; i < partitionCount; i++ {
			lo := i * chunk
			hi := lo + chunk
			if i == partitionCount-1 {
				hi = totalIntervals
			}
			if !yield(Partition{Index: i, Lo: lo, Hi: hi}) {
				return
			}
		}
	}, nil
}

// PlanAll is Plan collected into a slice.
func PlanAll(totalIntervals, partitionCount int) ([]Partition, error) {
	seq, err := Plan(totalIntervals, partitionCount)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

func validatePlan(totalIntervals, partitionCount int) error {
	var msg string
	switch {
	case totalIntervals <= 0:
		msg = "interval count must be positive"
	case partitionCount <= 0:
		msg = "partition count must be positive"
	case partitionCount > totalIntervals:
		msg = "partition count exceeds interval count, chunk size would be zero"
	default:
		return nil
	}
	return errors.NewRangeError(msg, errors.ErrInvalidRange).
		WithIntervals(totalIntervals).
		WithPartitions(partitionCount)
}
