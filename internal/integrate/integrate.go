package integrate

import (
	"context"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
)

// Integrate computes the trapezoidal approximation of fn over [start, end]
// with totalIntervals trapezoids evaluated in partitionCount concurrent
// partitions.
//
// Errors are typed: errors.IsInvalidRange for rejected inputs,
// errors.IsEvaluationFailure when a partition produced a non-finite area.
func Integrate(ctx context.Context, fn function.Function, start, end float64, totalIntervals, partitionCount int, opts ...Option) (Result, error) {
	return NewAccumulator(opts...).Run(ctx, fn, start, end, totalIntervals, partitionCount)
}

// Sequential computes the same partitions as Integrate on the calling
// goroutine and sums them in plan order. With MergeOrdered the parallel
// total is bitwise equal to this one.
func Sequential(fn function.Function, start, end float64, totalIntervals, partitionCount int) (float64, error) {
	if err := validateBounds(start, end); err != nil {
		return 0, err
	}
	seq, err := Plan(totalIntervals, partitionCount)
	if err != nil {
		return 0, err
	}

	var errs []error
	total := 0.0
	for part := range seq {
		pr := evaluatePartition(fn, start, end, totalIntervals, part)
		if pr.Err != nil {
			errs = append(errs, pr.Err)
			continue
		}
		total += pr.Area
	}
	return total, errors.Join(errs...)
}
