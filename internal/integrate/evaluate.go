package integrate

import "github.com/Elenmith/TPLProgram/internal/function"

// Evaluate applies the composite trapezoidal rule to fn over
// [rangeStart, rangeEnd] using n equal steps.
//
// The caller guarantees n >= 1 and rangeEnd >= rangeStart.
func Evaluate(fn function.Function, rangeStart, rangeEnd float64, n int) float64 {
	step := (rangeEnd - rangeStart) / float64(n)
	result := 0.0

	for i := 0; i < n; i++ {
		x1 := rangeStart + float64(i)*step
		x2 := x1 + step
		result += (fn.At(x1) + fn.At(x2)) / 2 * step
	}

	return result
}

// bounds maps a partition's index range onto the real axis.
func bounds(start, end float64, totalIntervals int, p Partition) (float64, float64) {
	width := end - start
	lo := start + float64(p.Lo)*width/float64(totalIntervals)
	hi := start + float64(p.Hi)*width/float64(totalIntervals)
	return lo, hi
}
