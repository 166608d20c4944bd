// Package integrate computes definite integrals with the composite
// trapezoidal rule, splitting the interval into partitions that are
// evaluated concurrently.
//
// # Components
//
//   - [Evaluate]: the trapezoidal rule over a single sub-range
//   - [Plan]: divides [0, totalIntervals) into contiguous partitions
//   - [Accumulator]: runs partitions on a bounded worker pool and merges
//     their partial areas into a single total
//
// [Integrate] wires the three together and is the entry point for callers.
// [Sequential] computes the same partitions on the calling goroutine and is
// the reference the parallel result is checked against.
//
// # Partitioning
//
// A run over N intervals with P partitions uses a chunk of N/P intervals per
// partition; the last partition absorbs the remainder:
//
//	Plan(10, 3) -> [0,3) [3,6) [6,10)
//
// Partition i covers the real range
//
//	[start + lo*(end-start)/N, start + hi*(end-start)/N]
//
// with hi-lo trapezoids, so every partition shares the same step width.
//
// # Merging
//
// Three merge strategies are available:
//
//   - [MergeOrdered] (default): every worker owns one result slot; the slots
//     are folded in partition order after all workers finish. No locking is
//     needed and the total is bitwise reproducible.
//   - [MergeLocked]: a mutex-guarded running total, updated as each
//     partition completes.
//   - [MergeAtomic]: a compare-and-swap float accumulator.
//
// # Failures
//
// Plan failures abort a run before any work is dispatched. A partition whose
// area is not finite, or whose function panics, fails on its own: the other
// partitions still run and merge, and the run reports every failure joined
// together. Nothing that was merged is rolled back.
package integrate
