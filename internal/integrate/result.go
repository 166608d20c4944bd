package integrate

import (
	"time"
)

// State is the lifecycle of one integration run.
//
//	Planned -> Dispatching -> Awaiting -> Completed | Failed
type State int

const (
	StatePlanned State = iota
	StateDispatching
	StateAwaiting
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlanned:
		return "planned"
	case StateDispatching:
		return "dispatching"
	case StateAwaiting:
		return "awaiting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// PartitionStatus is the outcome of a single partition.
type PartitionStatus int

const (
	PartitionPending PartitionStatus = iota
	PartitionMerged
	PartitionFailed
	PartitionSkipped
)

// String returns the status name.
func (s PartitionStatus) String() string {
	switch s {
	case PartitionPending:
		return "pending"
	case PartitionMerged:
		return "merged"
	case PartitionFailed:
		return "failed"
	case PartitionSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// PartialResult is the trapezoidal contribution of one partition.
type PartialResult struct {
	Partition  Partition
	RangeStart float64
	RangeEnd   float64
	Area       float64
	Duration   time.Duration
	Status     PartitionStatus
	Err        error
}

// Result is the outcome of one integration run.
//
// Total is only meaningful when State is StateCompleted. On failure it holds
// the contributions that were merged before the run failed.
type Result struct {
	Function   string
	Start      float64
	End        float64
	Intervals  int
	Partitions int
	Workers    int
	Strategy   MergeStrategy

	Total    float64
	Partials []PartialResult
	State    State
	Elapsed  time.Duration
}

// Count returns how many partitions ended with the given status.
func (r Result) Count(status PartitionStatus) int {
	n := 0
	for _, p := range r.Partials {
		if p.Status == status {
			n++
		}
	}
	return n
}

// Merged returns the number of partitions whose area is part of Total.
func (r Result) Merged() int {
	return r.Count(PartitionMerged)
}

// Step returns the uniform trapezoid width of the run.
func (r Result) Step() float64 {
	if r.Intervals <= 0 {
		return 0
	}
	return (r.End - r.Start) / float64(r.Intervals)
}
