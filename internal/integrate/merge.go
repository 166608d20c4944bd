package integrate

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// MergeStrategy selects how partial areas are combined into the total.
type MergeStrategy string

const (
	// MergeOrdered folds per-partition slots in plan order after the join.
	MergeOrdered MergeStrategy = "ordered"
	// MergeLocked adds each partial to a mutex-guarded total on completion.
	MergeLocked MergeStrategy = "locked"
	// MergeAtomic adds each partial with a compare-and-swap loop on completion.
	MergeAtomic MergeStrategy = "atomic"
)

// ValidStrategies returns the accepted strategy names.
func ValidStrategies() []string {
	return []string{string(MergeOrdered), string(MergeLocked), string(MergeAtomic)}
}

// ParseStrategy converts a configuration string into a MergeStrategy.
// An empty string selects MergeOrdered.
func ParseStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeOrdered:
		return MergeOrdered, nil
	case MergeLocked:
		return MergeLocked, nil
	case MergeAtomic:
		return MergeAtomic, nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q (valid: %s)", s, strings.Join(ValidStrategies(), ", "))
	}
}

// merger combines partial areas. add is called once per merged partition,
// possibly from many goroutines; total is called once, after the join.
type merger interface {
	add(area float64)
	total(partials []PartialResult) float64
}

func newMerger(s MergeStrategy) merger {
	switch s {
	case MergeLocked:
		return &lockedMerger{}
	case MergeAtomic:
		return &atomicMerger{sum: atomic.NewFloat64(0)}
	default:
		return orderedMerger{}
	}
}

// orderedMerger relies on slot ownership: each worker writes only its own
// partition's entry, and the fold runs single-threaded after the join.
type orderedMerger struct{}

func (orderedMerger) add(float64) {}

func (orderedMerger) total(partials []PartialResult) float64 {
	sum := 0.0
	for _, p := range partials {
		if p.Status == PartitionMerged {
			sum += p.Area
		}
	}
	return sum
}

type lockedMerger struct {
	mu  sync.Mutex
	sum float64
}

func (m *lockedMerger) add(area float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sum += area
}

func (m *lockedMerger) total([]PartialResult) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sum
}

type atomicMerger struct {
	sum *atomic.Float64
}

func (m *atomicMerger) add(area float64) {
	m.sum.Add(area)
}

func (m *atomicMerger) total([]PartialResult) float64 {
	return m.sum.Load()
}
