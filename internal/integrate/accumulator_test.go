package integrate

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	gintegrate "gonum.org/v1/gonum/integrate"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
)

const relTol = 1e-9

func quadratic(t *testing.T) function.Function {
	t.Helper()
	fn, err := function.Lookup(function.Quadratic)
	require.NoError(t, err)
	return fn
}

func TestEvaluate_QuadraticDiscretizationError(t *testing.T) {
	fn := quadratic(t)
	const a, b, n = 1.0, 35.0, 10

	got := Evaluate(fn, a, b, n)

	antiderivative := func(x float64) float64 { return 2*x*x*x/3 + 3*x }
	exact := antiderivative(b) - antiderivative(a)
	h := (b - a) / n
	// For a quadratic the trapezoid error is exactly (b-a) h^2 f'' / 12, with f'' = 4.
	wantErr := (b - a) * h * h * 4 / 12

	require.InDelta(t, 28684.666666666668, exact, 1e-9)
	require.InDelta(t, wantErr, got-exact, 1e-6)
}

func TestEvaluate_MatchesGonumTrapezoidal(t *testing.T) {
	for _, id := range function.IDs() {
		if id == function.Reciprocal {
			continue
		}
		t.Run(id, func(t *testing.T) {
			fn, err := function.Lookup(id)
			require.NoError(t, err)

			const a, b, n = -2.0, 3.0, 500
			xs := make([]float64, n+1)
			ys := make([]float64, n+1)
			step := (b - a) / n
			for i := range xs {
				xs[i] = a + float64(i)*step
				ys[i] = fn.Eval(xs[i])
			}

			want := gintegrate.Trapezoidal(xs, ys)
			got := Evaluate(fn, a, b, n)
			require.True(t, scalar.EqualWithinAbsOrRel(want, got, 1e-12, relTol), "gonum=%v ours=%v", want, got)
		})
	}
}

func TestEvaluate_LinearIsExact(t *testing.T) {
	fn := function.New("double", "y = 2x", func(x float64) float64 { return 2 * x })
	require.InDelta(t, 1.0, Evaluate(fn, 0, 1, 7), 1e-12)
}

func TestIntegrate_OriginalScenarioMatchesSequentialExactly(t *testing.T) {
	fn := quadratic(t)

	res, err := Integrate(context.Background(), fn, 1, 35, 10, 10)
	require.NoError(t, err)

	seq, err := Sequential(fn, 1, 35, 10, 10)
	require.NoError(t, err)

	require.Equal(t, seq, res.Total, "ordered merge must reproduce the sequential fold bit for bit")
	require.Equal(t, StateCompleted, res.State)
	require.Equal(t, 10, res.Merged())
	require.InDelta(t, 3.4, res.Step(), 1e-12)
}

func TestIntegrate_PartitioningDoesNotChangeResult(t *testing.T) {
	fns := []string{function.Quadratic, function.Sine, function.CubicMix}
	const total = 60

	for _, id := range fns {
		fn, err := function.Lookup(id)
		require.NoError(t, err)

		whole := Evaluate(fn, -1.5, 4.25, total)
		for p := 1; p <= total; p++ {
			seq, err := Sequential(fn, -1.5, 4.25, total, p)
			require.NoError(t, err)
			require.True(t, scalar.EqualWithinAbsOrRel(whole, seq, 1e-12, relTol),
				"%s with %d partitions: whole=%v partitioned=%v", id, p, whole, seq)

			res, err := Integrate(context.Background(), fn, -1.5, 4.25, total, p, WithWorkers(4))
			require.NoError(t, err)
			require.Equal(t, seq, res.Total)
		}
	}
}

func TestIntegrate_Idempotent(t *testing.T) {
	fn := quadratic(t)
	for _, s := range []MergeStrategy{MergeOrdered, MergeLocked, MergeAtomic} {
		t.Run(string(s), func(t *testing.T) {
			first, err := Integrate(context.Background(), fn, 0, 10, 1000, 37, WithStrategy(s))
			require.NoError(t, err)
			second, err := Integrate(context.Background(), fn, 0, 10, 1000, 37, WithStrategy(s))
			require.NoError(t, err)
			require.True(t, scalar.EqualWithinRel(first.Total, second.Total, relTol))
		})
	}
}

func TestIntegrate_NoLostUpdatesUnderContention(t *testing.T) {
	base := quadratic(t)
	slow := function.New("slow", base.Name, func(x float64) float64 {
		time.Sleep(20 * time.Microsecond)
		return base.Eval(x)
	})

	const total, partitions = 1000, 100
	want, err := Sequential(base, 1, 35, total, partitions)
	require.NoError(t, err)

	for _, s := range []MergeStrategy{MergeOrdered, MergeLocked, MergeAtomic} {
		t.Run(string(s), func(t *testing.T) {
			var reports atomic.Int64
			res, err := Integrate(context.Background(), slow, 1, 35, total, partitions,
				WithWorkers(16),
				WithStrategy(s),
				WithReporter(ReporterFunc(func(PartialResult) { reports.Add(1) })))
			require.NoError(t, err)

			require.Equal(t, int64(partitions), reports.Load())
			require.Equal(t, partitions, res.Merged())
			require.Equal(t, 16, res.Workers)
			require.True(t, scalar.EqualWithinRel(want, res.Total, relTol), "want=%v got=%v", want, res.Total)
		})
	}
}

func TestIntegrate_InvalidRangeAbortsBeforeDispatch(t *testing.T) {
	fn := quadratic(t)
	tests := []struct {
		name       string
		start, end float64
		total      int
		partitions int
	}{
		{"zero intervals", 1, 35, 0, 1},
		{"zero partitions", 1, 35, 10, 0},
		{"partitions exceed intervals", 1, 35, 10, 11},
		{"reversed bounds", 35, 1, 10, 10},
		{"empty interval", 2, 2, 10, 10},
		{"non-finite bound", math.Inf(-1), 1, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var states []State
			reported := false
			res, err := Integrate(context.Background(), fn, tt.start, tt.end, tt.total, tt.partitions,
				WithStateHook(func(s State) { states = append(states, s) }),
				WithReporter(ReporterFunc(func(PartialResult) { reported = true })))

			require.Error(t, err)
			require.True(t, errors.IsInvalidRange(err), "got %v", err)
			require.False(t, reported, "no partition may run")
			require.Nil(t, res.Partials)
			require.Equal(t, StateFailed, res.State)
			require.Equal(t, []State{StatePlanned, StateFailed}, states)
		})
	}
}

func TestIntegrate_StateTransitions(t *testing.T) {
	var states []State
	_, err := Integrate(context.Background(), quadratic(t), 0, 1, 8, 4,
		WithStateHook(func(s State) { states = append(states, s) }))
	require.NoError(t, err)
	require.Equal(t, []State{StatePlanned, StateDispatching, StateAwaiting, StateCompleted}, states)
	require.True(t, states[len(states)-1].Terminal())
}

func TestIntegrate_NonFinitePartitionFailsRunWithoutRollback(t *testing.T) {
	// Defined on [0, 5); NaN from 5 onward.
	fn := function.New("half", "y = x for x < 5", func(x float64) float64 {
		if x >= 5 {
			return math.NaN()
		}
		return x
	})

	for _, s := range []MergeStrategy{MergeOrdered, MergeLocked, MergeAtomic} {
		t.Run(string(s), func(t *testing.T) {
			res, err := Integrate(context.Background(), fn, 0, 10, 10, 5, WithStrategy(s), WithWorkers(3))
			require.Error(t, err)
			require.True(t, errors.IsEvaluationFailure(err))
			require.True(t, errors.Is(err, errors.ErrNonFiniteResult))

			evalErrs := errors.EvaluationErrors(err)
			failed := map[int]bool{}
			for _, e := range evalErrs {
				failed[e.Partition] = true
			}
			require.Equal(t, map[int]bool{2: true, 3: true, 4: true}, failed)

			require.Equal(t, StateFailed, res.State)
			require.Equal(t, 2, res.Merged())
			require.Equal(t, 3, res.Count(PartitionFailed))
			// Partitions [0,2) and [2,4) merged: the integral of x over [0,4].
			require.InDelta(t, 8.0, res.Total, 1e-12)
		})
	}
}

func TestIntegrate_PanickingFunction(t *testing.T) {
	fn := function.New("boom", "y = boom", func(x float64) float64 {
		if x > 8 {
			panic("domain error")
		}
		return 1
	})

	res, err := Integrate(context.Background(), fn, 0, 10, 10, 5)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrEvaluationPanic))
	require.Equal(t, PartitionFailed, res.Partials[4].Status)
	require.Equal(t, 4, res.Merged())
	require.InDelta(t, 8.0, res.Total, 1e-12)
}

func TestIntegrate_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Integrate(ctx, quadratic(t), 1, 35, 100, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrRunCanceled))
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 10, res.Count(PartitionSkipped))
	require.Equal(t, 0.0, res.Total)
	require.Equal(t, StateFailed, res.State)
}

func TestIntegrate_CancelKeepsMergedProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fn := quadratic(t)
	res, err := Integrate(ctx, fn, 1, 35, 100, 10,
		WithWorkers(1),
		WithReporter(ReporterFunc(func(PartialResult) { cancel() })))

	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrRunCanceled))
	require.Equal(t, 1, res.Merged())
	require.Equal(t, 9, res.Count(PartitionSkipped))
	require.Equal(t, res.Partials[0].Area, res.Total)
}

func TestAccumulator_ReportsAreSerialized(t *testing.T) {
	var inside, overlaps atomic.Int32
	var mu sync.Mutex
	seen := map[int]PartitionStatus{}

	reporter := ReporterFunc(func(p PartialResult) {
		if inside.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(100 * time.Microsecond)
		mu.Lock()
		seen[p.Partition.Index] = p.Status
		mu.Unlock()
		inside.Add(-1)
	})

	res, err := Integrate(context.Background(), quadratic(t), 0, 1, 64, 32, WithWorkers(8), WithReporter(reporter))
	require.NoError(t, err)
	require.Zero(t, overlaps.Load())
	require.Len(t, seen, 32)
	for idx, status := range seen {
		require.Equal(t, PartitionMerged, status, "partition %d", idx)
		require.Equal(t, res.Partials[idx].Status, status)
	}
}

func TestAccumulator_PartialCoordinates(t *testing.T) {
	res, err := Integrate(context.Background(), quadratic(t), 1, 35, 10, 3)
	require.NoError(t, err)

	require.Len(t, res.Partials, 3)
	require.InDelta(t, 1.0, res.Partials[0].RangeStart, 1e-12)
	require.InDelta(t, 11.2, res.Partials[0].RangeEnd, 1e-12)
	require.InDelta(t, 21.4, res.Partials[2].RangeStart, 1e-12)
	require.InDelta(t, 35.0, res.Partials[2].RangeEnd, 1e-12)
	for i := 1; i < len(res.Partials); i++ {
		require.Equal(t, res.Partials[i-1].RangeEnd, res.Partials[i].RangeStart, "partitions must share boundaries")
	}
}

func TestAccumulator_EffectiveWorkers(t *testing.T) {
	tests := []struct {
		name       string
		workers    int
		partitions int
		want       int
	}{
		{"bounded by partitions", 8, 3, 3},
		{"explicit", 2, 10, 2},
		{"single partition", 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccumulator(WithWorkers(tt.workers))
			require.Equal(t, tt.want, a.effectiveWorkers(tt.partitions))
		})
	}
}

func TestSequential_PropagatesFailures(t *testing.T) {
	fn, err := function.Lookup(function.Reciprocal)
	require.NoError(t, err)

	_, err = Sequential(fn, -1, 1, 10, 10)
	require.Error(t, err)
	require.True(t, errors.IsEvaluationFailure(err))

	_, err = Sequential(fn, 1, 2, 0, 1)
	require.True(t, errors.IsInvalidRange(err))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeStrategy
		wantErr bool
	}{
		{"", MergeOrdered, false},
		{"ordered", MergeOrdered, false},
		{"LOCKED", MergeLocked, false},
		{" atomic ", MergeAtomic, false},
		{"spinlock", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "planned", StatePlanned.String())
	require.Equal(t, "awaiting", StateAwaiting.String())
	require.Equal(t, "unknown", State(42).String())
	require.Equal(t, "skipped", PartitionSkipped.String())
	require.False(t, StateDispatching.Terminal())
}
