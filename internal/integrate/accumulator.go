package integrate

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
	"github.com/Elenmith/TPLProgram/internal/logging"
)

// Accumulator runs the partitions of an integration on a bounded worker
// pool and merges their partial areas. An Accumulator holds no per-run
// state and may be reused; concurrent Runs share only the reporter lock.
type Accumulator struct {
	workers  int
	strategy MergeStrategy
	reporter Reporter
	onState  func(State)
	logger   *logging.Logger

	reportMu sync.Mutex
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithWorkers bounds the number of partitions evaluated at once.
// Zero or a negative value uses runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(a *Accumulator) { a.workers = n }
}

// WithStrategy selects the merge strategy.
func WithStrategy(s MergeStrategy) Option {
	return func(a *Accumulator) { a.strategy = s }
}

// WithReporter receives every partition outcome as it completes.
func WithReporter(r Reporter) Option {
	return func(a *Accumulator) { a.reporter = r }
}

// WithStateHook is called on every run state transition, from the goroutine
// that called Run.
func WithStateHook(fn func(State)) Option {
	return func(a *Accumulator) { a.onState = fn }
}

// WithLogger sets the logger used for state transitions and failures.
func WithLogger(l *logging.Logger) Option {
	return func(a *Accumulator) { a.logger = l }
}

// NewAccumulator creates an Accumulator with the given options.
func NewAccumulator(opts ...Option) *Accumulator {
	a := &Accumulator{
		strategy: MergeOrdered,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NopLogger()
	}
	return a
}

// effectiveWorkers returns the pool size for a run with the given
// partition count.
func (a *Accumulator) effectiveWorkers(partitions int) int {
	n := a.workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > partitions {
		n = partitions
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run integrates fn over [start, end] using totalIntervals trapezoids split
// into partitionCount partitions. It blocks until every dispatched
// partition has finished.
//
// If the plan is invalid Run returns before dispatching anything. If ctx is
// canceled, partitions that have not started are skipped and the run fails;
// partitions already merged stay in Result.Total.
func (a *Accumulator) Run(ctx context.Context, fn function.Function, start, end float64, totalIntervals, partitionCount int) (Result, error) {
	began := time.Now()
	res := Result{
		Function:   fn.Name,
		Start:      start,
		End:        end,
		Intervals:  totalIntervals,
		Partitions: partitionCount,
		Strategy:   a.strategy,
	}
	log := a.logger.WithFunction(fn.Name)

	a.transition(&res, StatePlanned, log)

	if err := validateBounds(start, end); err != nil {
		return a.fail(&res, began, err, log)
	}
	seq, err := Plan(totalIntervals, partitionCount)
	if err != nil {
		return a.fail(&res, began, err, log)
	}
	if fn.Eval == nil {
		return a.fail(&res, began, errors.NewValidationError("function has no evaluator").WithField("function").WithValue(fn.ID), log)
	}

	res.Workers = a.effectiveWorkers(partitionCount)
	res.Partials = make([]PartialResult, partitionCount)
	m := newMerger(a.strategy)

	p := pool.New().WithErrors().WithMaxGoroutines(res.Workers)

	a.transition(&res, StateDispatching, log)
	for part := range seq {
		res.Partials[part.Index] = PartialResult{Partition: part}
		p.Go(func() error {
			if ctx.Err() != nil {
				res.Partials[part.Index].Status = PartitionSkipped
				return nil
			}

			pr := evaluatePartition(fn, start, end, totalIntervals, part)
			if pr.Err == nil {
				m.add(pr.Area)
				pr.Status = PartitionMerged
			} else {
				pr.Status = PartitionFailed
				log.Warn("partition failed", "partition", part.Index, "range", part.String(), "error", pr.Err)
			}
			res.Partials[part.Index] = pr
			a.report(pr)
			return pr.Err
		})
	}

	a.transition(&res, StateAwaiting, log)
	runErr := p.Wait()

	res.Total = m.total(res.Partials)
	res.Elapsed = time.Since(began)

	if skipped := res.Count(PartitionSkipped); skipped > 0 {
		cancelErr := fmt.Errorf("%w: %d of %d partitions not started: %w",
			errors.ErrRunCanceled, skipped, partitionCount, context.Cause(ctx))
		runErr = errors.Join(runErr, cancelErr)
	}

	if runErr != nil {
		a.transition(&res, StateFailed, log)
		log.Error("integration failed",
			"merged", res.Merged(),
			"failed", res.Count(PartitionFailed),
			"skipped", res.Count(PartitionSkipped),
			"error", runErr)
		return res, runErr
	}

	a.transition(&res, StateCompleted, log)
	log.Debug("integration completed", "total", res.Total, "elapsed", res.Elapsed)
	return res, nil
}

func (a *Accumulator) fail(res *Result, began time.Time, err error, log *logging.Logger) (Result, error) {
	res.Elapsed = time.Since(began)
	a.transition(res, StateFailed, log)
	log.Warn("integration rejected", "error", err)
	return *res, err
}

func (a *Accumulator) transition(res *Result, s State, log *logging.Logger) {
	res.State = s
	log.Debug("run state", "state", s.String())
	if a.onState != nil {
		a.onState(s)
	}
}

func (a *Accumulator) report(pr PartialResult) {
	if a.reporter == nil {
		return
	}
	a.reportMu.Lock()
	defer a.reportMu.Unlock()
	a.reporter.Report(pr)
}

// evaluatePartition computes one partition's area. A panic inside the
// function or a non-finite area becomes an EvaluationError.
func evaluatePartition(fn function.Function, start, end float64, totalIntervals int, part Partition) (pr PartialResult) {
	began := time.Now()
	pr.Partition = part
	pr.RangeStart, pr.RangeEnd = bounds(start, end, totalIntervals, part)

	defer func() {
		pr.Duration = time.Since(began)
		if r := recover(); r != nil {
			pr.Area = 0
			pr.Err = errors.NewEvaluationError(fmt.Sprintf("function panicked: %v", r), errors.ErrEvaluationPanic).
				WithFunction(fn.Name).
				WithPartition(part.Index, part.Lo, part.Hi)
		}
	}()

	pr.Area = Evaluate(fn, pr.RangeStart, pr.RangeEnd, part.Width())
	if math.IsNaN(pr.Area) || math.IsInf(pr.Area, 0) {
		pr.Err = errors.NewEvaluationError(fmt.Sprintf("partial result is %v", pr.Area), errors.ErrNonFiniteResult).
			WithFunction(fn.Name).
			WithPartition(part.Index, part.Lo, part.Hi)
	}
	return pr
}

func validateBounds(start, end float64) error {
	switch {
	case math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0):
		return errors.NewRangeError(fmt.Sprintf("bounds must be finite, got [%v, %v]", start, end), errors.ErrInvalidRange)
	case end <= start:
		return errors.NewRangeError(fmt.Sprintf("end must be greater than start, got [%v, %v]", start, end), errors.ErrInvalidRange)
	}
	return nil
}
