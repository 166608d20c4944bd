// Package metrics instruments integration runs with Prometheus collectors.
//
// A [Recorder] owns a private registry so that several runs in one process
// (for example under `integrate --watch`) accumulate into the same series
// without touching the global default registry.
//
// # Collected Series
//
//   - trapint_partitions_total{status}: partitions by outcome (merged, failed, skipped)
//   - trapint_partition_duration_seconds: evaluation time of one partition
//   - trapint_runs_total{state}: runs by terminal state
//   - trapint_run_duration_seconds: wall time of one run
//   - trapint_last_total: the most recent merged total
//
// # Basic Usage
//
//	rec := metrics.NewRecorder()
//	res, err := integrate.Integrate(ctx, fn, a, b, n, p, integrate.WithReporter(rec))
//	rec.ObserveRun(res)
//	_ = rec.WriteText(os.Stdout)
//
// [Recorder] is safe for concurrent use.
package metrics
