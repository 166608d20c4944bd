package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/Elenmith/TPLProgram/internal/integrate"
)

const namespace = "trapint"

// Compile-time interface check
var _ integrate.Reporter = (*Recorder)(nil)

// Recorder collects per-partition and per-run metrics.
type Recorder struct {
	registry *prometheus.Registry

	partitions        *prometheus.CounterVec
	partitionDuration prometheus.Histogram
	runs              *prometheus.CounterVec
	runDuration       prometheus.Histogram
	lastTotal         prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		partitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Partitions processed, by outcome.",
		}, []string{"status"}),
		partitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "partition_duration_seconds",
			Help:      "Time spent evaluating one partition.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Integration runs, by terminal state.",
		}, []string{"state"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one integration run.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}),
		lastTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_total",
			Help:      "Merged total of the most recent run.",
		}),
	}

	r.registry.MustRegister(r.partitions, r.partitionDuration, r.runs, r.runDuration, r.lastTotal)
	return r
}

// Report records one partition outcome. It implements integrate.Reporter.
func (r *Recorder) Report(p integrate.PartialResult) {
	r.partitions.WithLabelValues(p.Status.String()).Inc()
	if p.Status == integrate.PartitionMerged || p.Status == integrate.PartitionFailed {
		r.partitionDuration.Observe(p.Duration.Seconds())
	}
}

// ObserveRun records a finished run. Skipped partitions are never reported
// by the accumulator, so they are counted here.
func (r *Recorder) ObserveRun(res integrate.Result) {
	if !res.State.Terminal() {
		return
	}
	r.runs.WithLabelValues(res.State.String()).Inc()
	r.runDuration.Observe(res.Elapsed.Seconds())
	if skipped := res.Count(integrate.PartitionSkipped); skipped > 0 {
		r.partitions.WithLabelValues(integrate.PartitionSkipped.String()).Add(float64(skipped))
	}
	if res.State == integrate.StateCompleted {
		r.lastTotal.Set(res.Total)
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes every collected family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
