package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Elenmith/TPLProgram/internal/config"
	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
	"github.com/Elenmith/TPLProgram/internal/integrate"
	"github.com/Elenmith/TPLProgram/internal/logging"
	"github.com/Elenmith/TPLProgram/internal/metrics"
	"github.com/Elenmith/TPLProgram/internal/plot"
	"github.com/Elenmith/TPLProgram/internal/tui/prompt"
)

// NameSource asks for plot file names until save succeeds, e.g. prompt.Run.
type NameSource func(ctx context.Context, save prompt.SaveFunc) (string, error)

// Outcome is the joined result of one run. The integration and the plot
// fail independently.
type Outcome struct {
	RunID    string
	Result   integrate.Result
	Err      error
	PlotPath string
	PlotErr  error
}

// Orchestrator runs an integration and, when enabled, the plot task
// concurrently, then joins both.
type Orchestrator struct {
	config   *config.Config
	function function.Function
	strategy integrate.MergeStrategy

	reporter integrate.Reporter
	recorder *metrics.Recorder
	plotter  plot.Plotter
	viewer   plot.Viewer
	names    NameSource
	logger   *logging.Logger

	runs atomic.Int64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter receives each partition outcome.
func WithReporter(r integrate.Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithRecorder collects metrics for every run.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithPlotter replaces the PNG plotter built from the configuration.
func WithPlotter(p plot.Plotter) Option {
	return func(o *Orchestrator) { o.plotter = p }
}

// WithViewer sets the viewer used when plot.open_viewer is set.
func WithViewer(v plot.Viewer) Option {
	return func(o *Orchestrator) { o.viewer = v }
}

// WithNameSource sets how a plot file name is obtained when plot.file is empty.
func WithNameSource(n NameSource) Option {
	return func(o *Orchestrator) { o.names = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator for cfg. The configured function and merge
// strategy are resolved once here.
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	fn, err := function.Lookup(cfg.Integration.Function)
	if err != nil {
		return nil, err
	}
	strategy, err := integrate.ParseStrategy(cfg.Integration.MergeStrategy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).
			WithField("integration.merge_strategy").
			WithValue(cfg.Integration.MergeStrategy)
	}

	o := &Orchestrator{
		config:   cfg,
		function: fn,
		strategy: strategy,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}
	if o.plotter == nil {
		o.plotter = plot.NewPNGPlotter(
			plot.WithSize(cfg.Plot.Width, cfg.Plot.Height),
			plot.WithPoints(cfg.Plot.Points),
			plot.WithLogger(o.logger.WithPhase("plot")),
		)
	}
	return o, nil
}

// Function returns the integrand being run.
func (o *Orchestrator) Function() function.Function {
	return o.function
}

// Config returns the configuration the orchestrator was built with.
func (o *Orchestrator) Config() *config.Config {
	return o.config
}

// Run integrates and plots concurrently and waits for both. Reporting the
// total is left to the caller, after the join.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	out := Outcome{RunID: fmt.Sprintf("run-%d", o.runs.Add(1))}
	log := o.logger.WithRun(out.RunID).WithFunction(o.function.Name)
	in := o.config.Integration

	var g errgroup.Group

	g.Go(func() error {
		out.Result, out.Err = integrate.Integrate(ctx, o.function,
			in.Start, in.End, in.Intervals, in.Partitions,
			integrate.WithWorkers(in.Workers),
			integrate.WithStrategy(o.strategy),
			integrate.WithReporter(o.reporters()),
			integrate.WithLogger(log.WithPhase("integrate")),
		)
		return out.Err
	})

	if o.config.Plot.Enabled {
		g.Go(func() error {
			out.PlotPath, out.PlotErr = o.plot(ctx, log.WithPhase("plot"))
			return nil
		})
	}

	// Each task keeps its own error in out; Wait is only the join.
	_ = g.Wait()

	if o.recorder != nil {
		o.recorder.ObserveRun(out.Result)
	}
	if out.Err == nil {
		log.Info("run completed", "total", out.Result.Total, "elapsed", out.Result.Elapsed)
	}
	return out
}

func (o *Orchestrator) reporters() integrate.Reporter {
	var rs integrate.MultiReporter
	if o.reporter != nil {
		rs = append(rs, o.reporter)
	}
	if o.recorder != nil {
		rs = append(rs, o.recorder)
	}
	return rs
}

func (o *Orchestrator) plot(ctx context.Context, log *logging.Logger) (string, error) {
	cfg := o.config
	save := func(name string) (string, error) {
		path, err := plot.ResolvePath(cfg.Plot.Dir, name)
		if err != nil {
			return "", err
		}
		return o.plotter.Plot(ctx, o.function, cfg.Integration.Start, cfg.Integration.End, path)
	}

	var path string
	var err error
	switch {
	case cfg.Plot.File != "":
		path, err = save(cfg.Plot.File)
	case o.names != nil:
		path, err = o.names(ctx, save)
	default:
		err = errors.NewPlotError("no plot file name configured", errors.ErrEmptyFileName)
	}
	if err != nil {
		if errors.GetSeverity(err) >= errors.SeverityError {
			log.Error("plot not saved", "error", err)
		} else {
			log.Warn("plot not saved", "error", err)
		}
		return "", err
	}
	log.Info("plot saved", "path", path)

	if cfg.Plot.OpenViewer && o.viewer != nil {
		if err := o.viewer.Open(ctx, path); err != nil {
			log.Warn("viewer failed", "path", path, "error", err)
			return path, err
		}
	}
	return path, nil
}
