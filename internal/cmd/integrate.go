package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Elenmith/TPLProgram/internal/config"
	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/logging"
	"github.com/Elenmith/TPLProgram/internal/metrics"
	"github.com/Elenmith/TPLProgram/internal/orchestrator"
	"github.com/Elenmith/TPLProgram/internal/plot"
	"github.com/Elenmith/TPLProgram/internal/tui/prompt"
	"github.com/Elenmith/TPLProgram/internal/watch"
)

var integrateWatch bool

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Integrate a function over a range",
	Long: `Integrate approximates the integral of the configured function with the
composite trapezoidal rule, evaluating partitions concurrently.

Every partition prints its sub-range and partial area as it completes, and the
total is printed once all partitions have been merged. With --plot the
function is rendered to a PNG while the integration runs; when no file name is
configured you are asked for one.

Flags override the config file, which overrides the defaults:
  trapint integrate --function sine --start 0 --end 3.14159 -n 1000 -p 8
  trapint integrate --plot --plot-file quadratic --open
  trapint integrate --watch      # re-run on every config file save`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, integrateFlagKeys)
	},
	RunE: runIntegrate,
}

var integrateFlagKeys = map[string]string{
	"function":   "integration.function",
	"start":      "integration.start",
	"end":        "integration.end",
	"intervals":  "integration.intervals",
	"partitions": "integration.partitions",
	"workers":    "integration.workers",
	"strategy":   "integration.merge_strategy",
	"plot":       "plot.enabled",
	"plot-file":  "plot.file",
	"plot-dir":   "plot.dir",
	"open":       "plot.open_viewer",
	"metrics":    "metrics.enabled",
}

func init() {
	defaults := config.Default()
	f := integrateCmd.Flags()

	f.StringP("function", "f", defaults.Integration.Function, "function to integrate (see 'trapint functions')")
	f.Float64("start", defaults.Integration.Start, "lower bound of the range")
	f.Float64("end", defaults.Integration.End, "upper bound of the range")
	f.IntP("intervals", "n", defaults.Integration.Intervals, "total number of trapezoids")
	f.IntP("partitions", "p", defaults.Integration.Partitions, "number of concurrently evaluated partitions")
	f.IntP("workers", "w", defaults.Integration.Workers, "worker pool size (0 = one per CPU)")
	f.String("strategy", defaults.Integration.MergeStrategy, "merge strategy: ordered, locked, atomic")
	f.Bool("plot", defaults.Plot.Enabled, "render the function to a PNG")
	f.String("plot-file", defaults.Plot.File, "plot file name (prompted for when empty)")
	f.String("plot-dir", defaults.Plot.Dir, "directory for the plot (default: Desktop or working directory)")
	f.Bool("open", defaults.Plot.OpenViewer, "open the saved plot in the system image viewer")
	f.Bool("metrics", defaults.Metrics.Enabled, "print prometheus metrics after the run")
	f.BoolVar(&integrateWatch, "watch", false, "re-run whenever the config file changes")

	rootCmd.AddCommand(integrateCmd)
}

// loadIntegrationConfig reads the effective configuration. Problems with the
// range or partitioning are left to the integrator, which reports them as
// invalid data.
func loadIntegrationConfig() (*config.Config, error) {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if errs := config.ValidationErrors(cfg.Validate()).Without(config.IsRangeField); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadIntegrationConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &integrateRunner{
		out:     cmd.OutOrStdout(),
		in:      cmd.InOrStdin(),
		console: orchestrator.NewConsoleReporter(cmd.OutOrStdout(), isTerminal(cmd.OutOrStdout())),
		logger:  logger,
	}

	runErr := r.run(ctx, cfg)
	if !integrateWatch {
		return runErr
	}
	return r.watch(ctx, cfg)
}

// integrateRunner holds what stays the same across watched re-runs.
type integrateRunner struct {
	out     io.Writer
	in      io.Reader
	console *orchestrator.ConsoleReporter
	logger  *logging.Logger
}

func (r *integrateRunner) run(ctx context.Context, cfg *config.Config) error {
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
	}

	orch, err := orchestrator.New(cfg,
		orchestrator.WithReporter(r.console),
		orchestrator.WithRecorder(recorder),
		orchestrator.WithViewer(plot.NewSystemViewer()),
		orchestrator.WithNameSource(r.nameSource()),
		orchestrator.WithLogger(r.logger),
	)
	if err != nil {
		return err
	}

	out := orch.Run(ctx)
	r.console.Summary(out)

	if recorder != nil {
		fmt.Fprintln(r.out)
		if err := recorder.WriteText(r.out); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
	}
	return out.Err
}

// nameSource prompts with the interactive text input on a terminal and falls
// back to reading lines otherwise.
func (r *integrateRunner) nameSource() orchestrator.NameSource {
	if isTerminal(r.in) {
		return func(ctx context.Context, save prompt.SaveFunc) (string, error) {
			return prompt.Run(ctx, r.in, r.out, save)
		}
	}
	return func(ctx context.Context, save prompt.SaveFunc) (string, error) {
		return prompt.Lines(ctx, r.in, r.out, save)
	}
}

func (r *integrateRunner) watch(ctx context.Context, cfg *config.Config) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		return fmt.Errorf("--watch needs a config file\nRun 'trapint config init' to create one")
	}

	w, err := watch.New(path, cfg.Watch.Debounce(), r.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	fmt.Fprintf(r.out, "\nWatching %s for changes (Ctrl+C to stop)\n", w.Path())

	return w.Run(ctx, func() {
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(r.out, "Error: failed to reload config: %v\n", err)
			return
		}
		next, err := loadIntegrationConfig()
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "\nConfig changed, re-running\n")
		if err := r.run(ctx, next); err != nil {
			r.logger.Warn("watched run failed", "error", err)
		}
	})
}
