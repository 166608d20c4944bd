// Package logging provides structured logging for trapint runs.
//
// This package wraps Go's log/slog. Logs written to a file are JSON so they
// can be filtered after the fact; logs written to a terminal go through
// tint's colored handler.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Partition workers
// log from many goroutines through the same [Logger]; child loggers created
// via With* methods share the underlying handler and file.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/tmp/trapint/run.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun("run-1").WithFunction("y = 2x^2 + 3")
//	runLogger.Info("partition merged", "partition", 3, "area", 812.5)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"partition merged","run_id":"run-1","function":"y = 2x^2 + 3","partition":3,"area":812.5}
//
// For interactive use, [NewConsoleLogger] writes colored lines instead.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output.
//
// # Configuration
//
//	logging:
//	  level: info
//	  format: console
//	  file: ""
package logging
