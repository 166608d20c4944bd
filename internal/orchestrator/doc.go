// Package orchestrator drives one trapint run end to end.
//
// An [Orchestrator] starts the integration and, when plotting is enabled,
// the plot task on separate goroutines and joins both before anything is
// reported. The two tasks share only the read-only function and bounds; a
// plot failure never changes the integration total, and an integration
// failure does not stop the plot from being saved.
//
// [ConsoleReporter] prints the per-partition lines and the final summary in
// the format of the original command line tool:
//
//	Partition 0: Calculated range 0 to 1 -> Partial result: 79.424
//	Total integration result: 28815.68
package orchestrator
