// Package errors provides centralized error definitions and error handling utilities
// for trapint. It defines the integration error taxonomy, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures of a single integration run or of
// the plotting collaborator:
//   - RangeError: the requested interval or partitioning cannot be integrated
//   - EvaluationError: a function evaluation inside one partition failed
//   - PlotError: rendering or persisting the function plot failed
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewRangeError("partition count exceeds interval count", errors.ErrInvalidRange).
//	    WithIntervals(10).WithPartitions(20)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrInvalidRange) { ... }
//
//	var evalErr *errors.EvaluationError
//	if errors.As(err, &evalErr) { ... }
//
// # Error Classification
//
// Integration is deterministic, so none of the integration errors are
// retryable: repeating a run with the same inputs reproduces the failure.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Integration sentinel errors
var (
	// ErrInvalidRange indicates the interval or partitioning cannot be integrated.
	ErrInvalidRange = New("invalid range")
	// ErrNonFiniteResult indicates a partition produced NaN or an infinity.
	ErrNonFiniteResult = New("non-finite result")
	// ErrEvaluationPanic indicates the function panicked while being evaluated.
	ErrEvaluationPanic = New("function evaluation panicked")
	// ErrRunCanceled indicates the run was canceled before every partition ran.
	ErrRunCanceled = New("integration run canceled")
)

// Plot sentinel errors
var (
	// ErrEmptyFileName indicates the plot file name was empty or blank.
	ErrEmptyFileName = New("file name cannot be empty")
	// ErrPermissionDenied indicates the plot could not be written to the chosen location.
	ErrPermissionDenied = New("permission denied")
	// ErrEncodeFailed indicates the image could not be encoded.
	ErrEncodeFailed = New("image encoding failed")
	// ErrViewerFailed indicates the external viewer could not be launched.
	ErrViewerFailed = New("viewer launch failed")
	// ErrEmptyPlot indicates no sample of the function was finite.
	ErrEmptyPlot = New("nothing to plot")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrFunctionNotFound indicates no catalogue function matched the requested name.
	ErrFunctionNotFound = New("function not found")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// IntegrationError is the base interface for all trapint errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type IntegrationError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// formatPrefixed renders "<kind> [k=v, ...]: message: cause".
func formatPrefixed(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// RangeError reports an interval or partitioning that cannot be integrated.
// It is raised before any partition is dispatched.
//
// Example:
//
//	err := errors.NewRangeError("chunk size would be zero", errors.ErrInvalidRange).
//	    WithIntervals(10).WithPartitions(11)
//	fmt.Println(err) // "range error [intervals=10, partitions=11]: chunk size would be zero: invalid range"
type RangeError struct {
	baseError
	Intervals  int
	Partitions int
	hasCounts  bool
}

// NewRangeError creates a new RangeError.
func NewRangeError(message string, cause error) *RangeError {
	return &RangeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithIntervals adds the requested interval count to the error context.
func (e *RangeError) WithIntervals(n int) *RangeError {
	e.Intervals = n
	e.hasCounts = true
	return e
}

// WithPartitions adds the requested partition count to the error context.
func (e *RangeError) WithPartitions(n int) *RangeError {
	e.Partitions = n
	e.hasCounts = true
	return e
}

// Error returns the formatted error message.
func (e *RangeError) Error() string {
	var parts []string
	if e.hasCounts {
		parts = append(parts,
			fmt.Sprintf("intervals=%d", e.Intervals),
			fmt.Sprintf("partitions=%d", e.Partitions))
	}
	return formatPrefixed("range error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *RangeError) Is(target error) bool {
	if _, ok := target.(*RangeError); ok {
		return true
	}
	if target == ErrInvalidRange {
		return true
	}
	return e.baseError.Is(target)
}

// EvaluationError reports a failed function evaluation within one partition.
//
// Example:
//
//	err := errors.NewEvaluationError("partial result is NaN", errors.ErrNonFiniteResult).
//	    WithPartition(3, 30, 40).WithFunction("y = 1/x")
type EvaluationError struct {
	baseError
	Function  string
	Partition int
	Lo        int
	Hi        int
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(message string, cause error) *EvaluationError {
	return &EvaluationError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Partition: -1, // -1 indicates not set
	}
}

// WithPartition adds the failing partition and its index bounds to the error context.
func (e *EvaluationError) WithPartition(index, lo, hi int) *EvaluationError {
	e.Partition = index
	e.Lo = lo
	e.Hi = hi
	return e
}

// WithFunction adds the function name to the error context.
func (e *EvaluationError) WithFunction(name string) *EvaluationError {
	e.Function = name
	return e
}

// Error returns the formatted error message.
func (e *EvaluationError) Error() string {
	var parts []string
	if e.Function != "" {
		parts = append(parts, fmt.Sprintf("function=%q", e.Function))
	}
	if e.Partition >= 0 {
		parts = append(parts,
			fmt.Sprintf("partition=%d", e.Partition),
			fmt.Sprintf("range=[%d,%d)", e.Lo, e.Hi))
	}
	return formatPrefixed("evaluation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *EvaluationError) Is(target error) bool {
	if _, ok := target.(*EvaluationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PlotError reports a failure of the plotting collaborator.
//
// Example:
//
//	err := errors.NewPlotError("cannot save plot", errors.ErrPermissionDenied).
//	    WithPath("/root/plot.png")
type PlotError struct {
	baseError
	Path string
}

// NewPlotError creates a new PlotError. Plot errors are warnings: the
// integration total never depends on them.
func NewPlotError(message string, cause error) *PlotError {
	return &PlotError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPath adds the target file path to the error context.
func (e *PlotError) WithPath(path string) *PlotError {
	e.Path = path
	return e
}

// WithRetryable sets whether the error is retryable.
// Interactive prompts use this to decide whether to ask for another file name.
func (e *PlotError) WithRetryable(r bool) *PlotError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *PlotError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return formatPrefixed("plot error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *PlotError) Is(target error) bool {
	if _, ok := target.(*PlotError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("function", "tangent")
//	fmt.Println(err) // "function 'tangent' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return e.message
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("end must be greater than start")
//	err = err.WithField("end").WithValue(0.5)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatPrefixed("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var integrationErr IntegrationError
	if As(err, &integrationErr) {
		return integrationErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	} else {
//	    fmt.Fprintln(os.Stderr, "An internal error occurred")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var integrationErr IntegrationError
	if As(err, &integrationErr) {
		return integrationErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement IntegrationError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var integrationErr IntegrationError
	if As(err, &integrationErr) {
		return integrationErr.Severity()
	}
	return SeverityError
}

// IsInvalidRange reports whether err is an InvalidRange failure.
func IsInvalidRange(err error) bool {
	return Is(err, ErrInvalidRange)
}

// IsEvaluationFailure reports whether err carries at least one EvaluationError.
func IsEvaluationFailure(err error) bool {
	var evalErr *EvaluationError
	return As(err, &evalErr)
}

// EvaluationErrors extracts every EvaluationError from a joined error tree.
func EvaluationErrors(err error) []*EvaluationError {
	if err == nil {
		return nil
	}

	var out []*EvaluationError
	var walk func(error)
	walk = func(e error) {
		if ev, ok := e.(*EvaluationError); ok {
			out = append(out, ev)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this returns nil for a nil error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
