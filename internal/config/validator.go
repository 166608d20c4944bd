package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Elenmith/TPLProgram/internal/function"
	"github.com/Elenmith/TPLProgram/internal/integrate"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "integration.partitions")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// IsRangeField reports whether field describes the integration range or its
// partitioning. The integrator rejects bad values for these itself, so
// callers may choose to let them through.
func IsRangeField(field string) bool {
	switch field {
	case "integration.start", "integration.end", "integration.intervals", "integration.partitions":
		return true
	}
	return false
}

// Without returns the errors whose field does not satisfy skip.
func (e ValidationErrors) Without(skip func(field string) bool) ValidationErrors {
	var out ValidationErrors
	for _, err := range e {
		if !skip(err.Field) {
			out = append(out, err)
		}
	}
	return out
}

// Plot size limits in pixels
const (
	minPlotSize = 100
	maxPlotSize = 8192
	maxPoints   = 1_000_000
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateIntegration()...)
	errors = append(errors, c.validatePlot()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateWatch()...)

	return errors
}

// validateIntegration validates the IntegrationConfig
func (c *Config) validateIntegration() []ValidationError {
	var errors []ValidationError
	in := c.Integration

	if _, err := function.Lookup(in.Function); err != nil {
		errors = append(errors, ValidationError{
			Field:   "integration.function",
			Value:   in.Function,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(function.IDs(), ", ")),
		})
	}

	bounds := []struct {
		field string
		value float64
	}{
		{"integration.start", in.Start},
		{"integration.end", in.End},
	}
	finite := true
	for _, b := range bounds {
		if math.IsNaN(b.value) || math.IsInf(b.value, 0) {
			finite = false
			errors = append(errors, ValidationError{
				Field:   b.field,
				Value:   b.value,
				Message: "must be a finite number",
			})
		}
	}
	if finite && in.End <= in.Start {
		errors = append(errors, ValidationError{
			Field:   "integration.end",
			Value:   in.End,
			Message: fmt.Sprintf("must be greater than integration.start (%v)", in.Start),
		})
	}

	if in.Intervals <= 0 {
		errors = append(errors, ValidationError{
			Field:   "integration.intervals",
			Value:   in.Intervals,
			Message: "must be positive",
		})
	}

	if in.Partitions <= 0 {
		errors = append(errors, ValidationError{
			Field:   "integration.partitions",
			Value:   in.Partitions,
			Message: "must be positive",
		})
	} else if in.Intervals > 0 && in.Partitions > in.Intervals {
		errors = append(errors, ValidationError{
			Field:   "integration.partitions",
			Value:   in.Partitions,
			Message: fmt.Sprintf("must not exceed integration.intervals (%d)", in.Intervals),
		})
	}

	if in.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "integration.workers",
			Value:   in.Workers,
			Message: "must be non-negative (0 means one per CPU)",
		})
	}

	if _, err := integrate.ParseStrategy(in.MergeStrategy); err != nil {
		errors = append(errors, ValidationError{
			Field:   "integration.merge_strategy",
			Value:   in.MergeStrategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(integrate.ValidStrategies(), ", ")),
		})
	}

	return errors
}

// validatePlot validates the PlotConfig
func (c *Config) validatePlot() []ValidationError {
	var errors []ValidationError
	p := c.Plot

	sizes := []struct {
		field string
		value int
	}{
		{"plot.width", p.Width},
		{"plot.height", p.Height},
	}
	for _, s := range sizes {
		if s.value < minPlotSize || s.value > maxPlotSize {
			errors = append(errors, ValidationError{
				Field:   s.field,
				Value:   s.value,
				Message: fmt.Sprintf("must be between %d and %d", minPlotSize, maxPlotSize),
			})
		}
	}

	if p.Points < 1 || p.Points > maxPoints {
		errors = append(errors, ValidationError{
			Field:   "plot.points",
			Value:   p.Points,
			Message: fmt.Sprintf("must be between 1 and %d", maxPoints),
		})
	}

	paths := []struct {
		field string
		value string
	}{
		{"plot.dir", p.Dir},
		{"plot.file", p.File},
	}
	for _, path := range paths {
		if strings.ContainsRune(path.value, '\x00') {
			errors = append(errors, ValidationError{
				Field:   path.field,
				Value:   path.value,
				Message: "path contains invalid null character",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.Format != "" && !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	const maxDebounceMs = 60_000
	if c.Watch.DebounceMs < 0 || c.Watch.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxDebounceMs),
		})
	}

	return errors
}
