package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete trapint configuration
type Config struct {
	Integration IntegrationConfig `mapstructure:"integration" yaml:"integration"`
	Plot        PlotConfig        `mapstructure:"plot" yaml:"plot"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	Watch       WatchConfig       `mapstructure:"watch" yaml:"watch"`
}

// IntegrationConfig describes one integration run
type IntegrationConfig struct {
	// Function is the catalogue ID of the integrand (see `trapint functions`)
	Function string `mapstructure:"function" yaml:"function"`
	// Start is the lower bound of the interval
	Start float64 `mapstructure:"start" yaml:"start"`
	// End is the upper bound of the interval, must be greater than Start
	End float64 `mapstructure:"end" yaml:"end"`
	// Intervals is the total number of trapezoids
	Intervals int `mapstructure:"intervals" yaml:"intervals"`
	// Partitions is the number of concurrently evaluated sub-ranges (1..Intervals)
	Partitions int `mapstructure:"partitions" yaml:"partitions"`
	// Workers bounds the worker pool, 0 means one per CPU
	Workers int `mapstructure:"workers" yaml:"workers"`
	// MergeStrategy is how partial areas are combined
	// Options: "ordered", "locked", "atomic"
	MergeStrategy string `mapstructure:"merge_strategy" yaml:"merge_strategy"`
}

// PlotConfig controls the plot written alongside the integration
type PlotConfig struct {
	// Enabled renders the function to a PNG after each run
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Dir is where plots are saved. Empty means the Desktop if present,
	// otherwise the working directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// File is the plot file name. Empty asks interactively on a terminal.
	File string `mapstructure:"file" yaml:"file"`
	// Width of the image in pixels (default: 400)
	Width int `mapstructure:"width" yaml:"width"`
	// Height of the image in pixels (default: 300)
	Height int `mapstructure:"height" yaml:"height"`
	// Points is the number of samples along the curve (default: 100)
	Points int `mapstructure:"points" yaml:"points"`
	// OpenViewer launches the platform image viewer on the saved file
	OpenViewer bool `mapstructure:"open_viewer" yaml:"open_viewer"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" (colored, stderr) or "json"
	Format string `mapstructure:"format" yaml:"format"`
	// File writes JSON logs to this path instead of stderr
	File string `mapstructure:"file" yaml:"file"`
}

// MetricsConfig controls the prometheus metrics dump
type MetricsConfig struct {
	// Enabled prints the collected metrics in text exposition format after a run
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// WatchConfig controls `integrate --watch`
type WatchConfig struct {
	// DebounceMs coalesces bursts of config file writes (default: 250)
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Default returns a Config with the values of the original command line program
func Default() *Config {
	return &Config{
		Integration: IntegrationConfig{
			Function:      "quadratic",
			Start:         1,
			End:           35,
			Intervals:     10,
			Partitions:    10,
			Workers:       0, // One per CPU
			MergeStrategy: "ordered",
		},
		Plot: PlotConfig{
			Enabled:    false,
			Dir:        "",
			File:       "",
			Width:      400,
			Height:     300,
			Points:     100,
			OpenViewer: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			File:   "",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		Watch: WatchConfig{
			DebounceMs: 250,
		},
	}
}

// Debounce returns the watch debounce as a time.Duration
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Integration defaults
	viper.SetDefault("integration.function", defaults.Integration.Function)
	viper.SetDefault("integration.start", defaults.Integration.Start)
	viper.SetDefault("integration.end", defaults.Integration.End)
	viper.SetDefault("integration.intervals", defaults.Integration.Intervals)
	viper.SetDefault("integration.partitions", defaults.Integration.Partitions)
	viper.SetDefault("integration.workers", defaults.Integration.Workers)
	viper.SetDefault("integration.merge_strategy", defaults.Integration.MergeStrategy)

	// Plot defaults
	viper.SetDefault("plot.enabled", defaults.Plot.Enabled)
	viper.SetDefault("plot.dir", defaults.Plot.Dir)
	viper.SetDefault("plot.file", defaults.Plot.File)
	viper.SetDefault("plot.width", defaults.Plot.Width)
	viper.SetDefault("plot.height", defaults.Plot.Height)
	viper.SetDefault("plot.points", defaults.Plot.Points)
	viper.SetDefault("plot.open_viewer", defaults.Plot.OpenViewer)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.file", defaults.Logging.File)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return cfg, nil
}

// Decode unmarshals the configuration held by v without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trapint")
	}
	// Fall back to ~/.config/trapint
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trapint"
	}
	return filepath.Join(home, ".config", "trapint")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
