package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Integration defaults reproduce the original program's run
	if cfg.Integration.Function != "quadratic" {
		t.Errorf("Integration.Function = %q, want %q", cfg.Integration.Function, "quadratic")
	}
	if cfg.Integration.Start != 1 || cfg.Integration.End != 35 {
		t.Errorf("Integration range = [%v, %v], want [1, 35]", cfg.Integration.Start, cfg.Integration.End)
	}
	if cfg.Integration.Intervals != 10 {
		t.Errorf("Integration.Intervals = %d, want 10", cfg.Integration.Intervals)
	}
	if cfg.Integration.Partitions != 10 {
		t.Errorf("Integration.Partitions = %d, want 10", cfg.Integration.Partitions)
	}
	if cfg.Integration.Workers != 0 {
		t.Errorf("Integration.Workers = %d, want 0", cfg.Integration.Workers)
	}
	if cfg.Integration.MergeStrategy != "ordered" {
		t.Errorf("Integration.MergeStrategy = %q, want %q", cfg.Integration.MergeStrategy, "ordered")
	}

	// Plot defaults
	if cfg.Plot.Enabled {
		t.Error("Plot.Enabled should be false by default")
	}
	if cfg.Plot.Width != 400 || cfg.Plot.Height != 300 {
		t.Errorf("Plot size = %dx%d, want 400x300", cfg.Plot.Width, cfg.Plot.Height)
	}
	if cfg.Plot.Points != 100 {
		t.Errorf("Plot.Points = %d, want 100", cfg.Plot.Points)
	}

	// Logging defaults
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "console")
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() should be valid, got %v", ValidationErrors(errs))
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, 0},
		{250, 250 * time.Millisecond},
		{1500, 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		cfg := &WatchConfig{DebounceMs: tt.ms}
		if got := cfg.Debounce(); got != tt.want {
			t.Errorf("Debounce() with %dms = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/trapint"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "trapint")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/trapint/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Integration.Function != "quadratic" {
		t.Errorf("Get().Integration.Function = %q, want %q", cfg.Integration.Function, "quadratic")
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("reads yaml over defaults", func(t *testing.T) {
		v := viper.New()
		for key, value := range map[string]any{
			"integration.function":   "quadratic",
			"integration.start":      1.0,
			"integration.end":        35.0,
			"integration.intervals":  10,
			"integration.partitions": 10,
			"plot.width":             400,
			"plot.height":            300,
			"plot.points":            100,
		} {
			v.SetDefault(key, value)
		}
		v.SetConfigType("yaml")
		yaml := `
integration:
  function: sine
  start: 0
  end: 3.14159
  intervals: 1000
  partitions: 8
  merge_strategy: atomic
logging:
  level: debug
`
		if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
			t.Fatalf("ReadConfig() error = %v", err)
		}

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Integration.Function != "sine" {
			t.Errorf("Function = %q, want sine", cfg.Integration.Function)
		}
		if cfg.Integration.Intervals != 1000 || cfg.Integration.Partitions != 8 {
			t.Errorf("got %d intervals / %d partitions, want 1000 / 8", cfg.Integration.Intervals, cfg.Integration.Partitions)
		}
		if cfg.Integration.MergeStrategy != "atomic" {
			t.Errorf("MergeStrategy = %q, want atomic", cfg.Integration.MergeStrategy)
		}
		if cfg.Plot.Width != 400 {
			t.Errorf("Plot.Width = %d, want default 400", cfg.Plot.Width)
		}
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		v := viper.New()
		v.Set("integration.function", "quadratic")
		v.Set("integration.start", 35.0)
		v.Set("integration.end", 1.0)
		v.Set("integration.intervals", 10)
		v.Set("integration.partitions", 11)
		v.Set("plot.width", 400)
		v.Set("plot.height", 300)
		v.Set("plot.points", 100)

		_, err := LoadFrom(v)
		if err == nil {
			t.Fatal("LoadFrom() should fail for an inverted range")
		}
		verrs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("LoadFrom() error type = %T, want ValidationErrors", err)
		}
		fields := map[string]bool{}
		for _, e := range verrs {
			fields[e.Field] = true
		}
		for _, want := range []string{"integration.end", "integration.partitions"} {
			if !fields[want] {
				t.Errorf("expected validation error for %s, got %v", want, verrs)
			}
		}
	})
}
