package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Elenmith/TPLProgram/internal/config"
	"github.com/Elenmith/TPLProgram/internal/logging"
	"github.com/Elenmith/TPLProgram/internal/tui/prompt"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trapint",
	Short: "Parallel trapezoidal integrator",
	Long: `trapint approximates the definite integral of a catalogue function with
the composite trapezoidal rule. The intervals are split into partitions that
are evaluated concurrently and merged into a single total. A plot of the
function can be rendered to PNG alongside the computation.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/trapint/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "minimum log level: debug, info, warn, error")
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRAPINT")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TRAPINT_INTEGRATION_INTERVALS for integration.intervals
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bindFlags binds command local flags to config keys. Binding happens per
// invocation so that commands sharing a flag name do not steal each other's
// bindings.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// newLogger builds the logger described by cfg. Console logs go to w.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	return logging.New(w, cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format, isTerminal(w))
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && prompt.IsInteractive(f)
}
