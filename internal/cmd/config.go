package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Elenmith/TPLProgram/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify trapint configuration",
	Long: `View or modify trapint configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  trapint config set integration.function sine
  trapint config set integration.intervals 1000
  trapint config set plot.enabled true

Run 'trapint config init' for a commented file listing every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/trapint/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// settableKeys lists the keys accepted by 'config set' and their value type.
var settableKeys = map[string]string{
	"integration.function":       "string",
	"integration.start":          "float",
	"integration.end":            "float",
	"integration.intervals":      "int",
	"integration.partitions":     "int",
	"integration.workers":        "int",
	"integration.merge_strategy": "string",
	"plot.enabled":               "bool",
	"plot.dir":                   "string",
	"plot.file":                  "string",
	"plot.width":                 "int",
	"plot.height":                "int",
	"plot.points":                "int",
	"plot.open_viewer":           "bool",
	"logging.level":              "string",
	"logging.format":             "string",
	"logging.file":               "string",
	"metrics.enabled":            "bool",
	"watch.debounce_ms":          "int",
}

// configComments annotates the file written by 'config init'.
var configComments = map[string]string{
	"integration":                "Integration run",
	"integration.function":       "Function to integrate, see 'trapint functions'",
	"integration.start":          "Range to integrate over, end must be greater than start",
	"integration.intervals":      "Total number of trapezoids",
	"integration.partitions":     "Sub-ranges evaluated concurrently (1..intervals)",
	"integration.workers":        "Worker pool size, 0 means one per CPU",
	"integration.merge_strategy": "How partial areas are combined\nOptions: ordered, locked, atomic",
	"plot":                       "Plot rendered alongside the integration",
	"plot.dir":                   "Empty saves to the Desktop if present, else the working directory",
	"plot.file":                  "Empty asks for a file name when the run starts",
	"plot.points":                "Samples along the curve",
	"plot.open_viewer":           "Open the saved plot in the system image viewer",
	"logging":                    "Debug logging",
	"logging.level":              "Options: debug, info, warn, error",
	"logging.format":             "Options: console, json",
	"logging.file":               "Write JSON logs to this file instead of stderr",
	"metrics":                    "Print prometheus metrics after each run",
	"watch":                      "integrate --watch",
	"watch.debounce_ms":          "Coalesce bursts of saves within this window",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Warning: %v\nShowing defaults instead.\n\n", err)
		cfg = config.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(sortedKeys(settableKeys), ", "))
	}

	typedValue, err := parseValue(key, keyType, value)
	if err != nil {
		return err
	}

	// Validate the resulting configuration before touching the file
	candidate := viper.New()
	if err := candidate.MergeConfigMap(viper.AllSettings()); err != nil {
		return fmt.Errorf("failed to copy config: %w", err)
	}
	candidate.Set(key, typedValue)
	if _, err := config.LoadFrom(candidate); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

func parseValue(key, keyType, value string) (any, error) {
	switch keyType {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		return f, nil
	default:
		return value, nil
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'trapint config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize trapint's behavior.")

	return nil
}

// defaultConfigYAML renders the default configuration with a comment above
// each documented key.
func defaultConfigYAML() ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(config.Default()); err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	annotate(&doc, "")
	doc.HeadComment = "trapint configuration"

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render defaults: %w", err)
	}
	return data, nil
}

func annotate(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if comment, ok := configComments[path]; ok {
			key.HeadComment = comment
		}
		annotate(value, path)
	}
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TRAPINT_* (e.g., TRAPINT_INTEGRATION_INTERVALS)")

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
