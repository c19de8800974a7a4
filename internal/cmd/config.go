package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify whacaconsole configuration",
	Long: `View or modify whacaconsole configuration.

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
  whacaconsole config set game.cycle_period_ms 1500
  whacaconsole config set bot.accuracy 0.6
  whacaconsole config set locale.lang pt

The new value is validated together with the rest of the configuration
before anything is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/whacaconsole/config.yaml with all available options.`,
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

// settableKeys maps each key accepted by "config set" to its value kind.
var settableKeys = map[string]string{
	"game.cycle_period_ms": "int",
	"game.hold_ms":         "int",
	"game.highlight_ms":    "int",
	"game.target_count":    "int",
	"game.game_surface":    "string",
	"game.welcome_surface": "string",
	"bot.enabled":          "bool",
	"bot.accuracy":         "float",
	"bot.min_reaction_ms":  "int",
	"bot.max_reaction_ms":  "int",
	"server.addr":          "string",
	"server.max_clients":   "int",
	"logging.level":        "string",
	"logging.dir":          "string",
	"locale.lang":          "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func parseConfigValue(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		keys := make([]string, 0, len(settableKeys))
		for k := range settableKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown configuration key: %s\nValid keys: %v", key, keys)
	}

	switch kind {
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
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typedValue, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

const configHeader = `# whacaconsole configuration
#
# Durations are in milliseconds. Every key can be overridden with an
# environment variable, e.g. WHACACONSOLE_GAME_HOLD_MS=250.

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'whacaconsole config set' to modify values", configFile)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to render default configuration: %w", err)
	}
	if err := os.WriteFile(configFile, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(cmd.OutOrStdout(), used)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (not created)\n", config.ConfigFile())
	return nil
}
