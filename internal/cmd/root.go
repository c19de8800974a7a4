package cmd

import (
	"github.com/Iron-Ham/whacaconsole/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "whacaconsole",
	Short: "Timed reaction game controller",
	Long: `Whac-a-Console runs a timed reaction game: every cycle presents a field
of targets, exactly one of them valid. Hits and misses adjust the score;
cycles that pass without a selection cost points.

Play headlessly against a simulated player, or serve the game over a
websocket bridge for an external target surface.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/whacaconsole/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	// e.g., WHACACONSOLE_GAME_CYCLE_PERIOD_MS for game.cycle_period_ms
	config.BindEnv(viper.GetViper())

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
