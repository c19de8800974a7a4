package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete whacaconsole configuration
type Config struct {
	Game    GameConfig    `mapstructure:"game" yaml:"game"`
	Bot     BotConfig     `mapstructure:"bot" yaml:"bot"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Locale  LocaleConfig  `mapstructure:"locale" yaml:"locale"`
}

// GameConfig controls cycle timing and the target field
type GameConfig struct {
	// CyclePeriodMs is how long a cycle waits for a selection (default: 2000)
	CyclePeriodMs int `mapstructure:"cycle_period_ms" yaml:"cycle_period_ms"`
	// HoldMs is the delay between a selection and the next cycle (default: 500)
	HoldMs int `mapstructure:"hold_ms" yaml:"hold_ms"`
	// HighlightMs is how long the game surface stays highlighted (default: 500)
	HighlightMs int `mapstructure:"highlight_ms" yaml:"highlight_ms"`
	// TargetCount is the number of targets per field (default: 10, min: 2)
	TargetCount int `mapstructure:"target_count" yaml:"target_count"`
	// GameSurface is the ID of the surface showing the field
	GameSurface string `mapstructure:"game_surface" yaml:"game_surface"`
	// WelcomeSurface is the ID of the surface shown while stopped
	WelcomeSurface string `mapstructure:"welcome_surface" yaml:"welcome_surface"`
}

// BotConfig controls the simulated player
type BotConfig struct {
	// Enabled lets the bot play the field (default: true for play, false for serve)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Accuracy is the probability of hitting the valid target (default: 0.8)
	Accuracy float64 `mapstructure:"accuracy" yaml:"accuracy"`
	// MinReactionMs and MaxReactionMs bound the bot's reaction delay
	MinReactionMs int `mapstructure:"min_reaction_ms" yaml:"min_reaction_ms"`
	MaxReactionMs int `mapstructure:"max_reaction_ms" yaml:"max_reaction_ms"`
}

// ServerConfig controls the websocket bridge
type ServerConfig struct {
	// Addr is the listen address (default: "127.0.0.1:8787")
	Addr string `mapstructure:"addr" yaml:"addr"`
	// MaxClients bounds concurrent websocket clients (default: 16, 0 = unlimited)
	MaxClients int `mapstructure:"max_clients" yaml:"max_clients"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where game.log is written. Empty logs to stderr.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LocaleConfig controls notification language
type LocaleConfig struct {
	// Lang forces a language ("en", "pt", "es"). Empty detects the system locale.
	Lang string `mapstructure:"lang" yaml:"lang"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Game: GameConfig{
			CyclePeriodMs:  2000,
			HoldMs:         500,
			HighlightMs:    500,
			TargetCount:    10,
			GameSurface:    "Game_Tab",
			WelcomeSurface: "Whac_a_Console_App_Welcome",
		},
		Bot: BotConfig{
			Enabled:       true,
			Accuracy:      0.8,
			MinReactionMs: 300,
			MaxReactionMs: 2500,
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8787",
			MaxClients: 16,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Locale: LocaleConfig{
			Lang: "",
		},
	}
}

// CyclePeriod returns the cycle period as a time.Duration
func (c *GameConfig) CyclePeriod() time.Duration {
	return time.Duration(c.CyclePeriodMs) * time.Millisecond
}

// Hold returns the post-selection delay as a time.Duration
func (c *GameConfig) Hold() time.Duration {
	return time.Duration(c.HoldMs) * time.Millisecond
}

// Highlight returns the highlight duration as a time.Duration
func (c *GameConfig) Highlight() time.Duration {
	return time.Duration(c.HighlightMs) * time.Millisecond
}

// MinReaction returns the minimum bot reaction as a time.Duration
func (c *BotConfig) MinReaction() time.Duration {
	return time.Duration(c.MinReactionMs) * time.Millisecond
}

// MaxReaction returns the maximum bot reaction as a time.Duration
func (c *BotConfig) MaxReaction() time.Duration {
	return time.Duration(c.MaxReactionMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with the given viper instance
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	// Game defaults
	v.SetDefault("game.cycle_period_ms", defaults.Game.CyclePeriodMs)
	v.SetDefault("game.hold_ms", defaults.Game.HoldMs)
	v.SetDefault("game.highlight_ms", defaults.Game.HighlightMs)
	v.SetDefault("game.target_count", defaults.Game.TargetCount)
	v.SetDefault("game.game_surface", defaults.Game.GameSurface)
	v.SetDefault("game.welcome_surface", defaults.Game.WelcomeSurface)

	// Bot defaults
	v.SetDefault("bot.enabled", defaults.Bot.Enabled)
	v.SetDefault("bot.accuracy", defaults.Bot.Accuracy)
	v.SetDefault("bot.min_reaction_ms", defaults.Bot.MinReactionMs)
	v.SetDefault("bot.max_reaction_ms", defaults.Bot.MaxReactionMs)

	// Server defaults
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.max_clients", defaults.Server.MaxClients)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)

	// Locale defaults
	v.SetDefault("locale.lang", defaults.Locale.Lang)
}

// EnvPrefix is the prefix of environment variable overrides, e.g.
// WHACACONSOLE_GAME_HOLD_MS for game.hold_ms
const EnvPrefix = "WHACACONSOLE"

var envKeyReplacer = strings.NewReplacer(".", "_")

// BindEnv makes v read overrides from WHACACONSOLE_* environment variables
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
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
		return filepath.Join(xdg, "whacaconsole")
	}
	// Fall back to ~/.config/whacaconsole
	home, err := os.UserHomeDir()
	if err != nil {
		return ".whacaconsole"
	}
	return filepath.Join(home, ".config", "whacaconsole")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
