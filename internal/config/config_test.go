package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default game config
	if cfg.Game.CyclePeriodMs != 2000 {
		t.Errorf("Game.CyclePeriodMs = %d, want 2000", cfg.Game.CyclePeriodMs)
	}
	if cfg.Game.HoldMs != 500 {
		t.Errorf("Game.HoldMs = %d, want 500", cfg.Game.HoldMs)
	}
	if cfg.Game.HighlightMs != 500 {
		t.Errorf("Game.HighlightMs = %d, want 500", cfg.Game.HighlightMs)
	}
	if cfg.Game.TargetCount != 10 {
		t.Errorf("Game.TargetCount = %d, want 10", cfg.Game.TargetCount)
	}
	if cfg.Game.GameSurface != "Game_Tab" {
		t.Errorf("Game.GameSurface = %q, want %q", cfg.Game.GameSurface, "Game_Tab")
	}

	// Verify default bot config
	if !cfg.Bot.Enabled {
		t.Error("Bot.Enabled should be true by default")
	}
	if cfg.Bot.Accuracy != 0.8 {
		t.Errorf("Bot.Accuracy = %f, want 0.8", cfg.Bot.Accuracy)
	}

	// Verify default logging config
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Dir != "" {
		t.Errorf("Logging.Dir = %q, want empty", cfg.Logging.Dir)
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()

	if got := cfg.Game.CyclePeriod(); got != 2*time.Second {
		t.Errorf("CyclePeriod() = %v, want 2s", got)
	}
	if got := cfg.Game.Hold(); got != 500*time.Millisecond {
		t.Errorf("Hold() = %v, want 500ms", got)
	}
	if got := cfg.Game.Highlight(); got != 500*time.Millisecond {
		t.Errorf("Highlight() = %v, want 500ms", got)
	}
	if got := cfg.Bot.MinReaction(); got != 300*time.Millisecond {
		t.Errorf("MinReaction() = %v, want 300ms", got)
	}
	if got := cfg.Bot.MaxReaction(); got != 2500*time.Millisecond {
		t.Errorf("MaxReaction() = %v, want 2.5s", got)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadFrom() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `game:
  cycle_period_ms: 1500
  target_count: 6
bot:
  enabled: false
  accuracy: 0.5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	SetDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Game.CyclePeriodMs != 1500 || cfg.Game.TargetCount != 6 {
		t.Errorf("Game = %+v", cfg.Game)
	}
	if cfg.Game.HoldMs != 500 {
		t.Errorf("unset keys should keep defaults, HoldMs = %d", cfg.Game.HoldMs)
	}
	if cfg.Bot.Enabled || cfg.Bot.Accuracy != 0.5 {
		t.Errorf("Bot = %+v", cfg.Bot)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	v.Set("game.cycle_period_ms", 0)
	v.Set("bot.accuracy", 2.0)

	_, err := LoadFrom(v)
	if err == nil {
		t.Fatal("LoadFrom() should fail on invalid values")
	}
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(errs) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(errs), errs)
	}
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("WHACACONSOLE_GAME_HOLD_MS", "750")

	v := viper.New()
	SetDefaultsOn(v)
	BindEnv(v)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Game.HoldMs != 750 {
		t.Errorf("Game.HoldMs = %d, want 750 from env", cfg.Game.HoldMs)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "whacaconsole") {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != filepath.Join("/tmp/xdg", "whacaconsole", "config.yaml") {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ConfigDir(); got != filepath.Join(home, ".config", "whacaconsole") {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}
