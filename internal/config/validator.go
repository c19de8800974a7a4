package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Iron-Ham/whacaconsole/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "game.cycle_period_ms")
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

// surfaceIDRegex matches surface API names: a letter followed by letters,
// digits and underscores
var surfaceIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidLanguages returns the list of supported notification languages
func ValidLanguages() []string {
	return []string{"en", "pt", "es"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Game config
	errors = append(errors, c.validateGame()...)

	// Validate Bot config
	errors = append(errors, c.validateBot()...)

	// Validate Server config
	errors = append(errors, c.validateServer()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	// Validate Locale config
	errors = append(errors, c.validateLocale()...)

	return errors
}

// validateGame validates the GameConfig
func (c *Config) validateGame() []ValidationError {
	var errors []ValidationError

	positive := []struct {
		field string
		value int
	}{
		{"game.cycle_period_ms", c.Game.CyclePeriodMs},
		{"game.hold_ms", c.Game.HoldMs},
		{"game.highlight_ms", c.Game.HighlightMs},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Value:   p.value,
				Message: "must be positive",
			})
		}
	}

	if c.Game.TargetCount < 2 || c.Game.TargetCount > 100 {
		errors = append(errors, ValidationError{
			Field:   "game.target_count",
			Value:   c.Game.TargetCount,
			Message: "must be between 2 and 100",
		})
	}

	surfaces := []struct {
		field string
		value string
	}{
		{"game.game_surface", c.Game.GameSurface},
		{"game.welcome_surface", c.Game.WelcomeSurface},
	}
	for _, s := range surfaces {
		if !surfaceIDRegex.MatchString(s.value) {
			errors = append(errors, ValidationError{
				Field:   s.field,
				Value:   s.value,
				Message: "must start with a letter and contain only letters, digits and underscores",
			})
		}
	}
	if c.Game.GameSurface != "" && c.Game.GameSurface == c.Game.WelcomeSurface {
		errors = append(errors, ValidationError{
			Field:   "game.welcome_surface",
			Value:   c.Game.WelcomeSurface,
			Message: "must differ from game.game_surface",
		})
	}

	return errors
}

// validateBot validates the BotConfig
func (c *Config) validateBot() []ValidationError {
	var errors []ValidationError

	if c.Bot.Accuracy < 0 || c.Bot.Accuracy > 1 {
		errors = append(errors, ValidationError{
			Field:   "bot.accuracy",
			Value:   c.Bot.Accuracy,
			Message: "must be between 0 and 1",
		})
	}
	if c.Bot.MinReactionMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "bot.min_reaction_ms",
			Value:   c.Bot.MinReactionMs,
			Message: "must be non-negative",
		})
	}
	if c.Bot.MaxReactionMs < c.Bot.MinReactionMs {
		errors = append(errors, ValidationError{
			Field:   "bot.max_reaction_ms",
			Value:   c.Bot.MaxReactionMs,
			Message: "must not be less than bot.min_reaction_ms",
		})
	}

	return errors
}

// validateServer validates the ServerConfig
func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	} else if !strings.Contains(c.Server.Addr, ":") {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must be host:port",
		})
	}
	if c.Server.MaxClients < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.max_clients",
			Value:   c.Server.MaxClients,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	level := strings.ToUpper(c.Logging.Level)
	if level != "" && !slices.Contains(logging.ValidLevels(), level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.ToLower(strings.Join(logging.ValidLevels(), ", "))),
		})
	}

	return errors
}

// validateLocale validates the LocaleConfig
func (c *Config) validateLocale() []ValidationError {
	var errors []ValidationError

	if c.Locale.Lang != "" && !slices.Contains(ValidLanguages(), strings.ToLower(c.Locale.Lang)) {
		errors = append(errors, ValidationError{
			Field:   "locale.lang",
			Value:   c.Locale.Lang,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLanguages(), ", ")),
		})
	}

	return errors
}
