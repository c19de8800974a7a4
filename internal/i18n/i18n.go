// Package i18n holds the localized texts of user notifications.
package i18n

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

// LangEnv overrides locale detection when set.
const LangEnv = "WHACACONSOLE_LANG"

// Message keys.
const (
	HitTitle    = "hit.title"
	HitMessage  = "hit.message"
	MissTitle   = "miss.title"
	MissMessage = "miss.message"
	SlowTitle   = "slow.title"
	SlowMessage = "slow.message"
)

var translations = map[string]map[string]string{
	HitTitle: {
		"en": "Well Done 🤩",
		"pt": "Muito Bem 🤩",
		"es": "Bien Hecho 🤩",
	},
	HitMessage: {
		"en": "You win %d points",
		"pt": "Você ganhou %d pontos",
		"es": "Ganas %d puntos",
	},
	MissTitle: {
		"en": "Wrong Target 😤",
		"pt": "Alvo Errado 😤",
		"es": "Objetivo Equivocado 😤",
	},
	MissMessage: {
		"en": "You lose %d points",
		"pt": "Você perdeu %d pontos",
		"es": "Pierdes %d puntos",
	},
	SlowTitle: {
		"en": "Too Slow 😔",
		"pt": "Muito Lento 😔",
		"es": "Demasiado Lento 😔",
	},
	SlowMessage: {
		"en": "You lose %d points",
		"pt": "Você perdeu %d pontos",
		"es": "Pierdes %d puntos",
	},
}

// Catalog resolves message keys for one language.
type Catalog struct {
	lang string
}

// New returns a catalog for lang. Unsupported languages fall back to English.
func New(lang string) *Catalog {
	return &Catalog{lang: normalize(lang)}
}

// Detect builds a catalog from LangEnv or, failing that, the system locale.
func Detect() *Catalog {
	if forced := strings.TrimSpace(os.Getenv(LangEnv)); forced != "" {
		return New(forced)
	}
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		return New("en")
	}
	return New(locales[0])
}

func normalize(lang string) string {
	lang = strings.ToLower(lang)
	switch {
	case strings.HasPrefix(lang, "pt"):
		return "pt"
	case strings.HasPrefix(lang, "es"):
		return "es"
	default:
		return "en"
	}
}

// Lang returns the resolved language code.
func (c *Catalog) Lang() string {
	return c.lang
}

// T returns the text for key, or key itself when unknown.
func (c *Catalog) T(key string) string {
	if translated, ok := translations[key][c.lang]; ok {
		return translated
	}
	if english, ok := translations[key]["en"]; ok {
		return english
	}
	return key
}

// Tf formats the text for key with args.
func (c *Catalog) Tf(key string, args ...any) string {
	return fmt.Sprintf(c.T(key), args...)
}
