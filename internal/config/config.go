// internal/config/config.go
//
// Runtime configuration for the comic guessing server.
// Responsibilities:
//   - Map environment variables (optionally loaded from .env by main) onto a
//     typed struct with defaults.
//   - Derive the option structs consumed by the matcher and hint generator.
//
// Notes:
//   - Parsing is done once at startup; the struct is passed down by value.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/comicguess/internal/hint"
	"github.com/robalobadob/comicguess/internal/match"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	// Server
	Port         string `env:"PORT"          envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
	Environment  string `env:"NODE_ENV"      envDefault:"development"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"./data/app.db"`

	// Upstream catalog
	ComickBaseURL   string        `env:"COMICK_BASE_URL"  envDefault:"https://api.comick.fun"`
	ImageBaseURL    string        `env:"IMAGE_BASE_URL"   envDefault:"https://meo.comick.pictures"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`
	UpstreamRPS     float64       `env:"UPSTREAM_RPS"     envDefault:"5"`
	UpstreamBurst   int           `env:"UPSTREAM_BURST"   envDefault:"10"`
	PageSize        int           `env:"PAGE_SIZE"        envDefault:"50"`

	// Response cache; memory when RedisURL is empty
	RedisURL    string        `env:"REDIS_URL"`
	RedisPrefix string        `env:"REDIS_PREFIX" envDefault:"comicguess:"`
	CacheTTL    time.Duration `env:"CACHE_TTL"    envDefault:"10m"`

	// Accounts
	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"comicguess_token"`

	// Game
	DailySalt             string        `env:"DAILY_SALT"                    envDefault:"local_dev_salt"`
	TitlesFile            string        `env:"TITLES_FILE"`
	HintsPerRound         int           `env:"HINTS_PER_ROUND"               envDefault:"3"`
	RoundTTL              time.Duration `env:"ROUND_TTL"                     envDefault:"6h"`
	HintTranslationStatus bool          `env:"HINT_TRANSLATION_STATUS"       envDefault:"true"`
	ShortTitleFallthrough bool          `env:"MATCH_SHORT_TITLE_FALLTHROUGH" envDefault:"true"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if cfg.HintsPerRound < 1 {
		return Config{}, fmt.Errorf("config: HINTS_PER_ROUND must be positive, got %d", cfg.HintsPerRound)
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("config: PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}

// IsProduction reports whether cookies should be Secure/SameSite=None.
func (c Config) IsProduction() bool { return c.Environment == "production" }

// MatchOptions is the matcher configuration.
func (c Config) MatchOptions() match.Options {
	return match.Options{ShortTitleFallthrough: c.ShortTitleFallthrough}
}

// HintOptions is the hint generator configuration.
func (c Config) HintOptions() hint.Options {
	return hint.Options{TranslationStatus: c.HintTranslationStatus}
}
