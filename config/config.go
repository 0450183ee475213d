/*
Package config loads server configuration from the environment.

PURPOSE:
  One struct with every tunable the server reads at startup. A local .env
  file is loaded first when present, then environment variables are parsed
  over it, so a checked-out tree runs with zero setup.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every startup tunable.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"./data/points.db"`

	// Timezone in which days and weeks roll over, IANA name.
	Timezone string `env:"TIMEZONE" envDefault:"Europe/Stockholm"`

	// SchedulerInterval is how often the maintenance pass (boundary
	// settlement, streak resets) runs in the background.
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"10m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location resolves the configured timezone, falling back to UTC when the
// name does not resolve.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
