// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store drivers selectable via STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" envDefault:"8080"`

	// StoreDriver selects the persistence backend. Valid values:
	// sqlite, postgres, memory. Defaults to "sqlite".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	// SQLitePath is the path of the SQLite database file. Used when
	// StoreDriver is "sqlite". Defaults to "trip-pantry.db".
	SQLitePath string `env:"SQLITE_PATH" envDefault:"trip-pantry.db"`

	// DatabaseURL is the Postgres connection string. Required when
	// StoreDriver is "postgres", ignored otherwise.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error when a value is invalid or a required variable is missing.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("config.Load: invalid STORE_DRIVER %q (want sqlite, postgres, or memory)", cfg.StoreDriver)
	}

	if cfg.StoreDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config.Load: DATABASE_URL is required when STORE_DRIVER=postgres")
	}

	return cfg, nil
}
