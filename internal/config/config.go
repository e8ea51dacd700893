// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries server settings. Everything comes from the environment,
// with an optional .env file loaded first; unset variables fall back to
// the defaults below.
type Config struct {
	Addr              string        // PSYFIELD_ADDR
	ReadHeaderTimeout time.Duration // PSYFIELD_READ_HEADER_TIMEOUT
	IdleTimeout       time.Duration // PSYFIELD_IDLE_TIMEOUT
	RunTimeout        time.Duration // PSYFIELD_RUN_TIMEOUT, per simulate request
	MaxConcurrentRuns int           // PSYFIELD_MAX_RUNS, 0 = unlimited
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		RunTimeout:        2 * time.Minute,
		MaxConcurrentRuns: 8,
	}
}

// Load reads an optional .env file, then the environment, on top of the
// defaults. A missing .env is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv function (injected for tests).
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()
	if v := getenv("PSYFIELD_ADDR"); v != "" {
		cfg.Addr = v
	}
	var err error
	if cfg.ReadHeaderTimeout, err = envDuration(getenv, "PSYFIELD_READ_HEADER_TIMEOUT", cfg.ReadHeaderTimeout); err != nil {
		return cfg, err
	}
	if cfg.IdleTimeout, err = envDuration(getenv, "PSYFIELD_IDLE_TIMEOUT", cfg.IdleTimeout); err != nil {
		return cfg, err
	}
	if cfg.RunTimeout, err = envDuration(getenv, "PSYFIELD_RUN_TIMEOUT", cfg.RunTimeout); err != nil {
		return cfg, err
	}
	if v := getenv("PSYFIELD_MAX_RUNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("config: PSYFIELD_MAX_RUNS %q must be a non-negative integer", v)
		}
		cfg.MaxConcurrentRuns = n
	}
	return cfg, nil
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s %q: %w", key, v, err)
	}
	return d, nil
}
