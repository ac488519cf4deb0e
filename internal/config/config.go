package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mmynk/settleup/internal/currency"
)

type Config struct {
	App struct {
		Port        int      `envconfig:"PORT" default:"8080"`
		CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}

	DB struct {
		Path string `envconfig:"DB_PATH" default:"./data/settleup.db"`
	}

	Debts struct {
		// DisplayCurrency is the currency all balances and plans are shown in.
		DisplayCurrency  string        `envconfig:"DISPLAY_CURRENCY" default:"EUR"`
		RecomputeTimeout time.Duration `envconfig:"RECOMPUTE_TIMEOUT" default:"10s"`
	}

	Rates struct {
		// URL of a Frankfurter-compatible API. Empty means offline mode with
		// fixed rates.
		URL       string        `envconfig:"RATES_URL"`
		Timeout   time.Duration `envconfig:"RATES_TIMEOUT" default:"5s"`
		PerSecond float64       `envconfig:"RATES_PER_SECOND" default:"5"`
		Burst     int           `envconfig:"RATES_BURST" default:"10"`
		CacheTTL  time.Duration `envconfig:"RATES_CACHE_TTL" default:"24h"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

// Addr is the listen address of the server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	code, err := currency.Normalize(cfg.Debts.DisplayCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_CURRENCY: %w", err)
	}
	cfg.Debts.DisplayCurrency = code

	if cfg.Rates.PerSecond <= 0 {
		return nil, fmt.Errorf("RATES_PER_SECOND must be positive, got %v", cfg.Rates.PerSecond)
	}

	return &cfg, nil
}
