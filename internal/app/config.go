package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DBDriver        string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN           string        `env:"DB_DSN" envDefault:"file:changetrack.db?_busy_timeout=5000"`
	DBSlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"1s"`
	DBAutoMigrate   bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	// SystemUser stamps writes made by the CLI.
	SystemUser string `env:"SYSTEM_USER" envDefault:"system"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
	Environment     string  `env:"APP_ENV" envDefault:"local"`
	Version         string  `env:"APP_VERSION" envDefault:"dev"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return Config{}, fmt.Errorf("DB_DSN is required")
	}
	if strings.TrimSpace(cfg.SystemUser) == "" {
		return Config{}, fmt.Errorf("SYSTEM_USER must not be blank")
	}
	return cfg, nil
}
