package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"./data/habitdo.db"`
	Port         string        `env:"PORT" envDefault:"8080"`
	AuthSecret   string        `env:"AUTH_SECRET"`
	TokenIssuer  string        `env:"TOKEN_ISSUER" envDefault:"habitdo"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if config.AuthSecret == "" {
		return Config{}, fmt.Errorf("AUTH_SECRET is required")
	}

	return config, nil
}
