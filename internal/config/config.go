package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DBPath string `env:"PROMPTYOSELF_DB_PATH" envDefault:"promptyoself.db" validate:"required"`

	LettaBaseURL string `env:"LETTA_BASE_URL"`
	LettaAPIKey  string `env:"LETTA_API_KEY"`

	PollInterval time.Duration `env:"PROMPTYOSELF_INTERVAL" envDefault:"60s" validate:"gt=0"`
	HTTPAddr     string        `env:"PROMPTYOSELF_HTTP_ADDR" envDefault:":8420" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
