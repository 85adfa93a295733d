// Package config loads server settings from the environment.
package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"

	"github.com/mmynk/splitledger/internal/calculator"
)

type Config struct {
	DBPath          string `env:"DB_PATH" envDefault:"./data/ledger.db"`
	Port            int    `env:"PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	RemainderPolicy string `env:"REMAINDER_POLICY" envDefault:"first"`
	MetricsEnabled  bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if _, err := cfg.Remainder(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Remainder maps REMAINDER_POLICY to the equal-split remainder policy.
func (c *Config) Remainder() (calculator.RemainderPolicy, error) {
	switch c.RemainderPolicy {
	case "", "first":
		return calculator.FirstMemberAbsorbs, nil
	case "round_robin":
		return calculator.RoundRobinCents, nil
	default:
		return nil, fmt.Errorf("unknown remainder policy %q", c.RemainderPolicy)
	}
}
