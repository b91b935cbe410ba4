package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings, read from the environment.
type Config struct {
	Addr        string `env:"NRAI_ADDR" envDefault:":8080"`
	ScenarioDir string `env:"NRAI_SCENARIO_DIR"`
	DBPath      string `env:"NRAI_DB_PATH"`
	Seed        int64  `env:"NRAI_SEED" envDefault:"1"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("server: parse config: %w", err)
	}
	return cfg, nil
}
