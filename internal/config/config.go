// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the client needs to reach the storefront API.
type Config struct {
	BaseURL   string        `env:"SHOP_API_URL" envDefault:"http://localhost:8000"`
	Timeout   time.Duration `env:"SHOP_API_TIMEOUT" envDefault:"15s"`
	TokenPath string        `env:"SHOP_TOKEN_PATH"`
}

// Load parses configuration from environment variables. TokenPath defaults to
// a file under the user's home directory.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve token path: %w", err)
		}
		cfg.TokenPath = filepath.Join(home, ".shopclient", "token")
	}
	return cfg, nil
}
