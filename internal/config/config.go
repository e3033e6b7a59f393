package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrMissingSecret is returned when no signing secret is configured. The
// process must not start without one.
var ErrMissingSecret = errors.New("JWT_SECRET must be defined")

// Config holds the application's configuration. Values from the yaml file
// are overridden by environment variables.
type Config struct {
	Database struct {
		URL string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`
	Server struct {
		Port          string `yaml:"port" env:"PORT"`
		AllowedOrigin string `yaml:"allowed_origin" env:"FRONTEND_ORIGIN"`
	} `yaml:"server"`
	Token struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
	} `yaml:"token"`
}

// Load reads configuration from the specified YAML file, then applies
// environment overrides. A missing file is fine; a missing signing secret
// is not.
func Load(configPath string) (*Config, error) {
	config := &Config{}
	config.Server.Port = ":3000"
	config.Server.AllowedOrigin = "http://localhost:4200"

	file, err := os.Open(configPath)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Token.Secret == "" {
		return nil, ErrMissingSecret
	}

	return config, nil
}
