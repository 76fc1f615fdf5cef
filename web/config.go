package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen         string `yaml:"listen"`
	Dsn            string `yaml:"dsn"`
	SigningSecret  string `yaml:"signingSecret"` // base64
	MaxConnections int    `yaml:"maxConnections"`
}

// LoadConfig reads the YAML config named by TIMESHEETS_CONFIG (default
// config.yaml), then lets TIMESHEETS_DSN and TIMESHEETS_SECRET override it.
func LoadConfig() (*Config, error) {
	path := os.Getenv("TIMESHEETS_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg := &Config{
		Listen:         ":8090",
		MaxConnections: 10,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if dsn := os.Getenv("TIMESHEETS_DSN"); dsn != "" {
		cfg.Dsn = dsn
	}
	if secret := os.Getenv("TIMESHEETS_SECRET"); secret != "" {
		cfg.SigningSecret = secret
	}

	if cfg.Dsn == "" {
		return nil, fmt.Errorf("no dsn configured")
	}
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("no signing secret configured")
	}
	if _, err := base64.StdEncoding.DecodeString(cfg.SigningSecret); err != nil {
		return nil, fmt.Errorf("signing secret is not valid base64: %w", err)
	}
	return cfg, nil
}

func (c *Config) Secret() []byte {
	secret, _ := base64.StdEncoding.DecodeString(c.SigningSecret)
	return secret
}
