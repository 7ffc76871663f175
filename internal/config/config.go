// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Journal JournalConfig `toml:"journal"`
}

type ServerConfig struct {
	// URL of the organizer server, e.g. http://localhost:8000.
	URL      string `toml:"url"`
	LogLevel string `toml:"log_level"`
}

type JournalConfig struct {
	// Path of the local event journal database. Empty disables journaling.
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:      "http://localhost:8000",
			LogLevel: "info",
		},
		Journal: JournalConfig{
			RetentionDays: 30,
		},
	}
}

// Load reads and parses the configuration file, applying defaults for
// anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	defaults := Default()
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = defaults.Journal.RetentionDays
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}
