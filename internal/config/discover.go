package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./linkview.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "linkview", "config.toml")
}

// Discover finds the config file using the standard search order:
//  1. LINKVIEW_CONFIG environment variable
//  2. ./linkview.toml (current directory)
//  3. $XDG_CONFIG_HOME/linkview/config.toml
//
// A missing file is not an error: callers fall back to Default().
func Discover() (string, bool, error) {
	if envPath := os.Getenv("LINKVIEW_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", false, fmt.Errorf("LINKVIEW_CONFIG=%s: %w", envPath, err)
		}
		return envPath, true, nil
	}

	paths := []string{
		"./linkview.toml",
		DefaultPath(),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, true, nil
		}
	}

	return "", false, nil
}
