package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.URL == "" {
		errs = append(errs, "server.url: required")
	} else if u, err := url.Parse(c.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("server.url: not a valid URL: %q", c.Server.URL))
	}

	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Journal.RetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("journal.retention_days: must not be negative, got %d", c.Journal.RetentionDays))
	}

	return errs
}
