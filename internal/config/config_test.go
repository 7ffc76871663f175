package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkview.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "http://media-box:8000"
log_level = "debug"

[journal]
path = "/var/lib/linkview/events.db"
retention_days = 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://media-box:8000", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/var/lib/linkview/events.db", cfg.Journal.Path)
	assert.Equal(t, 7, cfg.Journal.RetentionDays)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `[server]`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server.URL)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Empty(t, cfg.Journal.Path, "journaling stays off unless configured")
	assert.Equal(t, 30, cfg.Journal.RetentionDays)
}

func TestLoad_EnvVarSubstitution(t *testing.T) {
	t.Setenv("LINKVIEW_TEST_HOST", "media-box")

	path := writeConfig(t, `
[server]
url = "http://${LINKVIEW_TEST_HOST}:8000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://media-box:8000", cfg.Server.URL)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "http://${LINKVIEW_DEFINITELY_UNSET_VAR}:8000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Server.URL, "${LINKVIEW_DEFINITELY_UNSET_VAR}")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	path := writeConfig(t, `[server`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"empty url", func(c *Config) { c.Server.URL = "" }, "server.url: required"},
		{"url without scheme", func(c *Config) { c.Server.URL = "localhost:8000" }, "server.url"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"negative retention", func(c *Config) { c.Journal.RetentionDays = -1 }, "journal.retention_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestDiscover_EnvVarWins(t *testing.T) {
	path := writeConfig(t, `[server]`)
	t.Setenv("LINKVIEW_CONFIG", path)

	found, ok, err := Discover()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, found)
}

func TestDiscover_EnvVarPointingNowhereIsAnError(t *testing.T) {
	t.Setenv("LINKVIEW_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, ok, err := Discover()
	assert.False(t, ok)
	assert.Error(t, err, "an explicit path that does not exist must not be silently skipped")
}

func TestDiscover_NothingFound(t *testing.T) {
	t.Setenv("LINKVIEW_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	_, ok, err := Discover()
	require.NoError(t, err)
	assert.False(t, ok, "missing config is not an error, defaults apply")
}
