package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/config"
)

var version = "dev"

var (
	serverURL  string
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "linkview",
	Short: "CLI client for the media hardlink organizer",
	Long: `linkview - CLI client for the media hardlink organizer

Browse the grouped media library, follow live scan and reprocess
progress, and fix mismatched files by hand.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("linkview {{.Version}}\n")
}

// loadConfig resolves the effective configuration: explicit --config, then
// the discovery order, then built-in defaults. --server wins over the file.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	path := configPath
	if path == "" {
		discovered, found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		if found {
			path = discovered
		}
	}

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
}

func newAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.URL)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
