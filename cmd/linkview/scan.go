package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/progress"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Start a library scan on the server",
	Long: `Start a library scan on the server.

The scan runs in the background; with --follow, progress events from the
push channel are shown until the scan completes. The server refuses to
start a second scan while one is running.`,
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("path", "", "Scan a specific directory instead of the configured sources")
	scanCmd.Flags().Bool("follow", false, "Follow scan progress until completion")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	client := newAPIClient(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, _ := cmd.Flags().GetString("path")
	result, err := client.Scan(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}
	fmt.Println(result.Message)

	follow, _ := cmd.Flags().GetBool("follow")
	if !follow {
		return nil
	}
	return followOperation(ctx, client, logger, progress.OpScan)
}
