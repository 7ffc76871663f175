package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var autoscanCmd = &cobra.Command{
	Use:   "autoscan",
	Short: "Show the server's auto-scan scheduler status",
	RunE:  runAutoscanCmd,
}

func init() {
	rootCmd.AddCommand(autoscanCmd)
}

func runAutoscanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	status, err := client.AutoScanStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch auto-scan status: %w", err)
	}
	if jsonOutput {
		printJSON(status)
		return nil
	}

	state := "disabled"
	if status.Enabled {
		state = fmt.Sprintf("every %d %s", status.Interval, status.Unit)
	}
	fmt.Println("Auto-scan:", state)
	fmt.Println("Running:  ", status.Running)
	if status.LastScan != nil {
		fmt.Println("Last scan:", *status.LastScan)
	}
	if status.NextScan != nil {
		fmt.Println("Next scan:", *status.NextScan)
	}
	return nil
}
