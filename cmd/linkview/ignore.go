package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore <file-id>",
	Short: "Mark a file as ignored",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreCmd,
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnoreCmd(cmd *cobra.Command, args []string) error {
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid file id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	detail, err := client.Ignore(cmd.Context(), fileID)
	if err != nil {
		return fmt.Errorf("failed to ignore: %w", err)
	}
	if jsonOutput {
		printJSON(detail)
		return nil
	}
	fmt.Printf("Ignored #%d %s\n", detail.ID, detail.SourceFilename)
	return nil
}
