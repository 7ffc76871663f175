package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/progress"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess [file-id]",
	Short: "Re-run the automatic match pipeline",
	Long: `Re-run the automatic match pipeline.

With a file id, reprocesses that single file. With --all, reprocesses
every manual or failed file; progress arrives on the push channel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReprocessCmd,
}

func init() {
	rootCmd.AddCommand(reprocessCmd)
	reprocessCmd.Flags().Bool("all", false, "Reprocess every manual or failed file")
	reprocessCmd.Flags().Bool("follow", false, "Follow progress until completion (with --all)")
}

func runReprocessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	client := newAPIClient(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	all, _ := cmd.Flags().GetBool("all")
	if all {
		if len(args) > 0 {
			return fmt.Errorf("--all takes no file id")
		}

		// The tracker goes running optimistically; a failure to even start
		// the operation must bring it straight back to idle.
		tracker := progress.NewTracker(progress.OpReprocess,
			progress.WithTrackerLogger(logger.With("component", "reprocess-tracker")))
		tracker.Start(nil)

		result, err := client.ReprocessAll(ctx)
		if err != nil {
			tracker.Abort()
			return fmt.Errorf("failed to start reprocess: %w", err)
		}
		fmt.Println(result.Message)

		follow, _ := cmd.Flags().GetBool("follow")
		if !follow {
			return nil
		}
		return followOperation(ctx, client, logger, progress.OpReprocess)
	}

	if len(args) == 0 {
		return fmt.Errorf("file id or --all required")
	}
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid file id %q", args[0])
	}

	detail, err := client.Reprocess(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to reprocess: %w", err)
	}
	if jsonOutput {
		printJSON(detail)
		return nil
	}
	fmt.Printf("Reprocessed #%d: %s\n", detail.ID, statusBadge(statusOf(detail.Status)))
	return nil
}
