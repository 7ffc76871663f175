package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/journal"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recently received push events",
	Long: `Show recently received push events.

Events are recorded to the local journal while 'linkview watch' runs;
configure journal.path to enable it.`,
	RunE: runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("no journal configured; set journal.path in the config file")
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = j.Close() }()

	entries, total, err := j.Recent(limit, 0)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if jsonOutput {
		printJSON(entries)
		return nil
	}
	if len(entries) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Recent events (%d total):\n\n", total)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Received", "Type", "Payload"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.ReceivedAt.Local().Format("01-02 15:04:05"),
			e.EventType,
			truncate(e.Payload, 60),
		})
	}
	fmt.Println(tw.Render())
	return nil
}
