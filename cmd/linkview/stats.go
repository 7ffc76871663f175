package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate library counters",
	RunE:  runStatsCmd,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	stats, err := client.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	if jsonOutput {
		printJSON(stats)
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Status", "Files"})
	tw.AppendRow(table.Row{statusBadge(store.StatusPending), stats.Pending})
	tw.AppendRow(table.Row{statusBadge(store.StatusMatched), stats.Matched})
	tw.AppendRow(table.Row{statusBadge(store.StatusManual), stats.Manual})
	tw.AppendRow(table.Row{statusBadge(store.StatusLinked), stats.Linked})
	tw.AppendRow(table.Row{statusBadge(store.StatusFailed), stats.Failed})
	tw.AppendRow(table.Row{statusBadge(store.StatusIgnored), stats.Ignored})
	tw.AppendFooter(table.Row{"total", stats.TotalFiles})
	fmt.Println(tw.Render())
	return nil
}
