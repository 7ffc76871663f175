package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/app"
	"github.com/vmunix/linkview/internal/journal"
	"github.com/vmunix/linkview/internal/progress"
	"github.com/vmunix/linkview/internal/reconcile"
	"github.com/vmunix/linkview/internal/render"
	"github.com/vmunix/linkview/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the library live",
	Long: `Follow the library live.

Keeps the grouped view in sync with the server over its push channel and
shows scan/reprocess progress as it happens. Stop with Ctrl-C.`,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("status", "", "Filter by status (pending|matched|manual|linked|failed|ignored)")
	watchCmd.Flags().String("type", "", "Filter by media type (movie|tv)")
	watchCmd.Flags().String("search", "", "Free-text search filter")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	client := newAPIClient(cfg)

	st := store.New()

	var a *app.App
	redraw := func() {
		fmt.Println()
		fmt.Println(text.FgHiBlack.Sprint("--- " + time.Now().Format("15:04:05") + " ---"))
		stats := st.Stats()
		fmt.Println(statsLine(stats.TotalFiles, stats.Pending, stats.Matched,
			stats.Linked, stats.Failed, stats.Manual, stats.Ignored))
		if a != nil {
			printTracker(a.ScanTracker().Snapshot())
			printTracker(a.ReprocessTracker().Snapshot())
		}
		st.ExpandAllGroups()
		fmt.Println(renderNodes(render.Tree(st.Tree(), st)))
	}

	rec := reconcile.New(client, st,
		reconcile.WithReconcilerLogger(logger.With("component", "reconciler")),
		reconcile.WithOnApplied(redraw))
	rec.SetFilter(filter)

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithOnNotice(func(msg string) {
			fmt.Println(text.Bold.Sprint("* " + msg))
		}),
		app.WithOnUpdate(redraw),
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn("journal unavailable", "path", cfg.Journal.Path, "error", err)
		} else {
			defer func() { _ = j.Close() }()
			if cfg.Journal.RetentionDays > 0 {
				_, _ = j.Prune(time.Duration(cfg.Journal.RetentionDays) * 24 * time.Hour)
			}
			opts = append(opts, app.WithJournal(j))
		}
	}

	a = app.New(client, st, rec, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printTracker(snap progress.Snapshot) {
	if !snap.Active {
		return
	}
	line := fmt.Sprintf("%s: %d/%d", snap.Operation, snap.Current, snap.Total)
	if snap.Filename != "" {
		line += "  " + snap.Filename
	}
	if snap.Operation == progress.OpReprocess && snap.Linked > 0 {
		line += fmt.Sprintf("  (%d linked)", snap.Linked)
	}
	fmt.Println(text.FgCyan.Sprint(line))
}
