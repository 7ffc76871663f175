// Package app wires the push channel, reconciler, bulk trackers, and
// journal into one running client session.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/journal"
	"github.com/vmunix/linkview/internal/progress"
	"github.com/vmunix/linkview/internal/reconcile"
	"github.com/vmunix/linkview/internal/store"
	"github.com/vmunix/linkview/internal/stream"
)

const autoScanPollInterval = 30 * time.Second

// App owns one live client session: it keeps the store consistent with the
// server and follows bulk operations. All event routing happens here; the
// stream client itself never touches the store.
type App struct {
	client  *api.Client
	store   *store.Store
	rec     *reconcile.Reconciler
	scan    *progress.Tracker
	reproc  *progress.Tracker
	journal *journal.Journal
	logger  *slog.Logger

	onNotice func(string)
	onUpdate func()
}

// Option configures an App.
type Option func(*App)

// WithJournal records received events to j.
func WithJournal(j *journal.Journal) Option {
	return func(a *App) {
		a.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithOnNotice registers a hook for one-shot user notifications.
func WithOnNotice(fn func(string)) Option {
	return func(a *App) {
		a.onNotice = fn
	}
}

// WithOnUpdate registers a hook invoked whenever displayed state changed.
func WithOnUpdate(fn func()) Option {
	return func(a *App) {
		a.onUpdate = fn
	}
}

// New assembles an App around the given client and store.
func New(client *api.Client, st *store.Store, rec *reconcile.Reconciler, opts ...Option) *App {
	a := &App{
		client: client,
		store:  st,
		rec:    rec,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.scan = progress.NewTracker(progress.OpScan,
		progress.WithTrackerLogger(a.logger.With("component", "scan-tracker")),
		progress.WithOnChange(func(progress.Snapshot) { a.update() }))
	a.reproc = progress.NewTracker(progress.OpReprocess,
		progress.WithTrackerLogger(a.logger.With("component", "reprocess-tracker")),
		progress.WithOnChange(func(progress.Snapshot) { a.update() }))
	return a
}

// ScanTracker returns the scan progress tracker.
func (a *App) ScanTracker() *progress.Tracker { return a.scan }

// ReprocessTracker returns the reprocess-all progress tracker.
func (a *App) ReprocessTracker() *progress.Tracker { return a.reproc }

// Run performs the initial load and then follows the push channel until
// ctx is canceled. The auto-scan scheduler status is additionally polled
// at a fixed interval; the poll duplicates information the push channel
// carries, which is redundant but harmless.
func (a *App) Run(ctx context.Context) error {
	a.rec.Start(ctx)
	defer a.rec.Stop()

	if err := a.rec.Refresh(ctx); err != nil {
		a.logger.Error("initial load failed", "error", err)
		a.notice("initial load failed: " + err.Error())
	}
	if stats, err := a.client.Stats(ctx); err == nil {
		a.store.SetStats(*stats)
	}
	a.update()

	sse := stream.New(a.client.EventsURL(), a.HandleEvent,
		stream.WithLogger(a.logger.With("component", "stream")))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sse.Run(ctx)
	})
	g.Go(func() error {
		return a.pollAutoScan(ctx)
	})
	return g.Wait()
}

// HandleEvent routes one push channel envelope. File change events feed the
// reconciler; stats and bulk operation events feed the store and trackers.
// Unknown types are ignored so newer servers stay compatible.
func (a *App) HandleEvent(env stream.Envelope) {
	if a.journal != nil {
		if _, err := a.journal.Append(env.Type, env.Data); err != nil {
			a.logger.Warn("journal append failed", "type", env.Type, "error", err)
		}
	}

	switch env.Type {
	case stream.EventFileAdded, stream.EventFileUpdated, stream.EventFileDeleted:
		a.rec.Notify()

	case stream.EventStatsUpdated:
		var stats api.Stats
		if err := json.Unmarshal(env.Data, &stats); err != nil {
			a.logger.Error("bad stats payload, dropping", "error", err)
			return
		}
		a.store.SetStats(stats)
		a.update()

	case stream.EventScanStarted:
		a.scan.Start(env.Data)
	case stream.EventScanProgress:
		a.scan.Progress(env.Data)
	case stream.EventScanCompleted:
		a.notice(a.scan.Complete(env.Data))

	case stream.EventReprocessStarted:
		a.reproc.Start(env.Data)
	case stream.EventReprocessProgress:
		a.reproc.Progress(env.Data)
	case stream.EventReprocessCompleted:
		a.notice(a.reproc.Complete(env.Data))

	default:
		a.logger.Debug("ignoring unknown event type", "type", env.Type)
	}
}

func (a *App) pollAutoScan(ctx context.Context) error {
	ticker := time.NewTicker(autoScanPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := a.client.AutoScanStatus(ctx)
			if err != nil {
				a.logger.Debug("auto-scan status poll failed", "error", err)
				continue
			}
			a.logger.Debug("auto-scan status",
				"enabled", status.Enabled,
				"running", status.Running,
			)
		}
	}
}

func (a *App) notice(msg string) {
	if a.onNotice != nil {
		a.onNotice(msg)
	}
}

func (a *App) update() {
	if a.onUpdate != nil {
		a.onUpdate()
	}
}
