package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/store"
)

const defaultInterval = 500 * time.Millisecond

// Fetcher fetches the grouped dataset. *api.Client satisfies it.
type Fetcher interface {
	GroupedFiles(ctx context.Context, filter api.GroupFilter, token uint64) ([]api.Group, error)
}

// Reconciler turns per-file change notifications into full refetches of the
// grouped dataset. Notifications within the debounce window collapse into
// one refetch. Every request carries a monotonically increasing token;
// a response is applied only if no newer response has been applied already,
// so overlapping in-flight refetches cannot regress the tree to stale data.
type Reconciler struct {
	fetcher  Fetcher
	store    *store.Store
	logger   *slog.Logger
	interval time.Duration

	deb *Debouncer
	seq atomic.Uint64

	mu          sync.Mutex
	ctx         context.Context
	filter      api.GroupFilter
	lastApplied uint64

	onApplied func()
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithInterval sets the debounce window.
func WithInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		r.interval = d
	}
}

// WithReconcilerLogger sets the logger.
func WithReconcilerLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithOnApplied registers a hook invoked after each applied refetch.
func WithOnApplied(fn func()) ReconcilerOption {
	return func(r *Reconciler) {
		r.onApplied = fn
	}
}

// New creates a reconciler writing into st.
func New(fetcher Fetcher, st *store.Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		fetcher:  fetcher,
		store:    st,
		logger:   slog.Default(),
		interval: defaultInterval,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.deb = NewDebouncer(r.interval, r.refetch)
	return r
}

// Start binds the context used by debounced refetches. Stop cancels only
// the pending debounce timer; in-flight requests are left to finish and
// go stale on their own.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
}

// Stop cancels any pending refetch.
func (r *Reconciler) Stop() {
	r.deb.Stop()
}

// Notify requests a refetch. Bursts within the debounce window coalesce
// into exactly one.
func (r *Reconciler) Notify() {
	r.deb.Trigger()
}

// SetFilter replaces the active filter. The next refetch uses it.
func (r *Reconciler) SetFilter(filter api.GroupFilter) {
	r.mu.Lock()
	r.filter = filter
	r.mu.Unlock()
}

// Filter returns the active filter.
func (r *Reconciler) Filter() api.GroupFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}

// Refresh fetches and applies immediately, bypassing the debounce window.
// Used for the initial load and after a committed manual match.
func (r *Reconciler) Refresh(ctx context.Context) error {
	return r.fetch(ctx, r.seq.Add(1))
}

// refetch is the debounce callback.
func (r *Reconciler) refetch() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	token := r.seq.Add(1)
	if err := r.fetch(ctx, token); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("refetch failed", "token", token, "error", err)
	}
}

func (r *Reconciler) fetch(ctx context.Context, token uint64) error {
	r.mu.Lock()
	filter := r.filter
	r.mu.Unlock()

	raw, err := r.fetcher.GroupedFiles(ctx, filter, token)
	if err != nil {
		return err
	}

	groups, err := store.FromAPI(raw)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if token <= r.lastApplied {
		r.mu.Unlock()
		r.logger.Debug("discarding stale refetch response",
			"token", token, "last_applied", r.lastApplied)
		return nil
	}
	r.lastApplied = token
	r.store.SetTree(groups)
	r.mu.Unlock()

	r.logger.Debug("tree replaced", "token", token, "groups", len(groups))
	if r.onApplied != nil {
		r.onApplied()
	}
	return nil
}
