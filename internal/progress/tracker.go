// Package progress follows the server's long-running bulk operations
// (scan, reprocess-all) through their started/progress/completed events.
package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Operation names a bulk operation.
type Operation string

const (
	OpScan      Operation = "scan"
	OpReprocess Operation = "reprocess"
)

// Snapshot is a point-in-time view of a tracker.
type Snapshot struct {
	Operation   Operation
	Active      bool
	Current     int
	Total       int
	Filename    string
	Linked      int
	StillManual int
	StillFailed int
}

// startedPayload covers scan_started {} and reprocess_started {total}.
type startedPayload struct {
	Total int `json:"total"`
}

// progressPayload covers scan_progress and reprocess_progress; the linked
// tally only appears for reprocess.
type progressPayload struct {
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Linked   int    `json:"linked"`
	Filename string `json:"filename"`
}

// completedPayload is the outcome stats attached to *_completed. The scan
// and reprocess variants share field names; absent fields stay zero.
type completedPayload struct {
	Scanned     int `json:"scanned"`
	New         int `json:"new"`
	Processed   int `json:"processed"`
	Linked      int `json:"linked"`
	Failed      int `json:"failed"`
	Manual      int `json:"manual"`
	StillManual int `json:"still_manual"`
	StillFailed int `json:"still_failed"`
}

// Tracker is a 3-state machine (idle -> running -> idle) for one bulk
// operation. It enters running on a started event, ratchets its counters
// on progress events, and returns to idle on completion or on a local
// failure to even start the operation -- the triggering control is never
// left disabled by a lost acknowledgment.
type Tracker struct {
	op     Operation
	logger *slog.Logger

	mu       sync.Mutex
	active   bool
	current  int
	total    int
	filename string
	linked   int
	manual   int
	failed   int

	onChange func(Snapshot)
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the logger.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithOnChange registers a hook invoked after every state change.
func WithOnChange(fn func(Snapshot)) TrackerOption {
	return func(t *Tracker) {
		t.onChange = fn
	}
}

// NewTracker creates an idle tracker for op.
func NewTracker(op Operation, opts ...TrackerOption) *Tracker {
	t := &Tracker{op: op, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Active reports whether the operation is running.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Operation:   t.op,
		Active:      t.active,
		Current:     t.current,
		Total:       t.total,
		Filename:    t.filename,
		Linked:      t.linked,
		StillManual: t.manual,
		StillFailed: t.failed,
	}
}

// Start handles a *_started event: counters reset and the operation goes
// active. A duplicate started event while running just resets the counters.
func (t *Tracker) Start(data json.RawMessage) {
	var payload startedPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			t.logger.Error("bad started payload", "operation", t.op, "error", err)
		}
	}

	t.mu.Lock()
	t.active = true
	t.current = 0
	t.total = payload.Total
	t.filename = ""
	t.linked, t.manual, t.failed = 0, 0, 0
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Info("bulk operation started", "operation", t.op, "total", payload.Total)
	t.notify(snap)
}

// Progress handles a *_progress event. The current counter only moves
// forward; a late or duplicate event cannot wind it back.
func (t *Tracker) Progress(data json.RawMessage) {
	var payload progressPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.logger.Error("bad progress payload", "operation", t.op, "error", err)
		return
	}

	t.mu.Lock()
	if !t.active {
		// progress for an operation we never saw start; adopt it
		t.active = true
	}
	if payload.Current > t.current {
		t.current = payload.Current
		t.filename = payload.Filename
	}
	if payload.Total > t.total {
		t.total = payload.Total
	}
	if payload.Linked > t.linked {
		t.linked = payload.Linked
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// Complete handles a *_completed event: the tracker returns to idle and
// the outcome is summarized in a single line.
func (t *Tracker) Complete(data json.RawMessage) string {
	var payload completedPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			t.logger.Error("bad completed payload", "operation", t.op, "error", err)
		}
	}

	t.mu.Lock()
	t.active = false
	t.manual = max(t.manual, payload.Manual+payload.StillManual)
	t.failed = max(t.failed, payload.Failed+payload.StillFailed)
	t.linked = max(t.linked, payload.Linked)
	snap := t.snapshotLocked()
	t.mu.Unlock()

	summary := t.summarize(payload)
	t.logger.Info("bulk operation completed", "operation", t.op, "summary", summary)
	t.notify(snap)
	return summary
}

// Abort returns the tracker to idle after a local failure to start the
// operation, before any started event arrived.
func (t *Tracker) Abort() {
	t.mu.Lock()
	t.active = false
	t.current, t.total = 0, 0
	t.filename = ""
	t.linked, t.manual, t.failed = 0, 0, 0
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.logger.Warn("bulk operation aborted before start", "operation", t.op)
	t.notify(snap)
}

func (t *Tracker) summarize(p completedPayload) string {
	switch t.op {
	case OpScan:
		if p.New == 0 {
			return fmt.Sprintf("scan complete: %d files scanned, nothing new", p.Scanned)
		}
		return fmt.Sprintf("scan complete: %d new of %d scanned, %d linked, %d manual, %d failed",
			p.New, p.Scanned, p.Linked, p.Manual, p.Failed)
	case OpReprocess:
		manual := p.Manual + p.StillManual
		failed := p.Failed + p.StillFailed
		if manual == 0 && failed == 0 {
			return fmt.Sprintf("reprocess complete: all %d files linked", p.Linked)
		}
		return fmt.Sprintf("reprocess complete: %d linked, %d still manual, %d still failed",
			p.Linked, manual, failed)
	}
	return "operation complete"
}

func (t *Tracker) notify(snap Snapshot) {
	if t.onChange != nil {
		t.onChange(snap)
	}
}
