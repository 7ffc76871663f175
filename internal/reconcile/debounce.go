// Package reconcile coalesces bursts of change notifications into single
// authoritative refetches of the grouped dataset.
package reconcile

import (
	"sync"
	"time"
)

// Debouncer delays a function until a quiet interval has elapsed with no
// new triggers. Each Trigger cancels any pending run and restarts the
// timer (debounce, not throttle). Safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	timer    *time.Timer
}

// NewDebouncer creates a debouncer running fn after interval of quiet.
func NewDebouncer(interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger requests a run, resetting the quiet-interval timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fn)
}

// Stop cancels any pending run. Further Triggers re-arm the debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
