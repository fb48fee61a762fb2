// Package watcher provides debounced recalculation scheduling and source
// payload watching. The tree store itself is synchronous; coalescing rapid
// depth changes into one recalculation is the caller's job, and this is the
// caller's tool for it.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default coalescing window for depth
// changes driven by continuous input.
const DefaultDebounceDuration = 250 * time.Millisecond

// DepthDebouncer coalesces a burst of depth updates into a single callback
// carrying the last requested depth. Scheduling a new depth before the
// window elapses replaces the pending one.
type DepthDebouncer struct {
	window time.Duration
	timer  *time.Timer
	mu     sync.Mutex
	seq    uint64
	depth  int
}

// NewDepthDebouncer creates a debouncer with the given window. A zero
// window uses DefaultDebounceDuration.
func NewDepthDebouncer(window time.Duration) *DepthDebouncer {
	if window == 0 {
		window = DefaultDebounceDuration
	}
	return &DepthDebouncer{window: window}
}

// Schedule records depth as the pending value and arms the timer. When the
// window elapses without another Schedule call, apply runs once with the
// most recent depth.
func (d *DepthDebouncer) Schedule(depth int, apply func(depth int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	d.depth = depth

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// Only the most recently scheduled value may fire. Stop() can
		// return false when the timer already fired, so the sequence
		// check is what prevents a stale callback from running.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		depth := d.depth
		d.mu.Unlock()

		apply(depth)
	})
}

// Cancel drops any pending depth without applying it.
func (d *DepthDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Window returns the coalescing window.
func (d *DepthDebouncer) Window() time.Duration {
	return d.window
}
