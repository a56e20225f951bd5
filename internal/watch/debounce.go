// Package watch keeps the route-name cache fresh by rescanning the project
// whenever a URL-configuration file changes on disk.
package watch

import (
	"sync"
	"time"
)

// maxPending caps the number of coalesced paths. Hitting it flushes
// immediately so a mass change (branch switch, generator run) cannot grow
// the pending set without bound.
const maxPending = 1000

// debouncer coalesces rapid change events into one flush. Editors often
// write a file several times per save; grouping events within a window keeps
// each burst down to a single rescan.
type debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	onFlush func(paths []string)
	stopped bool
}

func newDebouncer(window time.Duration, onFlush func(paths []string)) *debouncer {
	return &debouncer{
		pending: make(map[string]struct{}),
		window:  window,
		onFlush: onFlush,
	}
}

// add records a changed path. Repeated paths within the window coalesce.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if len(d.pending) >= maxPending {
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.flushLocked()
		return
	}

	// Restart the window. Stop may return false if the timer already fired;
	// that is safe because flush exits early when pending is empty.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

// flushLocked drains the pending set and invokes the handler outside the
// lock. Caller must hold d.mu.
func (d *debouncer) flushLocked() {
	if d.stopped || len(d.pending) == 0 {
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})

	d.mu.Unlock()
	if d.onFlush != nil {
		d.onFlush(paths)
	}
	d.mu.Lock()
}

// stop halts the debouncer, flushing anything still pending.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	if len(paths) > 0 && d.onFlush != nil {
		d.onFlush(paths)
	}
}

// pendingCount returns the number of paths waiting to flush.
func (d *debouncer) pendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
