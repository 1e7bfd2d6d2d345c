// Package watcher implements recursive file system watching with per-path debouncing.
package watcher

import (
	"sync"
	"time"
	"unique"

	"go.trai.ch/chip/internal/core/ports"
)

// MaxWaitFactor bounds how long a pending batch can be held back by a steady stream of
// events: a batch fires at most MaxWaitFactor windows after its first event.
const MaxWaitFactor = 10

// Debouncer coalesces rapid file system events into batches.
// Within a batch every path appears once, in the order it was first seen, with the last
// operation observed for it.
type Debouncer struct {
	mu       sync.Mutex
	order    []unique.Handle[string]
	last     map[unique.Handle[string]]ports.WatchOp
	timer    *time.Timer
	window   time.Duration
	maxWait  time.Duration
	deadline time.Time
	callback func(events []ports.WatchEvent)
	stopped  bool

	// emitMu serializes callbacks so batches are delivered in order.
	emitMu sync.Mutex
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(events []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		last:     make(map[unique.Handle[string]]ports.WatchOp),
		window:   window,
		maxWait:  MaxWaitFactor * window,
		callback: callback,
	}
}

// Add records an operation for path and restarts the quiet period, without moving the
// batch past its deadline.
func (d *Debouncer) Add(path string, op ports.WatchOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if len(d.order) == 0 {
		d.deadline = time.Now().Add(d.maxWait)
	}

	handle := unique.Make(path)
	if _, seen := d.last[handle]; !seen {
		d.order = append(d.order, handle)
	}
	d.last[handle] = op

	delay := min(d.window, max(time.Until(d.deadline), 0))
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	d.timer = nil
	batch := d.drain()
	d.mu.Unlock()

	d.deliver(batch)
}

// Flush immediately delivers all pending events and blocks until the callback returns.
func (d *Debouncer) Flush() {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	batch := d.drain()
	d.mu.Unlock()

	d.deliver(batch)
}

// Stop discards pending events and ignores any later Add.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.order = nil
	clear(d.last)
}

// drain must be called with mu held.
func (d *Debouncer) drain() []ports.WatchEvent {
	if len(d.order) == 0 {
		return nil
	}

	batch := make([]ports.WatchEvent, 0, len(d.order))
	for _, handle := range d.order {
		batch = append(batch, ports.WatchEvent{Path: handle.Value(), Operation: d.last[handle]})
	}
	d.order = nil
	clear(d.last)
	return batch
}

func (d *Debouncer) deliver(batch []ports.WatchEvent) {
	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}
