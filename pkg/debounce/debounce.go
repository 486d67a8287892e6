// Package debounce coalesces rapid triggers into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer keeps at most one pending call. Each Trigger replaces the pending
// function and restarts the quiet interval.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  func()
	gen      uint64
	duration time.Duration
	stopped  bool
}

// New creates a debouncer with the given quiet interval.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Duration returns the quiet interval.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Trigger schedules fn after the quiet interval, dropping any pending call.
// It returns false once the debouncer is stopped.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.duration, func() {
		d.fire(gen)
	})
	return true
}

// fire runs the pending call if no later Trigger, Flush or Cancel superseded it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.take()
	d.mu.Unlock()

	fn()
}

// take clears the pending call. Callers hold d.mu.
func (d *Debouncer) take() func() {
	fn := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return fn
}

// Flush runs the pending call now, on the caller's goroutine.
// It reports whether a call was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	fn := d.take()
	d.mu.Unlock()

	fn()
	return true
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.take()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop drops any pending call and rejects later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.take()
	d.stopped = true
}
