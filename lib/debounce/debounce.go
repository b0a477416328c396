// Package debounce collapses bursts of calls into a leading and a trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer wraps fn so that a burst of Calls within wait of each other results
// in at most two calls to fn: one immediately for the first Call of the burst
// and one after the burst settles with the argument of the last Call.
//
// A single Debouncer is a single window. Callers wanting independent windows
// need independent Debouncers.
type Debouncer[T any] struct {
	fn   func(T)
	wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
	// gen is bumped on every Call and Stop so a timer that fires after being
	// replaced can tell it is stale.
	gen uint64
}

func New[T any](fn func(T), wait time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		fn:   fn,
		wait: wait,
	}
}

// Call invokes fn with v right away when no window is open and (re)schedules the
// trailing call.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	leading := d.timer == nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	tail := !leading
	d.timer = time.AfterFunc(d.wait, func() {
		d.fire(gen, v, tail)
	})
	d.mu.Unlock()

	if leading {
		d.fn(v)
	}
}

func (d *Debouncer[T]) fire(gen uint64, v T, tail bool) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	if tail {
		d.fn(v)
	}
}

// Pending reports whether a window is currently open.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops any pending trailing call and closes the window. The next Call
// fires immediately again.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
