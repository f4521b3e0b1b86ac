// Package debounce coalesces bursts of calls into a single deferred one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending function, firing it only after the
// configured delay has passed without another Schedule call. Safe for
// concurrent use.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New returns a Debouncer with the given quiescence delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiescence delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule arms the debouncer with fn, replacing any pending function. fn
// runs on its own goroutine once the full delay elapses without another
// Schedule call.
//
// The returned cancel func stops the pending fn; it reports false when fn
// already fired or was superseded by a later Schedule.
func (d *Debouncer) Schedule(fn func()) (cancel func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer == t {
			d.timer = nil
		}
		d.mu.Unlock()
		fn()
	})
	d.timer = t

	return func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.timer == t {
			d.timer = nil
		}
		return t.Stop()
	}
}

// Cancel stops the pending function, if any. It reports whether a pending
// function was stopped before firing.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
