package query

import (
	"sync"
	"time"

	"github.com/smallbiznis/storefront/internal/clock"
)

// Debouncer is a single-slot cancellable timer. Scheduling a run cancels the
// pending one, so a burst of requests executes once, after the last request
// has been quiet for the window. The window is read on every Schedule.
type Debouncer struct {
	clock  clock.Clock
	window func() time.Duration

	mu    sync.Mutex
	timer clock.Timer
	seq   uint64
}

func NewDebouncer(clk clock.Clock, window time.Duration) *Debouncer {
	return NewDebouncerFunc(clk, func() time.Duration { return window })
}

// NewDebouncerFunc returns a debouncer whose window follows window().
func NewDebouncerFunc(clk clock.Clock, window func() time.Duration) *Debouncer {
	return &Debouncer{clock: clk, window: window}
}

func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.window(), func() { d.fire(seq, fn) })
}

// Cancel drops the pending run, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(seq uint64, fn func()) {
	d.mu.Lock()
	if seq != d.seq {
		// superseded after the timer already fired
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	fn()
}
