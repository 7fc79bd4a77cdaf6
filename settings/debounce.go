package settings

import (
	"sync"
	"time"
)

// DefaultDelay is the interval between the last edit and the error annotation.
const DefaultDelay = 200 * time.Millisecond

// Timer is a scheduled task that can be stopped.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs at most one pending task. Scheduling a task cancels the
// previous one; a task that fires after being superseded does nothing.
type Debouncer struct {
	after AfterFunc
	post  func(func())
	timer Timer
	delay time.Duration
	gen   uint64
	mu    sync.Mutex
}

// DebounceOption configures a Debouncer.
type DebounceOption func(*Debouncer)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(after AfterFunc) DebounceOption {
	return func(d *Debouncer) {
		d.after = after
	}
}

// WithPost routes fired tasks through post, typically onto the controller
// loop. Without it tasks run on the timer goroutine.
func WithPost(post func(func())) DebounceOption {
	return func(d *Debouncer) {
		d.post = post
	}
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration, opts ...DebounceOption) *Debouncer {
	d := &Debouncer{
		delay: delay,
		after: realAfterFunc,
		post:  func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the debounce interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending task and runs fn after the delay.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() {
		d.post(func() {
			d.mu.Lock()
			current := d.gen == gen
			if current {
				d.timer = nil
			}
			d.mu.Unlock()

			if current {
				fn()
			}
		})
	})
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
}

// Pending reports whether a task is scheduled and has not run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
