package main

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events into a single trailing call. Each
// Debounce resets the timer, so only the last call within a burst fires.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the debounce duration has elapsed without any
// newer call. The function runs on the timer goroutine.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush cancels any pending call and runs fn now, on the caller's
// goroutine.
func (d *Debouncer) Flush(fn func()) {
	d.Cancel()
	fn()
}
