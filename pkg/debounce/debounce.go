package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into a single invocation of fn.
// With trailing mode (the default) fn runs once the burst has been quiet for
// the wait interval; with leading mode fn runs on the first Trigger of a burst
// and further calls are swallowed until the burst ends.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	wait     time.Duration
	leading  bool
	leadFire bool
	fn       func()
}

// New returns a trailing-edge debouncer around fn.
func New(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// NewLeading returns a leading-edge debouncer around fn.
func NewLeading(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn, leading: true}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.leading {
		if !d.leadFire {
			d.leadFire = true
			go d.fn()
		}
		if d.timer != nil {
			d.timer.Stop()
		}
		d.timer = time.AfterFunc(d.wait, func() {
			d.mu.Lock()
			d.leadFire = false
			d.mu.Unlock()
		})
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels any pending trailing invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.leadFire = false
}

// Throttle returns a wrapper that invokes fn at most once per interval.
// Calls arriving inside the interval are dropped, not queued.
func Throttle(interval time.Duration, fn func()) func() {
	var mu sync.Mutex
	var last time.Time
	return func() {
		mu.Lock()
		now := time.Now()
		if now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn()
	}
}
