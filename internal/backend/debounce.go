package backend

import "time"

// debounce collapses a burst of triggers into one firing after the burst has
// been quiet for interval. It is owned by a single goroutine.
type debounce struct {
	interval time.Duration
	timer    *time.Timer
}

func newDebounce(interval time.Duration) *debounce {
	return &debounce{interval: interval}
}

// trigger (re)starts the quiet period.
func (d *debounce) trigger() {
	if d.timer == nil {
		d.timer = time.NewTimer(d.interval)
		return
	}
	d.timer.Reset(d.interval)
}

// C fires once the quiet period elapses. It is nil, and so never ready in a
// select, until the first trigger.
func (d *debounce) C() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

func (d *debounce) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}
