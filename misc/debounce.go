package misc

import (
	"sync"
	"time"
)

// Debouncer runs fn once delay has passed without another Trigger.
// Every Trigger restarts the wait, so only the last of a burst of calls fires.
type Debouncer struct {
	delay   time.Duration
	fn      func()
	mutex   sync.Mutex
	stopped bool
	timer   *time.Timer
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

func (d *Debouncer) Trigger() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending call and ignores later Triggers.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
