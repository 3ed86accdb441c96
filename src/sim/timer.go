package sim

import (
	"runtime"
	"time"
)

// Timer runs on the host clock.  A core spinning on it when the machine
// stops is taken off the board: the goroutine exits.
type Timer struct {
	start time.Time
	done  <-chan struct{}
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Resolution() time.Duration {
	return time.Microsecond
}

func (t *Timer) Uptime() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) SpinFor(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-t.done:
		runtime.Goexit()
	}
}
