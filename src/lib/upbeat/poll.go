package upbeat

import (
	"time"

	"github.com/cenkalti/backoff"
)

// Timer is the time source the kernel consumes. On the board it is the
// architectural counter; in tests it is usually simulated.
type Timer interface {
	// Resolution is the length of one counter tick.
	Resolution() time.Duration
	// Uptime is the time since the counter started.
	Uptime() time.Duration
	// SpinFor busy-waits for at least d.
	SpinFor(d time.Duration)
}

// Poller waits for a condition by spinning on a Timer between attempts. How
// long each wait lasts comes from a backoff.BackOff, so a test can hand in a
// zero backoff and a different board could hand in something that grows.
//
// A Poller carries the backoff state and belongs to a single core.
type Poller struct {
	timer  Timer
	policy backoff.BackOff
}

func NewPoller(t Timer, policy backoff.BackOff) *Poller {
	return &Poller{timer: t, policy: policy}
}

// NewConstantPoller waits the same interval between every attempt.
func NewConstantPoller(t Timer, interval time.Duration) *Poller {
	return NewPoller(t, backoff.NewConstantBackOff(interval))
}

// Until calls ready until it returns true. There is no timeout; if ready
// never succeeds Until never returns.  A policy that gives up (returns
// backoff.Stop) is reset and polling continues.
func (p *Poller) Until(ready func() bool) {
	p.policy.Reset()
	for !ready() {
		p.Wait()
	}
}

// Wait spends one backoff interval on the timer.
func (p *Poller) Wait() {
	d := p.policy.NextBackOff()
	if d == backoff.Stop {
		p.policy.Reset()
		d = p.policy.NextBackOff()
	}
	if d > 0 {
		p.timer.SpinFor(d)
	}
}
