package arm_cortex_a53

import "time"

// CounterTimer is the generic timer: a free running count at a fixed
// frequency.  The two readers are CNTFRQ_EL0 and CNTPCT_EL0 on the board.
type CounterTimer struct {
	frequency func() uint64
	count     func() uint64
	start     uint64
}

// NewCounterTimer starts measuring uptime from the current count.
func NewCounterTimer(frequency, count func() uint64) *CounterTimer {
	return &CounterTimer{frequency: frequency, count: count, start: count()}
}

func (c *CounterTimer) hz() uint64 {
	f := c.frequency()
	if f == 0 {
		f = 1 // CNTFRQ_EL0 left unprogrammed by the firmware
	}
	return f
}

// Resolution is the length of one tick.
func (c *CounterTimer) Resolution() time.Duration {
	r := time.Duration(uint64(time.Second) / c.hz())
	if r == 0 {
		r = 1
	}
	return r
}

func (c *CounterTimer) Uptime() time.Duration {
	return TicksToDuration(c.count()-c.start, c.hz())
}

// SpinFor busy waits for at least d, the same way WaitMuSec does: compute the
// target count once and read the counter until it is passed.
func (c *CounterTimer) SpinFor(d time.Duration) {
	if d <= 0 {
		return
	}
	target := c.count() + DurationToTicks(d, c.hz())
	for c.count() < target {
	}
}

// DurationToTicks rounds up so a spin is never shorter than asked.
func DurationToTicks(d time.Duration, hz uint64) uint64 {
	if d <= 0 {
		return 0
	}
	ns := uint64(d)
	whole := (ns / uint64(time.Second)) * hz
	frac := ((ns%uint64(time.Second))*hz + uint64(time.Second) - 1) / uint64(time.Second)
	return whole + frac
}

func TicksToDuration(ticks, hz uint64) time.Duration {
	whole := ticks / hz
	frac := ticks % hz
	return time.Duration(whole)*time.Second + time.Duration(frac*uint64(time.Second)/hz)
}
