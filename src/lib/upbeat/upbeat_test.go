package upbeat

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
)

func TestLockExclusive(t *testing.T) {
	l := NewLock(0)
	inside := int32(0)
	var wg sync.WaitGroup
	for core := 0; core < 4; core++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				l.Do(func(v *int) {
					inside++
					if inside != 1 {
						t.Errorf("two callbacks inside the same lock")
					}
					*v = *v + 1
					inside--
				})
			}
		}()
	}
	wg.Wait()
	if got := Locked(l, func(v *int) int { return *v }); got != 4000 {
		t.Errorf("expected 4000 increments, got %d", got)
	}
}

func TestLockReleasedOnEarlyExit(t *testing.T) {
	var l Lock[[]string]
	errBusy := errors.New("busy")
	try := func() error {
		return Locked(&l, func(v *[]string) error {
			if len(*v) > 0 {
				return errBusy
			}
			*v = append(*v, "job")
			return nil
		})
	}
	if err := try(); err != nil {
		t.Fatalf("first attempt should succeed: %v", err)
	}
	if err := try(); err != errBusy {
		t.Fatalf("second attempt should see busy, got %v", err)
	}
	// if the early return leaked the lock this would spin forever
	l.Do(func(v *[]string) { *v = nil })
}

func TestLockReleasedOnPanic(t *testing.T) {
	l := NewLock(1)
	func() {
		defer func() { recover() }()
		l.Do(func(v *int) { panic("boom") })
	}()
	if Locked(l, func(v *int) int { return *v }) != 1 {
		t.Errorf("value changed by panicking callback")
	}
}

type countingTimer struct {
	spins []time.Duration
}

func (c *countingTimer) Resolution() time.Duration { return time.Nanosecond }
func (c *countingTimer) Uptime() time.Duration {
	total := time.Duration(0)
	for _, s := range c.spins {
		total += s
	}
	return total
}
func (c *countingTimer) SpinFor(d time.Duration) { c.spins = append(c.spins, d) }

func TestPollerUntil(t *testing.T) {
	timer := &countingTimer{}
	p := NewConstantPoller(timer, 100*time.Millisecond)
	calls := 0
	p.Until(func() bool {
		calls++
		return calls == 4
	})
	if len(timer.spins) != 3 {
		t.Fatalf("expected 3 waits, got %d", len(timer.spins))
	}
	if timer.Uptime() != 300*time.Millisecond {
		t.Errorf("expected 300ms of spinning, got %v", timer.Uptime())
	}
}

func TestPollerSurvivesStop(t *testing.T) {
	timer := &countingTimer{}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 1)
	p := NewPoller(timer, b)
	calls := 0
	p.Until(func() bool {
		calls++
		return calls == 5
	})
	if calls != 5 {
		t.Errorf("poller gave up after %d calls", calls)
	}
}

func TestBitSet(t *testing.T) {
	var b BitSet
	b.Set(1)
	b.Set(3)
	b.Set(64) // ignored
	if !b.On(1) || !b.On(3) || b.On(2) {
		t.Errorf("wrong membership: %s", b)
	}
	if b.Count() != 2 {
		t.Errorf("expected 2 members, got %d", b.Count())
	}
	b.Clear(1)
	if b.String() != "{3}" {
		t.Errorf("expected {3}, got %s", b)
	}
	b.ClearAll()
	if b.Count() != 0 {
		t.Errorf("ClearAll left members")
	}
}
