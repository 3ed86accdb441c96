package sim

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"awakening/src/joy"
)

// Demo jobs, in registration order.
const (
	JobHello = "hello"
	JobCount = "count"
	JobRelay = "relay"
)

// Demo holds the demo jobs and counts how often each has run.
type Demo struct {
	k     *joy.Kernel
	out   io.Writer
	hello atomic.Int64
	count atomic.Int64
	relay atomic.Int64
	// RelayTarget is the core the relay job hands hello to.
	RelayTarget joy.CoreID
}

// RegisterDemo adds the demo jobs to k's registry.  Output goes to the board
// console.
func RegisterDemo(k *joy.Kernel) (*Demo, error) {
	d := &Demo{k: k, out: k.Board().Console(), RelayTarget: 1}
	for _, j := range []struct {
		name string
		fn   func()
	}{
		{JobHello, d.sayHello},
		{JobCount, d.countDown},
		{JobRelay, d.relayHello},
	} {
		if _, err := k.Registry().Register(j.name, j.fn); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Demo) sayHello() {
	n := d.hello.Add(1)
	fmt.Fprintf(d.out, "hello, world (%d)\n", n)
}

func (d *Demo) countDown() {
	d.count.Add(1)
	t := d.k.Board().Timer()
	for i := 3; i > 0; i-- {
		fmt.Fprintf(d.out, "%d...\n", i)
		t.SpinFor(time.Millisecond)
	}
}

// relayHello runs on one secondary and hands work to another.
func (d *Demo) relayHello() {
	d.relay.Add(1)
	hello, _ := d.k.Registry().Lookup(JobHello)
	if err := d.k.SubmitBlocking(d.RelayTarget, hello); err != nil {
		fmt.Fprintf(d.out, "relay: %v\n", err)
	}
}

// Runs reports how many times the named demo job has run.
func (d *Demo) Runs(name string) int64 {
	switch name {
	case JobHello:
		return d.hello.Load()
	case JobCount:
		return d.count.Load()
	case JobRelay:
		return d.relay.Load()
	}
	return 0
}
