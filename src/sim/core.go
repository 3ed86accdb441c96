package sim

import (
	"runtime"
	"sync"

	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/hardware/rpi"
	"awakening/src/joy"
	"awakening/src/lib/trust"
)

// Core is one simulated core, run by its own goroutine.  It comes out of
// reset at EL2, the way the Pi firmware hands cores over.
type Core struct {
	m     *Machine
	id    joy.CoreID
	event chan struct{}

	mu       sync.Mutex
	level    arm64.PrivilegeLevel
	entered  int
	stackTop uintptr
	parked   bool
}

func newCore(m *Machine, id joy.CoreID) *Core {
	return &Core{
		m:     m,
		id:    id,
		event: make(chan struct{}, 1),
		level: arm64.Hypervisor,
	}
}

func (c *Core) ID() joy.CoreID {
	return c.id
}

func (c *Core) Level() arm64.PrivilegeLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// EnterKernel switches to EL1 and runs entry on this goroutine.  The stack
// top is only recorded; the goroutine keeps its own stack.
func (c *Core) EnterKernel(entry joy.Entry, stackTop uintptr) {
	c.mu.Lock()
	if c.level != arm64.Hypervisor {
		c.mu.Unlock()
		trust.Errorf("Core %d: eret to EL1 from %v", c.id, c.level)
		c.Park()
	}
	c.level = arm64.Kernel
	c.entered++
	c.stackTop = stackTop
	c.mu.Unlock()

	entry()
	c.Park()
}

// Park stops the core until the machine is switched off.
func (c *Core) Park() {
	c.mu.Lock()
	c.parked = true
	c.mu.Unlock()
	<-c.m.done()
	runtime.Goexit()
}

// SendEvent wakes every core waiting in WaitForEvent.  An event sent to a
// core that is not waiting stays latched until it next waits.
func (c *Core) SendEvent() {
	for _, other := range c.m.allCores() {
		select {
		case other.event <- struct{}{}:
		default:
		}
	}
}

// WaitForEvent returns after an event or a spurious wakeup.
func (c *Core) WaitForEvent() {
	select {
	case <-c.event:
	case <-c.m.done():
		runtime.Goexit()
	}
}

// Entered is how many times the core has dropped to EL1.
func (c *Core) Entered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entered
}

func (c *Core) StackTop() uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stackTop
}

func (c *Core) Parked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parked
}

// powerOn is the firmware.  The boot core goes straight to the kernel; the
// secondaries wait in the spin table until their mailbox holds an address.
func (c *Core) powerOn() {
	if c.id.Secondary() {
		c.spinTable()
	}
	c.m.kernel.Reset(c)
}

func (c *Core) spinTable() {
	mailbox := rpi.MailboxAddress(uint64(c.id))
	var vector uint64
	for {
		if vector = c.m.board.mem.Load64(mailbox); vector != 0 {
			break
		}
		c.WaitForEvent()
	}
	if uintptr(vector) != c.m.board.ResetVector() {
		trust.Errorf("Core %d: woken to %#x, kernel entry is %#x", c.id, vector, c.m.board.ResetVector())
		c.Park()
	}
}
