package joy

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/hardware/rpi"
	"awakening/src/lib/memory"
	"awakening/src/lib/trust"
	"awakening/src/lib/upbeat"
)

// events is an ordered record of what the fakes saw.
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(format string, args ...interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, fmt.Sprintf(format, args...))
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

type fakeCore struct {
	id       CoreID
	level    arm64.PrivilegeLevel
	run      bool // run the entry point from EnterKernel
	stackTop uintptr
	entered  int
	parked   int
	log      *events
}

func (c *fakeCore) ID() CoreID                  { return c.id }
func (c *fakeCore) Level() arm64.PrivilegeLevel { return c.level }

func (c *fakeCore) EnterKernel(entry Entry, stackTop uintptr) {
	c.entered++
	c.stackTop = stackTop
	c.level = arm64.Kernel
	if c.run {
		entry()
	}
}

func (c *fakeCore) Park() {
	c.parked++
	if c.log != nil {
		c.log.add("park %d", c.id)
	}
}

func (c *fakeCore) SendEvent() {
	if c.log != nil {
		c.log.add("sev")
	}
}

type fakeMemory struct {
	mu    sync.Mutex
	words map[uintptr]uint64
	log   *events
}

func newFakeMemory(log *events) *fakeMemory {
	return &fakeMemory{words: map[uintptr]uint64{}, log: log}
}

func (m *fakeMemory) Load64(addr uintptr) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[addr]
}

func (m *fakeMemory) Store64(addr uintptr, v uint64) {
	m.mu.Lock()
	m.words[addr] = v
	m.mu.Unlock()
	if m.log != nil {
		m.log.add("store %#x=%#x", addr, v)
	}
}

// hookTimer calls onSpin from SpinFor so a test can change the world while a
// core is polling.
type hookTimer struct {
	spins  int
	onSpin func(n int)
}

func (t *hookTimer) Resolution() time.Duration { return time.Microsecond }
func (t *hookTimer) Uptime() time.Duration     { return time.Duration(t.spins) * time.Millisecond }
func (t *hookTimer) SpinFor(time.Duration) {
	t.spins++
	if t.onSpin != nil {
		t.onSpin(t.spins)
	}
}

type fakeDriver struct {
	name string
	err  error
	log  *events
}

func (d *fakeDriver) Compatible() string { return d.name }
func (d *fakeDriver) Init() error {
	d.log.add("init %s", d.name)
	return d.err
}

type fakeConsole struct{ strings.Builder }

func (c *fakeConsole) ReadChar() (rune, error) { return 0, errors.New("no input") }

type fakeBoard struct {
	log     *events
	drivers []DeviceDriver
	postErr error
	layout  *memory.KernelVirtualLayout
	bss     []uint64
	mem     *fakeMemory
	timer   *hookTimer
	console fakeConsole
}

const fakeResetVector = 0x80000

func newFakeBoard(t *testing.T) *fakeBoard {
	t.Helper()
	log := &events{}
	layout, err := rpi.VirtualLayout(func() memory.Interval {
		return memory.Interval{Start: 0x80000, End: 0x8ffff}
	})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	bss := make([]uint64, 16)
	for i := range bss {
		bss[i] = 0xdeadbeef
	}
	return &fakeBoard{
		log: log,
		drivers: []DeviceDriver{
			&fakeDriver{name: "BCM GPIO", log: log},
			&fakeDriver{name: "BCM Mini UART", log: log},
		},
		layout: layout,
		bss:    bss,
		mem:    newFakeMemory(log),
		timer:  &hookTimer{},
	}
}

func (b *fakeBoard) Name() string                        { return "fake board" }
func (b *fakeBoard) Drivers() []DeviceDriver             { return b.drivers }
func (b *fakeBoard) Layout() *memory.KernelVirtualLayout { return b.layout }
func (b *fakeBoard) BSS() []uint64                       { return b.bss }
func (b *fakeBoard) Memory() PhysicalMemory              { return b.mem }
func (b *fakeBoard) ResetVector() uintptr                { return fakeResetVector }
func (b *fakeBoard) Timer() upbeat.Timer                 { return b.timer }
func (b *fakeBoard) Console() Console                    { return &b.console }

func (b *fakeBoard) PostDriverInit() error {
	b.log.add("post driver init")
	return b.postErr
}

func newTestKernel(t *testing.T, b *fakeBoard, main MainFunc) *Kernel {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PollInterval = time.Millisecond
	cfg.LogLevel = "error"
	k, err := NewKernel(b, cfg, main)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	return k
}

// quiet routes trust output into the returned buffer for the test's duration.
func quiet(t *testing.T) *strings.Builder {
	t.Helper()
	var mu sync.Mutex
	out := &strings.Builder{}
	prev := trust.SetSink(func(_ trust.MaskLevel, line string) {
		mu.Lock()
		defer mu.Unlock()
		out.WriteString(line)
	})
	prevLevel := trust.Level()
	t.Cleanup(func() {
		trust.SetSink(prev)
		trust.SetLevel(prevLevel)
	})
	return out
}
