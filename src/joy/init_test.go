package joy

import (
	"errors"
	"strings"
	"testing"

	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/lib/memory"
	"awakening/src/lib/trust"

	"github.com/google/go-cmp/cmp"
)

func TestMasterInitSequence(t *testing.T) {
	quiet(t)
	b := newFakeBoard(t)
	var seen bootView
	k := newTestKernel(t, b, func(k *Kernel, c Core) {
		b.log.add("main on %d", c.ID())
		seen = bootView{k.State(c.ID()), k.Online().String()}
	})
	c := &fakeCore{id: 0, level: arm64.Hypervisor, run: true, log: b.log}
	k.Reset(c)

	want := []string{
		"init BCM GPIO",
		"init BCM Mini UART",
		"post driver init",
		"store 0xe0=0x80000",
		"store 0xe8=0x80000",
		"store 0xf0=0x80000",
		"sev",
		"main on 0",
		"park 0",
	}
	if diff := cmp.Diff(want, b.log.all()); diff != "" {
		t.Errorf("boot sequence mismatch (-want +got):\n%s", diff)
	}
	for i, w := range b.bss {
		if w != 0 {
			t.Fatalf("bss word %d not cleared: %#x", i, w)
		}
	}
	if got := b.mem.Load64(0xd8); got != 0 {
		t.Errorf("boot core mailbox written: %#x", got)
	}
	if seen.State != MasterRunning || seen.Set != "{0}" {
		t.Errorf("main saw %+v", seen)
	}
}

// bootView is what kernel main observed about the boot core.
type bootView struct {
	State CoreState
	Set   string
}

func TestMasterInitHaltsOnDriverFailure(t *testing.T) {
	out := quiet(t)
	b := newFakeBoard(t)
	b.drivers[1].(*fakeDriver).err = errors.New("no uart")
	code := 0
	prev := trust.SetHalt(func(c int) { code = c })
	defer trust.SetHalt(prev)

	mainRan := false
	k := newTestKernel(t, b, func(*Kernel, Core) { mainRan = true })
	k.Reset(&fakeCore{id: 0, level: arm64.Hypervisor, run: true, log: b.log})

	if code != 1 || mainRan {
		t.Errorf("halt code %d, main ran %v", code, mainRan)
	}
	want := []string{"init BCM GPIO", "init BCM Mini UART"}
	if diff := cmp.Diff(want, b.log.all()); diff != "" {
		t.Errorf("boot went past the failing driver (-want +got):\n%s", diff)
	}
	if k.State(0) != Parked {
		t.Errorf("boot core in state %v", k.State(0))
	}
	if !strings.Contains(out.String(), "FATAL:Core 0: driver init failed: BCM Mini UART: no uart") {
		t.Errorf("fatal report missing from %q", out.String())
	}
}

func TestWakeSecondaries(t *testing.T) {
	log := &events{}
	mem := newFakeMemory(log)
	WakeSecondaries(mem, &fakeCore{id: 0, log: log}, 0x80000)
	want := []string{
		"store 0xe0=0x80000",
		"store 0xe8=0x80000",
		"store 0xf0=0x80000",
		"sev",
	}
	if diff := cmp.Diff(want, log.all()); diff != "" {
		t.Errorf("wake mismatch (-want +got):\n%s", diff)
	}
}

func TestServeNextClearsSlotBeforeRunning(t *testing.T) {
	quiet(t)
	b := newFakeBoard(t)
	k := newTestKernel(t, b, nil)
	runs := 0
	var again Job
	again = register(t, k.Registry(), "again", func() {
		runs++
		if _, busy := k.Jobs().Pending(2); busy {
			t.Errorf("slot still full while the job runs")
		}
		if err := k.Submit(2, again); err != nil {
			t.Errorf("resubmit to own core: %v", err)
		}
	})
	if err := k.Submit(2, again); err != nil {
		t.Fatal(err)
	}
	p := k.newPoller()
	if got := k.ServeNext(2, p); got != again {
		t.Errorf("served %d", got)
	}
	if runs != 1 {
		t.Errorf("job ran %d times", runs)
	}
	if j, busy := k.Jobs().Pending(2); !busy || j != again {
		t.Errorf("resubmitted job lost")
	}
	if k.State(2) != SecondaryWaiting {
		t.Errorf("core 2 in state %v", k.State(2))
	}
}

func TestServeNextWaitsForWork(t *testing.T) {
	quiet(t)
	b := newFakeBoard(t)
	k := newTestKernel(t, b, nil)
	ran := false
	j := register(t, k.Registry(), "late", func() { ran = true })
	b.timer.onSpin = func(n int) {
		if n == 3 {
			if err := k.Submit(1, j); err != nil {
				t.Errorf("submit: %v", err)
			}
		}
	}
	k.ServeNext(1, k.newPoller())
	if !ran || b.timer.spins != 3 {
		t.Errorf("ran %v after %d waits", ran, b.timer.spins)
	}
}

func TestSubmitBlockingWaitsForSlot(t *testing.T) {
	quiet(t)
	b := newFakeBoard(t)
	k := newTestKernel(t, b, nil)
	first := register(t, k.Registry(), "first", nil)
	second := register(t, k.Registry(), "second", nil)
	if err := k.Submit(3, first); err != nil {
		t.Fatal(err)
	}
	b.timer.onSpin = func(n int) {
		if n == 2 {
			k.Jobs().Take(3)
		}
	}
	if err := k.SubmitBlocking(3, second); err != nil {
		t.Fatal(err)
	}
	if j, _ := k.Jobs().Pending(3); j != second || b.timer.spins != 2 {
		t.Errorf("pending %d after %d waits", j, b.timer.spins)
	}
}

// A, then B refused, then C replacing A: only C runs on core 2.
func TestOverrideScenario(t *testing.T) {
	quiet(t)
	b := newFakeBoard(t)
	k := newTestKernel(t, b, nil)
	var ran []string
	a := register(t, k.Registry(), "A", func() { ran = append(ran, "A") })
	bj := register(t, k.Registry(), "B", func() { ran = append(ran, "B") })
	c := register(t, k.Registry(), "C", func() { ran = append(ran, "C") })

	if err := k.Submit(2, a); err != nil {
		t.Fatal(err)
	}
	if err := k.Submit(2, bj); !errors.Is(err, ErrAlreadyBusy) {
		t.Fatalf("expected busy, got %v", err)
	}
	if discarded, err := k.SubmitOverride(2, c); err != nil || !discarded {
		t.Fatalf("override: %v %v", discarded, err)
	}
	k.ServeNext(2, k.newPoller())
	if diff := cmp.Diff([]string{"C"}, ran); diff != "" {
		t.Errorf("jobs run (-want +got):\n%s", diff)
	}
}

func TestTranslate(t *testing.T) {
	b := newFakeBoard(t)
	k := newTestKernel(t, b, nil)

	out, attrs, err := k.Translate(0x3F20_0000)
	if err != nil || out != 0x3F20_0000 || attrs.MemAttributes != memory.Device {
		t.Errorf("MMIO lookup: %#x %+v %v", out, attrs, err)
	}
	if _, _, err := k.Translate(0x5000_0000); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestNewKernelRejectsBadConfig(t *testing.T) {
	b := newFakeBoard(t)
	cfg := DefaultConfig()
	cfg.LogLevel = "shouty"
	if _, err := NewKernel(b, cfg, nil); err == nil {
		t.Errorf("expected an error for an unknown log level")
	}
}
