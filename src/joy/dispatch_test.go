package joy

import (
	"testing"

	arm64 "awakening/src/hardware/arm-cortex-a53"

	"github.com/google/go-cmp/cmp"
)

func TestRouteFor(t *testing.T) {
	tests := []struct {
		id   CoreID
		want Route
	}{
		{0, Route{Role: RoleMaster, StackTop: 0x80000}},
		{1, Route{Role: RoleSecondary, StackTop: 0x70000}},
		{2, Route{Role: RoleSecondary, StackTop: 0x60000}},
		{3, Route{Role: RoleSecondary, StackTop: 0x50000}},
		{4, Route{Role: RolePark}},
		{7, Route{Role: RolePark}},
		{0x100, Route{Role: RolePark}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, RouteFor(tt.id)); diff != "" {
			t.Errorf("RouteFor(%d) mismatch (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestStacksAreDisjoint(t *testing.T) {
	for a := CoreID(0); a < 4; a++ {
		aLo, aHi := StackBounds(a)
		if aHi > 0x80000 || aHi-aLo != 0x10000 {
			t.Errorf("core %d stack [%#x,%#x) has the wrong shape", a, aLo, aHi)
		}
		for b := a + 1; b < 4; b++ {
			bLo, bHi := StackBounds(b)
			if aLo < bHi && bLo < aHi {
				t.Errorf("stacks of core %d and core %d overlap", a, b)
			}
		}
	}
}

func TestResetParksUnknownCores(t *testing.T) {
	quiet(t)
	k := newTestKernel(t, newFakeBoard(t), nil)
	for _, id := range []CoreID{4, 5, 0xff} {
		c := &fakeCore{id: id, level: arm64.Hypervisor}
		k.Reset(c)
		if c.entered != 0 || c.parked != 1 {
			t.Errorf("core %d: entered %d times and parked %d times", id, c.entered, c.parked)
		}
		if c.level != arm64.Hypervisor {
			t.Errorf("core %d left EL2", id)
		}
	}
	if k.Online().Count() != 0 {
		t.Errorf("parked cores show up online: %v", k.Online())
	}
}

func TestResetEntersKernelOnOwnStack(t *testing.T) {
	quiet(t)
	k := newTestKernel(t, newFakeBoard(t), nil)
	for id := CoreID(0); id < 4; id++ {
		c := &fakeCore{id: id, level: arm64.Hypervisor}
		k.Reset(c)
		if c.entered != 1 {
			t.Fatalf("core %d did not enter the kernel", id)
		}
		if c.stackTop != StackTop(id) {
			t.Errorf("core %d stack top %#x, want %#x", id, c.stackTop, StackTop(id))
		}
		if c.level != arm64.Kernel {
			t.Errorf("core %d at %v after reset", id, c.level)
		}
	}
}
