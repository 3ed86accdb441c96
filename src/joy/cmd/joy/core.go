//go:build arm64 && baremetal

package main

import (
	"sync/atomic"
	"unsafe"

	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/joy"
)

// hwCore is the core the code is running on.  Only the boot core ever runs
// Go on the board; released secondaries stay in the reset code.
type hwCore struct {
	id joy.CoreID
}

func currentCore() hwCore {
	return hwCore{id: joy.CoreID(arm64.CoreNumber())}
}

func (c hwCore) ID() joy.CoreID              { return c.id }
func (c hwCore) Level() arm64.PrivilegeLevel { return arm64.Level() }
func (c hwCore) Park()                       { arm64.Park() }
func (c hwCore) SendEvent()                  { arm64.SendEvent() }

// EnterKernel drops to EL1 with SP_EL1 at stackTop and runs entry on the
// same goroutine.
func (c hwCore) EnterKernel(entry joy.Entry, stackTop uintptr) {
	if !c.id.Valid() {
		arm64.Park()
	}
	arm64.ResumeAtEL1(stackTop)
	entry()
	arm64.Park()
}

// physMemory reaches physical addresses directly; the MMU is off.
type physMemory struct{}

func (physMemory) Load64(addr uintptr) uint64 {
	return atomic.LoadUint64((*uint64)(unsafe.Pointer(addr)))
}

func (physMemory) Store64(addr uintptr, v uint64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(addr)), v)
}
