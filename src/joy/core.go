package joy

import (
	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/hardware/rpi"
)

// CoreID is a core's affinity 0 number.  Ids 0..rpi.NumCores-1 are known
// cores; anything else is parked at reset.
type CoreID uint64

const BootCore = CoreID(rpi.BootCoreID)

// Valid reports whether id names a core this kernel runs on.
func (id CoreID) Valid() bool {
	return id&^rpi.CoreIDMask == 0 && id < rpi.NumCores
}

// Secondary reports whether id is a valid core other than the boot core.
func (id CoreID) Secondary() bool {
	return id.Valid() && id != BootCore
}

// CoreState is where a core is in its life.  Reset leads to Bootstrapping
// for a known id and to Parked (forever) otherwise.  The boot core goes on to
// MasterRunning; the others alternate between SecondaryWaiting and
// SecondaryRunning as jobs arrive and finish.
type CoreState uint32

const (
	Reset CoreState = iota
	Bootstrapping
	MasterRunning
	SecondaryWaiting
	SecondaryRunning
	Parked
)

func (s CoreState) String() string {
	switch s {
	case Reset:
		return "Reset"
	case Bootstrapping:
		return "Bootstrapping"
	case MasterRunning:
		return "MasterRunning"
	case SecondaryWaiting:
		return "SecondaryWaiting"
	case SecondaryRunning:
		return "SecondaryRunning"
	case Parked:
		return "Parked"
	}
	return "Invalid"
}

// Entry is where a core continues once it is at EL1.
type Entry func()

// Core is what the kernel needs from the core it is running on.
type Core interface {
	// ID is the raw core number read from the hardware.
	ID() CoreID
	Level() arm64.PrivilegeLevel
	// EnterKernel drops to EL1 with the stack at stackTop and runs entry.
	// It does not return.
	EnterKernel(entry Entry, stackTop uintptr)
	// Park waits for events forever. It does not return.
	Park()
	// SendEvent makes earlier stores visible and wakes every core in WFE.
	SendEvent()
}

// PhysicalMemory is word access to physical addresses, for the spin table.
type PhysicalMemory interface {
	Load64(addr uintptr) uint64
	Store64(addr uintptr, value uint64)
}
