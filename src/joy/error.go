package joy

import (
	"errors"
	"fmt"

	"awakening/src/lib/memory"
)

const subsystemMask = 0x00ff_0000_0000_0000
const coreIDMask = 0x0000_ffff_0000_0000
const errorNumberMask = 0x0000_0000_0000_ffff
const codeMask = subsystemMask | errorNumberMask

const JoyNoError = JoyError(0)

// Memory Errors
const MemorySubsystem = 1
const MemoryOutOfBounds = 1
const MemoryOverlappingRanges = 2
const MemoryBadRange = 3

var ErrOutOfBounds = errorValue(MemorySubsystem, MemoryOutOfBounds)
var ErrOverlappingRanges = errorValue(MemorySubsystem, MemoryOverlappingRanges)
var ErrBadRange = errorValue(MemorySubsystem, MemoryBadRange)

// Dispatch Errors
const DispatchSubsystem = 2
const DispatchAlreadyBusy = 1
const DispatchNoSuchCore = 2
const DispatchUnknownJob = 3
const DispatchRegistryFull = 4

var ErrAlreadyBusy = errorValue(DispatchSubsystem, DispatchAlreadyBusy)
var ErrNoSuchCore = errorValue(DispatchSubsystem, DispatchNoSuchCore)
var ErrUnknownJob = errorValue(DispatchSubsystem, DispatchUnknownJob)
var ErrRegistryFull = errorValue(DispatchSubsystem, DispatchRegistryFull)

// Driver Errors
const DriverSubsystem = 3
const DriverInitFailed = 1

var ErrDriverInit = errorValue(DriverSubsystem, DriverInitFailed)

// JoyError packs a subsystem, an error number and the core the error is about
// into one word.  Two JoyErrors match under errors.Is when subsystem and
// number agree, whatever core they carry.
type JoyError uint64

var errorMap = map[JoyError]string{
	ErrOutOfBounds:       "address out of bounds",
	ErrOverlappingRanges: "overlapping address ranges",
	ErrBadRange:          "bad address range",
	ErrAlreadyBusy:       "had on going job, refuse to override",
	ErrNoSuchCore:        "no such secondary core",
	ErrUnknownJob:        "job is not registered",
	ErrRegistryFull:      "job registry is full",
	ErrDriverInit:        "driver init failed",
}

func (j JoyError) Error() string {
	t, ok := errorMap[j&codeMask]
	if !ok {
		t = fmt.Sprintf("unknown error code %#x", uint64(j&codeMask))
	}
	if j&coreIDMask == 0 {
		return t
	}
	return fmt.Sprintf("core %d: %s", j.Core(), t)
}

func (j JoyError) Is(target error) bool {
	var other JoyError
	if !errors.As(target, &other) {
		return false
	}
	return j&codeMask == other&codeMask
}

// Core is the core the error is about. Core 0 is also what errors about no
// particular core report.
func (j JoyError) Core() CoreID {
	return CoreID((uint64(j) & coreIDMask) >> 32)
}

func (j JoyError) Subsystem() byte {
	return byte((uint64(j) & subsystemMask) >> 48)
}

func errorValue(subsys byte, errorNumber uint16) JoyError {
	ss := subsystemMask & (uint64(subsys) << 48)
	en := errorNumberMask & (uint64(errorNumber) << 0)
	return JoyError(ss | en)
}

// MakeError adds the core the error concerns to the error value.
func MakeError(raw JoyError, core CoreID) JoyError {
	cid := (uint64(core) << 32) & coreIDMask
	return JoyError(uint64(raw&codeMask) | cid)
}

// memoryError converts the layout package's errors into JoyErrors, keeping
// the detailed message.
func memoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memory.ErrOutOfBounds):
		return fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	case errors.Is(err, memory.ErrOverlappingRanges):
		return fmt.Errorf("%w: %v", ErrOverlappingRanges, err)
	case errors.Is(err, memory.ErrBadRange):
		return fmt.Errorf("%w: %v", ErrBadRange, err)
	}
	return err
}
