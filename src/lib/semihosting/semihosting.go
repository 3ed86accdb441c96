// Package semihosting asks a debugger or emulator (QEMU with -semihosting)
// to act for the program.  Only exit is used.
package semihosting

type Op uint64

const OpExit Op = 0x18

// StopCode is the reason an exit reports to the host.
type StopCode uint64

const (
	StopRuntimeErrorUnknown StopCode = 0x20023
	StopApplicationExit     StopCode = 0x20026
)

// exitBlock is the parameter block of an AArch64 exit call: the reason,
// then the status the host process exits with.
type exitBlock [2]uint64

func newExitBlock(code int) exitBlock {
	reason := StopApplicationExit
	if code != 0 {
		reason = StopRuntimeErrorUnknown
	}
	return exitBlock{uint64(reason), uint64(code)}
}

// Reason is the stop code an exit with code reports.
func (b exitBlock) Reason() StopCode {
	return StopCode(b[0])
}
