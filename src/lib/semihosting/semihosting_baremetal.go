//go:build arm64 && baremetal

package semihosting

import "unsafe"

// call traps to the host with HLT #0xF000.  param is a value or the address
// of a parameter block, depending on op.
func call(op Op, param uintptr) uint64

var block exitBlock

// Exit stops the emulator.  On a board without a debugger attached the HLT
// is undefined, so callers park afterwards.
func Exit(code int) {
	block = newExitBlock(code)
	call(OpExit, uintptr(unsafe.Pointer(&block)))
}

