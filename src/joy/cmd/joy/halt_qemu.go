//go:build arm64 && baremetal && qemu

package main

import (
	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/lib/semihosting"
)

// halt ends the emulator run with code.
func halt(code int) {
	semihosting.Exit(code)
	arm64.Park()
}
