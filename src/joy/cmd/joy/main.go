//go:build arm64 && baremetal

// Command joy is the kernel image for a Raspberry Pi 3.  The firmware starts
// core 0 at the load address; the other cores are released later through the
// spin table and idle at EL1 on their own stacks.
package main

import (
	"awakening/src/joy"
	"awakening/src/lib/trust"
)

func main() {
	board := newBoard()
	trust.SetOutput(board.uart)
	trust.SetHalt(halt)

	k, err := joy.NewKernel(board, joy.DefaultConfig(), kernelMain)
	if err != nil {
		trust.Fatalf(1, "%v", err)
	}
	k.Reset(currentCore())
}

// kernelMain serves the console: 's' reports the core states, 't'
// translates the UART base, anything else is echoed.
func kernelMain(k *joy.Kernel, c joy.Core) {
	console := k.Board().Console()
	for {
		r, err := console.ReadChar()
		if err != nil {
			continue
		}
		switch r {
		case 's':
			for id, state := range k.States() {
				trust.Infof("core %d: %s", id, state)
			}
		case 't':
			const uart = 0x3F215040
			phys, attrs, err := k.Translate(uart)
			if err != nil {
				trust.Errorf("%v", err)
				continue
			}
			trust.Infof("%#x -> %#x %+v", uart, phys, attrs)
		default:
			trust.Infof("%c", r)
		}
	}
}
