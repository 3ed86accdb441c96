package bcm2835

import (
	"sync/atomic"
	"unsafe"

	"awakening/src/hardware/rpi"
)

// Peripherals returns the register blocks at their physical addresses. Only
// meaningful on the board with the MMIO range identity mapped.
func Peripherals() (*AuxPeripheralsRegisterMap, *GPIORegisterMap) {
	aux := (*AuxPeripheralsRegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0x00215000))
	gpio := (*GPIORegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0x00200000))
	return aux, gpio
}

// delay burns n iterations; the GPIO pull up/down sequence needs 150 cycles
// between steps.
func delay(n int) {
	var spin atomic.Uint32
	for i := 0; i < n; i++ {
		spin.Add(1)
	}
}
