package sim

import (
	"errors"

	"awakening/src/hardware/bcm2835"
	"awakening/src/hardware/rpi"
	"awakening/src/joy"
	"awakening/src/lib/memory"
	"awakening/src/lib/upbeat"
)

// KernelImageSize is how much room the simulated kernel image takes above the
// load address.
const KernelImageSize = 0x20000

const bssWords = 512

// Board is a Pi 3 whose peripherals are register maps in host memory.  The
// GPIO and mini UART drivers are the real ones.
type Board struct {
	gpioRegs bcm2835.GPIORegisterMap
	auxRegs  bcm2835.AuxPeripheralsRegisterMap
	gpio     *bcm2835.GPIO
	uart     *bcm2835.MiniUART
	extra    []joy.DeviceDriver
	layout   *memory.KernelVirtualLayout
	bss      []uint64
	mem      *Memory
	timer    *Timer
	console  *Console
}

func NewBoard(console *Console, extra ...joy.DeviceDriver) (*Board, error) {
	b := &Board{
		extra:   extra,
		bss:     make([]uint64, bssWords),
		mem:     NewMemory(),
		timer:   NewTimer(),
		console: console,
	}
	b.gpio = bcm2835.NewGPIO(&b.gpioRegs)
	b.uart = bcm2835.NewMiniUART(&b.auxRegs)
	// whatever was in RAM at power on
	for i := range b.bss {
		b.bss[i] = 0xdead_beef_0000_0000 | uint64(i)
	}
	layout, err := rpi.VirtualLayout(KernelRO)
	if err != nil {
		return nil, err
	}
	b.layout = layout
	return b, nil
}

// KernelRO is where the simulated kernel image claims to live.
func KernelRO() memory.Interval {
	return memory.Interval{
		Start: rpi.KernelLoadAddress,
		End:   rpi.KernelLoadAddress + KernelImageSize - 1,
	}
}

func (b *Board) Name() string {
	return rpi.BoardName + " (simulated)"
}

func (b *Board) Drivers() []joy.DeviceDriver {
	return append([]joy.DeviceDriver{b.gpio, b.uart}, b.extra...)
}

func (b *Board) PostDriverInit() error {
	b.gpio.MapMiniUART()
	return nil
}

func (b *Board) Layout() *memory.KernelVirtualLayout { return b.layout }
func (b *Board) BSS() []uint64                       { return b.bss }
func (b *Board) Memory() joy.PhysicalMemory          { return b.mem }
func (b *Board) ResetVector() uintptr                { return rpi.KernelLoadAddress }
func (b *Board) Timer() upbeat.Timer                 { return b.timer }
func (b *Board) Console() joy.Console                { return b.console }

// RAM is the board's physical memory with its concrete type.
func (b *Board) RAM() *Memory {
	return b.mem
}

// GPIO exposes the pin controller so tests can read back pin functions.
func (b *Board) GPIO() *bcm2835.GPIO {
	return b.gpio
}

// UARTEnabled reports whether the mini UART's transmitter and receiver are
// both on.
func (b *Board) UARTEnabled() bool {
	return b.auxRegs.Enables.HasBits(bcm2835.PeripheralMiniUART) &&
		b.auxRegs.MiniUARTExtraControl.HasBits(bcm2835.ReceiveEnable) &&
		b.auxRegs.MiniUARTExtraControl.HasBits(bcm2835.TransmitEnable)
}

// Device is a stand-in driver.  A non-nil Err makes Init fail.
type Device struct {
	Name  string
	Err   error
	Inits int
}

func (d *Device) Compatible() string { return d.Name }

func (d *Device) Init() error {
	d.Inits++
	return d.Err
}

// ErrDeviceMissing is what a Device configured to fail reports by default.
var ErrDeviceMissing = errors.New("device not present")
