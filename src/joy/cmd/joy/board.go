//go:build arm64 && baremetal

package main

import (
	arm64 "awakening/src/hardware/arm-cortex-a53"
	"awakening/src/hardware/bcm2835"
	"awakening/src/hardware/rpi"
	"awakening/src/joy"
	"awakening/src/lib/memory"
	"awakening/src/lib/upbeat"
)

// kernelImageSize bounds the image the firmware loads at
// rpi.KernelLoadAddress.
const kernelImageSize = 2 << 20

// bss is the zero-initialized area that belongs to the kernel rather than to
// the Go runtime.
var bss [256]uint64

type board struct {
	gpio   *bcm2835.GPIO
	uart   *bcm2835.MiniUART
	timer  *arm64.CounterTimer
	layout *memory.KernelVirtualLayout
}

func newBoard() *board {
	aux, gpio := bcm2835.Peripherals()
	layout, err := rpi.VirtualLayout(func() memory.Interval {
		return memory.Interval{
			Start: rpi.KernelLoadAddress,
			End:   rpi.KernelLoadAddress + kernelImageSize - 1,
		}
	})
	if err != nil {
		arm64.Park()
	}
	return &board{
		gpio:   bcm2835.NewGPIO(gpio),
		uart:   bcm2835.NewMiniUART(aux),
		timer:  arm64.NewCounterTimer(arm64.CounterFrequency, arm64.Counter),
		layout: layout,
	}
}

func (b *board) Name() string { return rpi.BoardName }

func (b *board) Drivers() []joy.DeviceDriver {
	return []joy.DeviceDriver{b.gpio, b.uart}
}

func (b *board) PostDriverInit() error {
	b.gpio.MapMiniUART()
	return nil
}

func (b *board) Layout() *memory.KernelVirtualLayout { return b.layout }
func (b *board) BSS() []uint64                       { return bss[:] }
func (b *board) Memory() joy.PhysicalMemory          { return physMemory{} }
func (b *board) ResetVector() uintptr                { return arm64.SecondaryResetAddr() }
func (b *board) Timer() upbeat.Timer                 { return b.timer }
func (b *board) Console() joy.Console                { return b.uart }
