// Package sim runs the bring-up sequence on the host: one goroutine per
// core, a spin table in simulated physical memory and WFE/SEV as channels.
package sim

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"awakening/src/hardware/rpi"
	"awakening/src/joy"
	"awakening/src/lib/trust"

	"golang.org/x/sync/errgroup"
)

// Options configures a Machine.
type Options struct {
	Config joy.Config
	// Main is the kernel main run on the boot core.
	Main joy.MainFunc
	// Rogue are extra cores with ids outside the board's range.  They come
	// out of reset like any other core.
	Rogue []joy.CoreID
	// Devices are initialized after the GPIO and mini UART.
	Devices []joy.DeviceDriver
	Output  io.Writer
	Input   io.RuneReader
}

// HaltError is returned by Run when the kernel halted.
type HaltError struct {
	Code int
}

func (h *HaltError) Error() string {
	return fmt.Sprintf("kernel halted with code %d", h.Code)
}

type Machine struct {
	board  *Board
	kernel *joy.Kernel
	cores  [rpi.NumCores]*Core
	rogue  []*Core

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	halted *HaltError
}

func New(opts Options) (*Machine, error) {
	board, err := NewBoard(NewConsole(opts.Output, opts.Input), opts.Devices...)
	if err != nil {
		return nil, err
	}
	k, err := joy.NewKernel(board, opts.Config, opts.Main)
	if err != nil {
		return nil, err
	}
	m := &Machine{board: board, kernel: k}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	for id := range m.cores {
		m.cores[id] = newCore(m, joy.CoreID(id))
	}
	for _, id := range opts.Rogue {
		if id.Valid() {
			return nil, fmt.Errorf("core %d is not a rogue core", id)
		}
		m.rogue = append(m.rogue, newCore(m, id))
	}
	return m, nil
}

func (m *Machine) Kernel() *joy.Kernel { return m.kernel }
func (m *Machine) Board() *Board       { return m.board }

// Core returns core id, including rogue cores.
func (m *Machine) Core(id joy.CoreID) *Core {
	for _, c := range m.allCores() {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (m *Machine) allCores() []*Core {
	return append(m.cores[:], m.rogue...)
}

func (m *Machine) done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.Done()
}

// Run powers on every core and returns once the machine is stopped, either by
// ctx, by Stop or by the kernel halting.  A Machine runs once.
func (m *Machine) Run(ctx context.Context) error {
	m.mu.Lock()
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.board.timer.done = m.ctx.Done()
	m.mu.Unlock()

	prev := trust.SetHalt(m.halt)
	defer trust.SetHalt(prev)

	g := new(errgroup.Group)
	for _, c := range m.allCores() {
		c := c
		g.Go(func() error {
			c.powerOn()
			return nil
		})
	}
	err := g.Wait()
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.halted != nil {
		return m.halted
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Stop switches the machine off.  Every core leaves at its next wait.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
}

// Halted reports how the kernel halted, or nil.
func (m *Machine) Halted() *HaltError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.halted
}

func (m *Machine) halt(code int) {
	m.mu.Lock()
	m.halted = &HaltError{Code: code}
	m.mu.Unlock()
	m.Stop()
	runtime.Goexit()
}
