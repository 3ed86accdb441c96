package joy

import (
	"fmt"

	"awakening/src/hardware/rpi"
	"awakening/src/lib/memory"
	"awakening/src/lib/trust"
	"awakening/src/lib/upbeat"
)

// Board is everything the init sequence needs from the machine it boots on.
type Board interface {
	Name() string
	// Drivers are initialized in order on the boot core.
	Drivers() []DeviceDriver
	// PostDriverInit runs once every driver is up.  On the Pi 3 it routes the
	// mini UART to its pins.
	PostDriverInit() error
	Layout() *memory.KernelVirtualLayout
	// BSS is the zero-initialized region the boot core clears before
	// anything reads it.
	BSS() []uint64
	Memory() PhysicalMemory
	// ResetVector is the address secondaries jump to when woken.
	ResetVector() uintptr
	Timer() upbeat.Timer
	Console() Console
}

// MainFunc is the kernel proper.  It runs on the boot core after every
// secondary has been woken.
type MainFunc func(k *Kernel, c Core)

// Kernel ties the bring-up sequence to a board.  One Kernel is shared by all
// cores; everything mutable in it is behind a upbeat.Lock.
type Kernel struct {
	board    Board
	config   Config
	level    trust.MaskLevel
	main     MainFunc
	registry *Registry
	jobs     *JobTable
	states   upbeat.Lock[[rpi.NumCores]CoreState]
}

func NewKernel(board Board, cfg Config, main MainFunc) (*Kernel, error) {
	level, err := trust.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.PollInterval < 0 {
		return nil, fmt.Errorf("negative poll interval %v", cfg.PollInterval)
	}
	if main == nil {
		main = func(*Kernel, Core) {}
	}
	r := NewRegistry()
	return &Kernel{
		board:    board,
		config:   cfg,
		level:    level,
		main:     main,
		registry: r,
		jobs:     NewJobTable(r),
	}, nil
}

func (k *Kernel) Board() Board {
	return k.board
}

func (k *Kernel) Config() Config {
	return k.config
}

// Registry is where jobs are registered before they can be submitted.
func (k *Kernel) Registry() *Registry {
	return k.registry
}

func (k *Kernel) Jobs() *JobTable {
	return k.jobs
}

func (k *Kernel) newPoller() *upbeat.Poller {
	return upbeat.NewConstantPoller(k.board.Timer(), k.config.PollInterval)
}

// Submit hands job to core id unless it already has one pending.
func (k *Kernel) Submit(id CoreID, job Job) error {
	return k.jobs.Submit(id, job)
}

// SubmitBlocking hands job to core id, waiting on the calling core for the
// slot to empty first.
func (k *Kernel) SubmitBlocking(id CoreID, job Job) error {
	return k.jobs.SubmitBlocking(id, job, k.newPoller())
}

// SubmitOverride replaces whatever core id has pending and reports whether
// something was dropped.
func (k *Kernel) SubmitOverride(id CoreID, job Job) (bool, error) {
	discarded, err := k.jobs.SubmitOverride(id, job)
	if discarded {
		trust.Warnf("Core %d: pending job dropped for %s", id, k.registry.Name(job))
	}
	return discarded, err
}

// State is the last state core id reported.  Ids outside the board read as
// Reset.
func (k *Kernel) State(id CoreID) CoreState {
	if !id.Valid() {
		return Reset
	}
	return upbeat.Locked(&k.states, func(s *[rpi.NumCores]CoreState) CoreState {
		return s[id]
	})
}

// States is a snapshot of every core's state.
func (k *Kernel) States() [rpi.NumCores]CoreState {
	return upbeat.Locked(&k.states, func(s *[rpi.NumCores]CoreState) [rpi.NumCores]CoreState {
		return *s
	})
}

func (k *Kernel) setState(id CoreID, state CoreState) {
	if !id.Valid() {
		return
	}
	k.states.Do(func(s *[rpi.NumCores]CoreState) {
		s[id] = state
	})
}

// Online is the set of cores that have made it past reset and are not parked.
func (k *Kernel) Online() upbeat.BitSet {
	var set upbeat.BitSet
	for id, s := range k.States() {
		if s != Reset && s != Parked {
			set.Set(upbeat.BitIndex(id))
		}
	}
	return set
}

// Translate resolves addr through the board's layout.
func (k *Kernel) Translate(addr uintptr) (uintptr, memory.AttributeFields, error) {
	out, attrs, err := k.board.Layout().Lookup(addr)
	return out, attrs, memoryError(err)
}
