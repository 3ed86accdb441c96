package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"awakening/src/hardware/rpi"
	"awakening/src/joy"
	"awakening/src/sim"

	"github.com/google/subcommands"
)

// bootCmd implements subcommands.Command for the "boot" command.
type bootCmd struct {
	config  string
	timeout time.Duration
	rogue   string
}

func (*bootCmd) Name() string     { return "boot" }
func (*bootCmd) Synopsis() string { return "boot the simulated board and run the configured jobs" }
func (*bootCmd) Usage() string {
	return `boot [-config file.toml] [-timeout 5s] [-rogue 4,5]
`
}

func (b *bootCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.config, "config", "", "TOML file with [kernel] settings and [[job]] entries")
	f.DurationVar(&b.timeout, "timeout", 5*time.Second, "stop the machine after this long")
	f.StringVar(&b.rogue, "rogue", "", "comma separated ids of extra cores outside the board's range")
}

func (b *bootCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	file := sim.File{Kernel: joy.DefaultConfig()}
	if b.config != "" {
		var err error
		if file, err = sim.LoadConfig(b.config); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	rogue, err := parseCores(b.rogue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rogue: %v\n", err)
		return subcommands.ExitUsageError
	}

	var m *sim.Machine
	var applyErr error
	m, err = sim.New(sim.Options{
		Config: file.Kernel,
		Rogue:  rogue,
		Output: os.Stdout,
		Main: func(k *joy.Kernel, c joy.Core) {
			defer m.Stop()
			if applyErr = file.Apply(k); applyErr != nil {
				return
			}
			drain(k)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := sim.RegisterDemo(m.Kernel()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	err = m.Run(ctx)
	if applyErr != nil {
		err = applyErr
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("cores: %v\n", m.Kernel().States())
	return subcommands.ExitSuccess
}

// drain waits, on the boot core, until no secondary has work pending or
// running on two looks in a row.
func drain(k *joy.Kernel) {
	t := k.Board().Timer()
	for quiet := 0; quiet < 2; {
		t.SpinFor(k.Config().PollInterval)
		quiet++
		for id := joy.CoreID(1); id < rpi.NumCores; id++ {
			_, pending := k.Jobs().Pending(id)
			if pending || k.State(id) != joy.SecondaryWaiting {
				quiet = 0
			}
		}
	}
}

func parseCores(list string) ([]joy.CoreID, error) {
	var ids []joy.CoreID
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, joy.CoreID(n))
	}
	return ids, nil
}
