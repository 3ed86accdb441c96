package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"awakening/src/joy"
	"awakening/src/lib/trust"
	"awakening/src/sim"

	"github.com/google/subcommands"
	tty "github.com/mattn/go-tty"
)

// consoleCmd implements subcommands.Command for the "console" command.  Keys
// typed on the terminal arrive on the simulated serial line; the kernel main
// turns them into jobs.
type consoleCmd struct {
	device string
}

func (*consoleCmd) Name() string     { return "console" }
func (*consoleCmd) Synopsis() string { return "drive the simulated cores from the keyboard" }
func (*consoleCmd) Usage() string {
	return `console [-device /dev/ttyX]
  1-3  say hello on that core
  c    count down on core 2
  r    relay: core 3 asks core 1 to say hello
  q    quit
`
}

func (c *consoleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.device, "device", "", "terminal device; the controlling terminal if empty")
}

func (c *consoleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	term, err := openTTY(c.device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	defer term.Close()
	restore := term.MustRaw()
	defer restore()

	out := &crlfWriter{w: term.Output()}
	var m *sim.Machine
	m, err = sim.New(sim.Options{
		Config: joy.DefaultConfig(),
		Output: out,
		Input:  runeReader{term},
		Main: func(k *joy.Kernel, _ joy.Core) {
			defer m.Stop()
			keyLoop(k)
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
	if err := m.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func openTTY(device string) (*tty.TTY, error) {
	if device == "" {
		return tty.Open()
	}
	return tty.OpenDevice(device)
}

func keyLoop(k *joy.Kernel) {
	console := k.Board().Console()
	lookup := func(name string) joy.Job {
		j, _ := k.Registry().Lookup(name)
		return j
	}
	fmt.Fprintf(console, "cores online: %v, q quits\n", k.Online())
	for {
		r, err := console.ReadChar()
		if err != nil {
			trust.Errorf("console: %v", err)
			return
		}
		var target joy.CoreID
		var job joy.Job
		switch r {
		case '1', '2', '3':
			target, job = joy.CoreID(r-'0'), lookup(sim.JobHello)
		case 'c':
			target, job = 2, lookup(sim.JobCount)
		case 'r':
			target, job = 3, lookup(sim.JobRelay)
		case 'q', 3: // ctrl-c arrives as a byte in raw mode
			return
		default:
			continue
		}
		if err := k.Submit(target, job); err != nil {
			fmt.Fprintf(console, "%v\n", err)
		}
	}
}

// runeReader adapts a terminal to io.RuneReader.
type runeReader struct {
	t *tty.TTY
}

func (r runeReader) ReadRune() (rune, int, error) {
	c, err := r.t.ReadRune()
	return c, len(string(c)), err
}

// crlfWriter turns LF into CR LF for a terminal in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
