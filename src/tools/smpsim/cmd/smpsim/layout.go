package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"awakening/src/hardware/rpi"
	"awakening/src/sim"

	"github.com/google/subcommands"
)

// layoutCmd implements subcommands.Command for the "layout" command.
type layoutCmd struct{}

func (*layoutCmd) Name() string     { return "layout" }
func (*layoutCmd) Synopsis() string { return "print the kernel virtual layout and translate addresses" }
func (*layoutCmd) Usage() string {
	return `layout [address ...]
`
}

func (*layoutCmd) SetFlags(*flag.FlagSet) {}

func (*layoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	layout, err := rpi.VirtualLayout(sim.KernelRO)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if err := layout.WriteReport(os.Stdout); err != nil {
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		addr, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		out, attrs, err := layout.Lookup(uintptr(addr))
		if err != nil {
			fmt.Printf("%#x: %v\n", addr, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%#x -> %#x %+v\n", addr, out, attrs)
	}
	return status
}
