// Command smpsim runs the multi-core bring-up sequence on a simulated
// Raspberry Pi 3.
package main

import (
	"context"
	"flag"
	"os"
	"regexp"
	"strconv"
	"strings"

	"awakening/src/lib/trust"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

var jsonLog = flag.Bool("json", false, "log kernel messages as JSON")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&bootCmd{}, "")
	subcommands.Register(&layoutCmd{}, "")
	subcommands.Register(&consoleCmd{}, "")
	flag.Parse()

	installLogger(*jsonLog)
	os.Exit(int(subcommands.Execute(context.Background())))
}

// installLogger sends everything the kernel logs through logrus.  The level
// mask stays trust's business; logrus only formats.
func installLogger(json bool) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.TraceLevel)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	trust.SetSink(kernelSink(l))
}

var corePrefix = regexp.MustCompile(`^Core (\d+)[:.]?\s*`)

// kernelSink turns trust lines into logrus entries.  A leading "Core N" in
// the message becomes the core field.
func kernelSink(l *logrus.Logger) trust.Sink {
	return func(level trust.MaskLevel, line string) {
		_, msg, _ := strings.Cut(strings.TrimRight(line, "\r\n"), ":")
		msg = strings.TrimSpace(msg)
		e := l.WithField("src", "kernel")
		if m := corePrefix.FindStringSubmatch(msg); m != nil {
			id, _ := strconv.Atoi(m[1])
			e = e.WithField("core", id)
			msg = msg[len(m[0]):]
		}
		switch {
		case level&trust.ErrorMask != 0:
			e.Error(msg)
		case level&trust.WarnMask != 0:
			e.Warn(msg)
		case level&trust.InfoMask != 0:
			e.Info(msg)
		case level&trust.DebugMask != 0:
			e.Debug(msg)
		case level&trust.StatsMask != 0:
			e.WithField("stats", true).Trace(msg)
		default:
			e.WithField("fatal", true).Error(msg)
		}
	}
}
