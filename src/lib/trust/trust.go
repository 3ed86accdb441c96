package trust

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10
	fatalMask MaskLevel = 0x80
)

// Sink receives every log line that survives the level mask. The line already
// carries its prefix and a trailing newline.
type Sink func(l MaskLevel, line string)

var (
	mu    sync.Mutex
	level = fatalMask | StatsMask | ErrorMask | WarnMask | InfoMask | DebugMask
	sink  Sink
	halt  = func(code int) { os.Exit(code) }
)

func init() {
	SetOutput(os.Stdout)
}

// SetLevel sets the most verbose level that gets printed; every more severe
// level is printed too, so DebugMask also shows info, warnings and errors.  It
// returns the previous mask.
func SetLevel(mask MaskLevel) MaskLevel {
	if mask&0x1f == 0 {
		Warnf("trust.SetLevel is turning off log messages")
	}
	result := Nothing
	switch {
	case mask&StatsMask > 0:
		result |= StatsMask
		fallthrough
	case mask&DebugMask > 0:
		result |= DebugMask
		fallthrough
	case mask&InfoMask > 0:
		result |= InfoMask
		fallthrough
	case mask&WarnMask > 0:
		result |= WarnMask
		fallthrough
	case mask&ErrorMask > 0:
		result |= ErrorMask
	}
	mu.Lock()
	defer mu.Unlock()
	r := level & 0x1f
	level = result | fatalMask
	return r
}

func Level() MaskLevel {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func LevelToString() string {
	l := Level()
	result := ""
	switch {
	case l&StatsMask > 0:
		result += "stats "
		fallthrough
	case l&DebugMask > 0:
		result += "debug "
		fallthrough
	case l&InfoMask > 0:
		result += "info "
		fallthrough
	case l&WarnMask > 0:
		result += "warn "
		fallthrough
	case l&ErrorMask > 0:
		result += "error"
	}
	return result
}

// SetOutput points the default sink at w. The console on the board, stdout on
// the host.
func SetOutput(w io.Writer) {
	SetSink(func(_ MaskLevel, line string) {
		io.WriteString(w, line)
	})
}

// SetSink replaces the destination of log lines and returns the old one.
func SetSink(s Sink) Sink {
	mu.Lock()
	defer mu.Unlock()
	prev := sink
	sink = s
	return prev
}

// SetHalt installs the function Fatalf calls after logging. On the board it
// parks the core; it must not return there.
func SetHalt(h func(code int)) func(code int) {
	mu.Lock()
	defer mu.Unlock()
	prev := halt
	halt = h
	return prev
}

func logf(l MaskLevel, format string, params ...interface{}) {
	mu.Lock()
	if level&l == 0 {
		mu.Unlock()
		return
	}
	out := sink
	mu.Unlock()

	prefix := ""
	switch {
	case l&ErrorMask > 0:
		prefix = "ERROR:"
	case l&WarnMask > 0:
		prefix = " WARN:"
	case l&InfoMask > 0:
		prefix = " INFO:"
	case l&DebugMask > 0:
		prefix = "DEBUG:"
	case l&StatsMask > 0:
		s, ok := params[0].(string)
		if !ok {
			s = "unknown"
		}
		prefix = fmt.Sprintf("STATS[%s]:", s)
		params = params[1:]
	case l&fatalMask > 0:
		prefix = "FATAL:"
	}
	if len(format) == 0 {
		format = "\n"
	} else if format[len(format)-1] != '\n' {
		format += "\n"
	}
	if out != nil {
		out(l, prefix+fmt.Sprintf(format, params...))
	}
}

//Fatalf prints the given log message (format + params) and then calls the
//halt function with the exitCode provided.  Fatalf is not maskable.
func Fatalf(exitCode int, format string, params ...interface{}) {
	logf(fatalMask, format, params...)
	mu.Lock()
	h := halt
	mu.Unlock()
	h(exitCode)
}

//Errorf prints the given log message (format + params) using the ErrorMask level.
func Errorf(format string, params ...interface{}) {
	logf(ErrorMask, format, params...)
}

//Warnf prints the given log message (format + params) using the WarnMask level.
func Warnf(format string, params ...interface{}) {
	logf(WarnMask, format, params...)
}

//Infof prints the given log message (format + params) using the InfoMask level.
func Infof(format string, params ...interface{}) {
	logf(InfoMask, format, params...)
}

//Debugf prints the given log message (format + params) using the DebugMask level.
func Debugf(format string, params ...interface{}) {
	logf(DebugMask, format, params...)
}

//Statsf prints the given log message (format + params) using the StatsMask level and
//takes an extra parameter that will be visible in the log message as the category
//of stats that is reported.
func Statsf(category string, format string, params ...interface{}) {
	logf(StatsMask, format, append([]interface{}{category}, params...)...)
}

// ParseLevel turns a level name into the mask SetLevel expects.
func ParseLevel(name string) (MaskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return ErrorMask, nil
	case "warn", "warning":
		return WarnMask, nil
	case "info", "":
		return InfoMask, nil
	case "debug":
		return DebugMask, nil
	case "stats":
		return StatsMask, nil
	case "none", "off":
		return Nothing, nil
	}
	return Nothing, fmt.Errorf("unknown log level %q", name)
}
