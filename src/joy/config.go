package joy

import "time"

// Config holds the tunables of the init sequence.  The board build uses
// DefaultConfig; the simulator reads the same struct from the [kernel] table
// of its TOML file.
type Config struct {
	// PollInterval is how long a waiting core spins between looks at its slot.
	PollInterval time.Duration `toml:"poll_interval"`
	// LogLevel is a trust level name: none, error, warn, info, debug or stats.
	LogLevel    string `toml:"log_level"`
	PrintLayout bool   `toml:"print_layout"`
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		LogLevel:     "debug",
		PrintLayout:  true,
	}
}
