package sim

import (
	"errors"
	"fmt"
	"strings"

	"awakening/src/joy"
	"awakening/src/lib/trust"

	"github.com/BurntSushi/toml"
)

// Submission modes of a [[job]] entry.
const (
	ModeSubmit   = "submit"
	ModeBlocking = "blocking"
	ModeOverride = "override"
)

// JobSpec is one [[job]] entry: hand the named job to a core.
type JobSpec struct {
	Core uint64 `toml:"core"`
	Name string `toml:"name"`
	Mode string `toml:"mode"`
}

// File is a simulator configuration.
//
//	[kernel]
//	poll_interval = "10ms"
//	log_level = "info"
//	print_layout = true
//
//	[[job]]
//	core = 1
//	name = "hello"
//	mode = "blocking"
type File struct {
	Kernel joy.Config `toml:"kernel"`
	Jobs   []JobSpec  `toml:"job"`
}

// LoadConfig reads a configuration file.  Settings it leaves out keep their
// defaults.
func LoadConfig(path string) (File, error) {
	f := File{Kernel: joy.DefaultConfig()}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, err
	}
	return f, f.check(md)
}

// ParseConfig is LoadConfig for a configuration already in memory.
func ParseConfig(data string) (File, error) {
	f := File{Kernel: joy.DefaultConfig()}
	md, err := toml.Decode(data, &f)
	if err != nil {
		return File{}, err
	}
	return f, f.check(md)
}

func (f *File) check(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	if _, err := trust.ParseLevel(f.Kernel.LogLevel); err != nil {
		return err
	}
	for i := range f.Jobs {
		j := &f.Jobs[i]
		if j.Mode == "" {
			j.Mode = ModeSubmit
		}
		switch j.Mode {
		case ModeSubmit, ModeBlocking, ModeOverride:
		default:
			return fmt.Errorf("job %d: unknown mode %q", i, j.Mode)
		}
		if j.Name == "" {
			return fmt.Errorf("job %d: no name", i)
		}
	}
	return nil
}

// Apply submits every job in order.  A core that is still busy in submit mode
// is reported and skipped; any other failure stops the run.
func (f File) Apply(k *joy.Kernel) error {
	for _, spec := range f.Jobs {
		job, ok := k.Registry().Lookup(spec.Name)
		if !ok {
			return fmt.Errorf("%w: %s", joy.ErrUnknownJob, spec.Name)
		}
		id := joy.CoreID(spec.Core)
		var err error
		switch spec.Mode {
		case ModeBlocking:
			err = k.SubmitBlocking(id, job)
		case ModeOverride:
			_, err = k.SubmitOverride(id, job)
		default:
			err = k.Submit(id, job)
		}
		if errors.Is(err, joy.ErrAlreadyBusy) {
			trust.Warnf("%v: %s not submitted", err, spec.Name)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
