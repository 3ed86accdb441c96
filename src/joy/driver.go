package joy

import (
	"fmt"
	"io"

	"awakening/src/lib/trust"
)

// DeviceDriver is a device the board initializes once, on the boot core,
// before any secondary core is woken.
type DeviceDriver interface {
	Compatible() string
	Init() error
}

// Console is the board's serial line.  ReadChar blocks until a character
// arrives.
type Console interface {
	io.Writer
	ReadChar() (rune, error)
}

// InitDrivers initializes every driver in order and stops at the first
// failure.  The error names the driver that failed.
func InitDrivers(drivers []DeviceDriver) error {
	for i, d := range drivers {
		if err := d.Init(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDriverInit, d.Compatible(), err)
		}
		trust.Debugf("      %d. %s", i+1, d.Compatible())
	}
	return nil
}
