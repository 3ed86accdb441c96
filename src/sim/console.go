package sim

import (
	"io"
	"sync"
)

// Console is the simulated serial line: writes go to out, reads come from in.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  io.RuneReader
}

func NewConsole(out io.Writer, in io.RuneReader) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{out: out, in: in}
}

func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

// ReadChar blocks on the input side.  With no input attached it reports EOF.
func (c *Console) ReadChar() (rune, error) {
	if c.in == nil {
		return 0, io.EOF
	}
	r, _, err := c.in.ReadRune()
	return r, err
}
