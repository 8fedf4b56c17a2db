package binary

import (
	"fmt"

	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

// Changes writes only the registers that changed since the previous frame. Every record starts
// with the delta time high and low bytes and the number of changed registers, followed by a
// register index and value pair per change. All registers count as changed in the first frame.
type Changes struct {
	opts  options.Output
	out   *dump.Output
	last  [sid.RegisterCount]byte
	first bool
	buf   []byte
}

// NewChanges returns a formatter writing the changed registers and timing bytes per frame.
func NewChanges() dump.Formatter {
	return &Changes{
		buf: make([]byte, 0, 3+2*sid.RegisterCount),
	}
}

// Configure sets the options of the formatter.
func (c *Changes) Configure(opts options.Output) error {
	c.opts = opts
	return nil
}

// Before creates the output file, truncating an existing one.
func (c *Changes) Before() error {
	out, err := dump.Open(c.opts, dump.FileName(c.opts, Extension))
	if err != nil {
		return err
	}
	c.out = out
	c.first = true
	return nil
}

// PerFrame writes the change record of the frame.
func (c *Changes) PerFrame(state *sid.State) error {
	if c.out == nil {
		return dump.ErrNotOpen
	}

	c.buf = append(c.buf[:0],
		state.Registers[sid.RegisterCount], state.Registers[sid.RegisterCount+1], 0)
	for i, value := range state.Registers[:sid.RegisterCount] {
		if !c.first && value == c.last[i] {
			continue
		}
		c.buf = append(c.buf, byte(i), value)
		c.last[i] = value
	}
	c.buf[2] = byte((len(c.buf) - 3) / 2)
	c.first = false

	if _, err := c.out.Write(c.buf); err != nil {
		return fmt.Errorf("writing register changes: %w", err)
	}
	return nil
}

// After flushes and closes the output file.
func (c *Changes) After() error {
	if c.out == nil {
		return dump.ErrNotOpen
	}
	err := c.out.Close()
	c.out = nil
	return err
}
