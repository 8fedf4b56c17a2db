// Package binary implements the raw binary register dump formats.
package binary

import (
	"fmt"

	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

// Extension is appended to the source file name to build the output file name.
const Extension = ".dmp"

// Registers writes a fixed size record of raw register bytes per frame, without any header or
// framing.
type Registers struct {
	opts  options.Output
	count int
	out   *dump.Output
}

// New returns a formatter writing the 25 SID registers per frame.
func New() dump.Formatter {
	return &Registers{count: sid.RegisterCount}
}

// NewWithTiming returns a formatter writing the 25 SID registers and the 2 delta time bytes
// per frame.
func NewWithTiming() dump.Formatter {
	return &Registers{count: sid.RegisterCountWithTiming}
}

// Configure sets the options of the formatter.
func (r *Registers) Configure(opts options.Output) error {
	r.opts = opts
	return nil
}

// Before creates the output file, truncating an existing one.
func (r *Registers) Before() error {
	out, err := dump.Open(r.opts, dump.FileName(r.opts, Extension))
	if err != nil {
		return err
	}
	r.out = out
	return nil
}

// PerFrame writes the register record of the frame.
func (r *Registers) PerFrame(state *sid.State) error {
	if r.out == nil {
		return dump.ErrNotOpen
	}
	if _, err := r.out.Write(state.Registers[:r.count]); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	return nil
}

// After flushes and closes the output file.
func (r *Registers) After() error {
	if r.out == nil {
		return dump.ErrNotOpen
	}
	err := r.out.Close()
	r.out = nil
	return err
}
