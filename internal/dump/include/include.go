// Package include implements the C include file register dump format.
package include

import (
	"fmt"

	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

// Extension is appended to the source file name to build the output file name.
const Extension = ".h"

// ArrayName is the name of the declared byte array.
const ArrayName = "sound_data"

// Array writes all frames as a single C byte array declaration, one line of 25 register
// bytes per frame.
type Array struct {
	opts options.Output
	out  *dump.Output
}

// New returns a new include file formatter.
func New() dump.Formatter {
	return &Array{}
}

// Configure sets the options of the formatter.
func (a *Array) Configure(opts options.Output) error {
	a.opts = opts
	return nil
}

// Before creates the output file and opens the array declaration.
func (a *Array) Before() error {
	out, err := dump.Open(a.opts, dump.FileName(a.opts, Extension))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "unsigned char %s[] = {\n", ArrayName); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing array header: %w", err)
	}
	a.out = out
	return nil
}

// PerFrame writes the registers of the frame as one line of hex literals.
func (a *Array) PerFrame(state *sid.State) error {
	if a.out == nil {
		return dump.ErrNotOpen
	}

	for _, value := range state.Registers[:sid.RegisterCount] {
		if _, err := fmt.Fprintf(a.out, "  0x%02x,", value); err != nil {
			return fmt.Errorf("writing register: %w", err)
		}
	}
	if _, err := fmt.Fprintln(a.out); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// After closes the array declaration and the output file.
func (a *Array) After() error {
	if a.out == nil {
		return dump.ErrNotOpen
	}
	defer func() { a.out = nil }()

	if _, err := fmt.Fprintln(a.out, "};"); err != nil {
		_ = a.out.Close()
		return fmt.Errorf("writing array trailer: %w", err)
	}
	return a.out.Close()
}
