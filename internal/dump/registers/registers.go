// Package registers implements the screen table showing the changed SID registers and the
// delta time per frame.
package registers

import (
	"fmt"
	"strings"

	"github.com/retroenv/siddump/internal/diff"
	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

const (
	header    = "| Frame | 00 01 02 03 04 05 06 | 07 08 09 10 11 12 13 | 14 15 16 17 18 19 20 | 21 22 23 24 | dt_us |"
	separator = "+-------+----------------------+----------------------+----------------------+-------------+-------+"
)

// Table renders one row per frame with a cell per SID register, unchanged registers are shown
// as placeholders. The last column holds the delta time of the frame.
type Table struct {
	opts options.Output
	out  *dump.Output

	renderer diff.Renderer
	last     [sid.RegisterCount]byte
	row      strings.Builder
}

// New returns a register table formatter.
func New() dump.Formatter {
	return &Table{}
}

// Configure sets the options of the formatter.
func (t *Table) Configure(opts options.Output) error {
	t.opts = opts
	return nil
}

// Width returns the number of characters of a table row.
func (t *Table) Width() int {
	return len(header)
}

// Before opens the output and prints the table header.
func (t *Table) Before() error {
	out, err := dump.Open(t.opts, t.opts.Output)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "%s\n%s\n", header, separator); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing table header: %w", err)
	}

	t.out = out
	t.renderer.Reset()
	return nil
}

// PerFrame prints the row of the frame.
func (t *Table) PerFrame(state *sid.State) error {
	if t.out == nil {
		return dump.ErrNotOpen
	}

	t.row.Reset()
	t.row.WriteString(dump.TimeColumn(state.Frame-state.FirstFrame(), t.opts.TimeSeconds))

	for i, value := range state.Registers[:sid.RegisterCount] {
		t.row.WriteString(diff.Hex(&t.renderer, value, t.last[i], 2, false))
		t.row.WriteByte(' ')
		if i == 6 || i == 13 || i == 20 {
			t.row.WriteString("| ")
		}
	}
	fmt.Fprintf(&t.row, "|  %04X |\n", state.DeltaTime())

	if _, err := t.out.WriteString(t.row.String()); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}

	copy(t.last[:], state.Registers[:sid.RegisterCount])
	t.renderer.Commit()
	return nil
}

// After flushes the output.
func (t *Table) After() error {
	if t.out == nil {
		return dump.ErrNotOpen
	}
	err := t.out.Close()
	t.out = nil
	return err
}
