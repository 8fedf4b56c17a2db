// Package notes implements the screen table that shows the inferred notes next to the voice and
// filter registers.
package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/siddump/internal/diff"
	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/note"
	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

const (
	header          = "| Frame | Freq Note/Abs WF ADSR Pul | Freq Note/Abs WF ADSR Pul | Freq Note/Abs WF ADSR Pul | FCut RC Typ V |"
	separator       = "+-------+---------------------------+---------------------------+---------------------------+---------------+"
	patternLine     = "+=======+===========================+===========================+===========================+===============+"
	profilingHeader = " Cycl RL RB |"
	profilingLine   = "------------+"
)

var passbandNames = [8]string{"Off", "Low", "Bnd", "L+B", "Hi ", "L+H", "B+H", "LBH"}

// Table renders one row per frame with note, waveform, envelope and pulse per voice, followed
// by the filter registers.
type Table struct {
	logger *log.Logger
	opts   options.Output
	out    *dump.Output

	tracker  *note.Tracker
	renderer diff.Renderer
	last     sid.State // last rendered frame

	spacingCounter int // frames since the last separator
	patternRows    int // note separators since the last pattern separator
	row            strings.Builder
}

// New returns a notes table formatter.
func New(logger *log.Logger) dump.Formatter {
	return &Table{
		logger: logger,
	}
}

// Configure sets the options and builds the frequency table, calibrated if a base frequency
// is given.
func (t *Table) Configure(opts options.Output) error {
	if opts.LowRes && opts.Spacing == 0 {
		opts.LowRes = false
	}
	t.opts = opts

	table := note.Reference()
	if opts.BaseFreq != 0 {
		calibrated, err := note.Calibrate(uint16(opts.BaseFreq), opts.BaseNote)
		if err != nil {
			t.logger.Warn("Aborting recalibration", log.Err(err))
		} else {
			table = calibrated
			t.logger.Debug("Recalibrated frequency table",
				log.Hex("frequency", uint16(opts.BaseFreq)),
				log.Hex("note", opts.BaseNote&0x7f))
		}
	}

	t.tracker = note.NewTracker(table, opts.Stickiness)
	return nil
}

// Width returns the number of characters of a table row.
func (t *Table) Width() int {
	if t.opts.Profiling {
		return len(header) + len(profilingHeader)
	}
	return len(header)
}

// Before opens the output and prints the table header.
func (t *Table) Before() error {
	if t.tracker == nil {
		return errors.New("formatter is not configured")
	}

	out, err := dump.Open(t.opts, t.opts.Output)
	if err != nil {
		return err
	}

	table := t.tracker.Table()
	head, line := header, separator
	if t.opts.Profiling {
		// CPU cycles, raster lines, raster lines with badlines on every 8th line
		head += profilingHeader
		line += profilingLine
	}
	if _, err := fmt.Fprintf(out, "Middle C frequency is $%04X\n\n%s\n%s\n", table[note.MiddleC], head, line); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing table header: %w", err)
	}

	t.out = out
	t.tracker.Reset()
	t.renderer.Reset()
	t.spacingCounter = 0
	t.patternRows = 0
	return nil
}

// PerFrame prints the row of the frame unless it is skipped in low resolution mode, followed
// by any due separator line.
func (t *Table) PerFrame(state *sid.State) error {
	if t.out == nil {
		return dump.ErrNotOpen
	}

	time := state.Frame - state.FirstFrame()
	t.row.Reset()
	t.row.WriteString(dump.TimeColumn(time, t.opts.TimeSeconds))

	events := t.tracker.Infer(state)
	for i := range state.Voices {
		t.writeVoice(&state.Voices[i], &t.last.Voices[i], events[i])
	}
	t.writeFilter(state.Filter, t.last.Filter)
	if t.opts.Profiling {
		t.writeProfiling(state.Cycles)
	}
	t.row.WriteString("|\n")

	rendered := !t.opts.LowRes || time%t.opts.Spacing == 0
	if rendered {
		if _, err := t.out.WriteString(t.row.String()); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
		t.last.Voices = state.Voices
		t.last.Filter = state.Filter
		t.renderer.Commit()
	}
	t.tracker.Advance(state, rendered)

	return t.writeSeparator()
}

func (t *Table) writeVoice(cur, last *sid.Voice, ev note.Event) {
	t.row.WriteString(ev.String())

	// a new note in low resolution mode shows its complete instrument
	force := t.opts.LowRes && ev.Kind == note.NewNote
	t.row.WriteString(diff.Hex(&t.renderer, cur.Wave, last.Wave, 2, force))
	t.row.WriteByte(' ')
	t.row.WriteString(diff.Hex(&t.renderer, cur.ADSR, last.ADSR, 4, force))
	t.row.WriteByte(' ')
	t.row.WriteString(diff.Hex(&t.renderer, cur.Pulse, last.Pulse, 3, force))
	t.row.WriteString(" | ")
}

func (t *Table) writeFilter(cur, last sid.Filter) {
	t.row.WriteString(diff.Hex(&t.renderer, cur.Cutoff, last.Cutoff, 4, false))
	t.row.WriteByte(' ')
	t.row.WriteString(diff.Hex(&t.renderer, cur.Control, last.Control, 2, false))
	t.row.WriteByte(' ')
	t.row.WriteString(diff.Text(&t.renderer, cur.Passband(), last.Passband(), passbandNames[cur.Passband()], false))
	t.row.WriteByte(' ')
	t.row.WriteString(diff.Hex(&t.renderer, cur.Volume(), last.Volume(), 1, false))
	t.row.WriteByte(' ')
}

func (t *Table) writeProfiling(cycles uint64) {
	fmt.Fprintf(&t.row, "| %4d %02X %02X ", cycles, RasterLines(cycles), BadlineRasterLines(cycles))
}

func (t *Table) writeSeparator() error {
	if t.opts.Spacing == 0 {
		return nil
	}

	t.spacingCounter++
	if t.spacingCounter < t.opts.Spacing {
		return nil
	}
	t.spacingCounter = 0

	line := separator
	if t.opts.PatternSpacing != 0 {
		t.patternRows++
		if t.patternRows >= t.opts.PatternSpacing {
			t.patternRows = 0
			line = patternLine
		}
	}
	if line == separator && t.opts.LowRes {
		return nil
	}

	if _, err := fmt.Fprintln(t.out, line); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
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

// RasterLines returns the number of PAL raster lines the given CPU cycles span, rounded up.
func RasterLines(cycles uint64) uint64 {
	return (cycles + 62) / 63
}

// BadlineRasterLines returns the raster lines of the given CPU cycles when every 8th line is a
// badline that stalls the CPU for 40 cycles, the first line included.
func BadlineRasterLines(cycles uint64) uint64 {
	badlines := (cycles + 503) / 504
	return (badlines*40 + cycles + 62) / 63
}
