// Package dump defines the output formats that SID register frames can be rendered to.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

// Output modes as selected on the command line.
const (
	ModeNotes           = 0 // screen table with note information
	ModeRegisters       = 1 // screen table of the SID registers and delta time
	ModeBinary          = 2 // binary file, all SID registers per frame
	ModeInclude         = 3 // C include file, all SID registers per frame
	ModeBinaryTiming    = 4 // binary file, all SID registers and timing bytes per frame
	ModeRegistersTiming = 5 // same table as ModeRegisters
	ModeBinaryChanges   = 6 // binary file, changed SID registers and timing bytes per frame
)

// FramesPerSecond is the PAL frame rate the time column is based on.
const FramesPerSecond = 50

// ErrNotOpen is returned when a frame is processed without an opened output.
var ErrNotOpen = errors.New("output is not open")

// Formatter renders the frames of a run. Before acquires the output resource, PerFrame is called
// for every displayable frame and After releases the resource. PerFrame and After must only be
// called after Before succeeded.
type Formatter interface {
	Configure(opts options.Output) error
	Before() error
	PerFrame(state *sid.State) error
	After() error
}

// Screen is implemented by formatters that render a table meant to be read on a terminal.
type Screen interface {
	// Width returns the number of characters of a table row.
	Width() int
}

// Output is a buffered output resource of a formatter.
type Output struct {
	name   string
	closer io.Closer
	*bufio.Writer
}

// Open creates the named output resource using the writer constructor of the options.
func Open(opts options.Output, name string) (*Output, error) {
	if opts.Create == nil {
		return nil, errors.New("missing output writer constructor")
	}

	wc, err := opts.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating output '%s': %w", name, err)
	}

	return &Output{
		name:   name,
		closer: wc,
		Writer: bufio.NewWriter(wc),
	}, nil
}

// Name returns the name of the output, empty for the console.
func (o *Output) Name() string {
	return o.name
}

// Close flushes the buffered data and closes the resource.
func (o *Output) Close() error {
	flushErr := o.Flush()
	if err := o.closer.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("flushing output: %w", flushErr)
	}
	return nil
}

// FileName returns the explicit output name of the options or the source name with the given
// extension appended.
func FileName(opts options.Output, extension string) string {
	if opts.Output != "" {
		return opts.Output
	}
	return opts.Source + extension
}

// TimeColumn renders the time column of a screen table, either as frame count or as
// minutes:seconds.frames.
func TimeColumn(time int, seconds bool) string {
	if !seconds {
		return fmt.Sprintf("| %5d | ", time)
	}
	return fmt.Sprintf("|%01d:%02d.%02d| ", time/(60*FramesPerSecond),
		(time/FramesPerSecond)%60, time%FramesPerSecond)
}
