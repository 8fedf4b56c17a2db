// Package options contains the program options.
package options

import (
	"io"
)

// DefaultSeconds is the default playback time.
const DefaultSeconds = 60

// NewWriter is a callback that creates the output resource of a formatter.
// An empty name selects the console.
type NewWriter func(name string) (io.WriteCloser, error)

// Program options of the dumper that do not influence the output format.
type Program struct {
	Input  string // SID file to dump
	Output string // output file name, derived from the input name or console if empty
	Batch  string // file mask of SID files to dump in one run

	Mode    int // output format
	Subtune int // accumulator value when calling the init routine

	Debug bool
	Quiet bool
}

// Output defines options to control the formatters.
type Output struct {
	Seconds        int // playback time
	FirstFrame     int // first frame to display
	Spacing        int // rows between note separators
	PatternSpacing int // note separators between pattern separators

	BaseFreq   int // calibration frequency, 0 keeps the built-in table
	BaseNote   int // calibration note in absolute notation
	Stickiness int // divisor favoring the held note, at least 1

	LowRes      bool // only display rows on note spacing boundaries
	Profiling   bool // display CPU cycles and raster lines
	TimeSeconds bool // display time as minutes:seconds.frames

	Source string // name of the dumped file, base of derived output names
	Output string // explicit output file name

	Create NewWriter // creates the output resource
}

// NewOutput returns a new options instance with default options.
func NewOutput() Output {
	return Output{
		Seconds:    DefaultSeconds,
		BaseNote:   0xb0,
		Stickiness: 1,
	}
}

// Duration returns the playback time in microseconds.
func (o Output) Duration() uint64 {
	if o.Seconds <= 0 {
		return 0
	}
	return uint64(o.Seconds) * 1000000
}
