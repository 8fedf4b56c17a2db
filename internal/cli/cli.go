// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/retroenv/siddump/internal/dump/factory"
	"github.com/retroenv/siddump/internal/note"
	"github.com/retroenv/siddump/internal/options"
)

// ParseFlags parses command line flags and returns program and output options
func ParseFlags() (options.Program, options.Output, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Program
	outOpts := options.NewOutput()
	var baseFreq, baseNote string
	readOptionFlags(flags, &opts)
	readOutputFlags(flags, &outOpts, &baseFreq, &baseNote)

	err := flags.Parse(normalizeArgs(flags, os.Args[1:]))
	if err != nil {
		msg := ""
		if !errors.Is(err, flag.ErrHelp) {
			msg = err.Error()
		}
		return opts, outOpts, &UsageError{flags: flags, msg: msg}
	}

	args := flags.Args()
	if len(args) == 0 && opts.Batch == "" {
		return opts, outOpts, &UsageError{flags: flags}
	}
	if opts.Batch == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts, &outOpts, baseFreq, baseNote); err != nil {
		return opts, outOpts, err
	}

	outOpts.Source = opts.Input
	outOpts.Output = opts.Output
	return opts, outOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: siddump [options] <sidfile>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}

	fmt.Printf("\noutput modes:\n")
	for _, mode := range factory.Modes {
		fmt.Printf("  %d = %s\n", mode.Mode, mode.Description)
	}
	fmt.Println()
}

// normalizeArgs converts the argument forms of the classic command line to the forms the flag
// package understands. Values attached to single letter flags like -m2 are separated, flag
// letters are matched case insensitively, -? requests the usage and the file name may precede
// the flags.
func normalizeArgs(flags *flag.FlagSet, args []string) []string {
	var flagArgs, files []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			files = append(files, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			files = append(files, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if name == "?" {
			flagArgs = append(flagArgs, "-h")
			continue
		}
		name, value, hasValue := strings.Cut(name, "=")
		if name == "" {
			flagArgs = append(flagArgs, arg)
			continue
		}

		if flags.Lookup(name) == nil {
			letter := string(unicode.ToLower(rune(name[0])))
			if flags.Lookup(letter) != nil {
				if rest := name[1:]; rest != "" {
					value, hasValue = rest, true
				}
				name = letter
			}
		}

		if hasValue {
			flagArgs = append(flagArgs, "-"+name+"="+value)
			continue
		}

		flagArgs = append(flagArgs, "-"+name)
		if !isBoolFlag(flags, name) && i+1 < len(args) {
			i++
			flagArgs = append(flagArgs, args[i])
		}
	}

	return append(flagArgs, files...)
}

func isBoolFlag(flags *flag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	if f == nil {
		return true
	}
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program, outOpts *options.Output, baseFreq, baseNote string) error {
	if opts.Mode < 0 || opts.Mode >= len(factory.Modes) {
		return fmt.Errorf("%w: %d", factory.ErrUnknownMode, opts.Mode)
	}

	if outOpts.Stickiness < 1 {
		outOpts.Stickiness = 1
	}

	if baseFreq != "" {
		freq, err := parseHex(baseFreq, 16)
		if err != nil {
			return fmt.Errorf("invalid calibration frequency '%s': %w", baseFreq, err)
		}
		outOpts.BaseFreq = freq
	}

	value, err := parseHex(baseNote, 8)
	if err != nil {
		return fmt.Errorf("invalid calibration note '%s': %w", baseNote, err)
	}
	outOpts.BaseNote = value

	return nil
}

// parseHex parses a hexadecimal number that can be prefixed by $ or 0x.
func parseHex(s string, bits int) (int, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	i, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("parsing hex value: %w", err)
	}
	return int(i), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.IntVar(&opts.Subtune, "a", 0, "accumulator value on init (subtune number)")
	flags.IntVar(&opts.Mode, "m", 0, "output mode, see list of output modes")
	flags.StringVar(&opts.Output, "out", "", "name of the output file, derived from the SID file name for file modes")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask with automatic output file naming, for example *.sid")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readOutputFlags(flags *flag.FlagSet, opts *options.Output, baseFreq, baseNote *string) {
	flags.StringVar(baseFreq, "c", "", "frequency recalibration, note frequency in hex")
	flags.StringVar(baseNote, "d", fmt.Sprintf("%x", note.DefaultBaseNote), "calibration note in hex (abs. notation 80-DF), default middle-C")
	flags.IntVar(&opts.FirstFrame, "f", 0, "first frame to display")
	flags.BoolVar(&opts.LowRes, "l", false, "low-resolution mode (only display 1 row per note)")
	flags.IntVar(&opts.Spacing, "n", 0, "note spacing, 0 for none")
	flags.IntVar(&opts.Stickiness, "o", 1, "oldnote-sticky factor, increase for better vibrato display (requires well calibrated frequencies)")
	flags.IntVar(&opts.PatternSpacing, "p", 0, "pattern spacing, 0 for none")
	flags.BoolVar(&opts.TimeSeconds, "s", false, "display time in minutes:seconds.frame format")
	flags.IntVar(&opts.Seconds, "t", options.DefaultSeconds, "playback time in seconds")
	flags.BoolVar(&opts.Profiling, "z", false, "include CPU cycles and raster time (PAL), badline corrected")
}
