// Package factory creates the formatter of an output mode.
package factory

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/siddump/internal/dump"
	"github.com/retroenv/siddump/internal/dump/binary"
	"github.com/retroenv/siddump/internal/dump/include"
	"github.com/retroenv/siddump/internal/dump/notes"
	"github.com/retroenv/siddump/internal/dump/registers"
)

// ErrUnknownMode is returned for output modes that have no formatter.
var ErrUnknownMode = errors.New("unsupported output mode")

// Modes lists the supported output modes with their description.
var Modes = []struct {
	Mode        int
	Description string
}{
	{dump.ModeNotes, "output to screen, with note information"},
	{dump.ModeRegisters, "output to screen, sid registers and delta time"},
	{dump.ModeBinary, "output to binary file, all sid registers per frame"},
	{dump.ModeInclude, "output to c friendly include file, all sid registers per frame"},
	{dump.ModeBinaryTiming, "output to binary file, all sid registers + timing HI/LO bytes per frame"},
	{dump.ModeRegistersTiming, "output to screen, same as mode 1"},
	{dump.ModeBinaryChanges, "output to binary file, only output changed sid registers inc. timing HI/LO bytes"},
}

// New returns a new formatter for the given output mode.
func New(logger *log.Logger, mode int) (dump.Formatter, error) {
	switch mode {
	case dump.ModeNotes:
		return notes.New(logger), nil
	case dump.ModeRegisters, dump.ModeRegistersTiming:
		return registers.New(), nil
	case dump.ModeBinary:
		return binary.New(), nil
	case dump.ModeInclude:
		return include.New(), nil
	case dump.ModeBinaryTiming:
		return binary.NewWithTiming(), nil
	case dump.ModeBinaryChanges:
		return binary.NewChanges(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
}

// Console returns whether the output mode writes a screen table.
func Console(mode int) bool {
	switch mode {
	case dump.ModeNotes, dump.ModeRegisters, dump.ModeRegistersTiming:
		return true
	default:
		return false
	}
}
