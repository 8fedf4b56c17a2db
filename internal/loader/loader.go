// Package loader handles SID file loading operations.
package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/siddump/internal/options"
	"github.com/retroenv/siddump/internal/sid"
)

const (
	headerSize = 0x76
	nameSize   = 0x20
)

var (
	// ErrInvalidHeader is returned for files that do not start with a valid PSID or RSID header.
	ErrInvalidHeader = errors.New("invalid SID header")
	// ErrDataTooLarge is returned when the C64 data continues past the end of memory.
	ErrDataTooLarge = errors.New("SID data continues past end of C64 memory")
)

// Header contains the fields of a PSID or RSID file header.
type Header struct {
	Magic       string
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        string
	Author      string
	Released    string
}

// Tune is a loaded SID file.
type Tune struct {
	Header

	Data []byte // C64 data without the embedded load address
}

// Loader handles loading SID files from disk.
type Loader struct{}

// New creates a new SID file loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and parses the SID file given as input in the options.
func (l *Loader) Load(opts options.Program) (*Tune, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	tune, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading SID file %s: %w", opts.Input, err)
	}
	return tune, nil
}

// LoadFromBytes parses a SID file from a byte slice. A load address of 0 in the header means that
// the load address is stored as the first 2 bytes of the data in little endian order.
func (l *Loader) LoadFromBytes(data []byte) (*Tune, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file size %d is too small", ErrInvalidHeader, len(data))
	}

	header := Header{
		Magic: string(data[:4]),
	}
	if header.Magic != "PSID" && header.Magic != "RSID" {
		return nil, fmt.Errorf("%w: unsupported magic %q", ErrInvalidHeader, header.Magic)
	}

	header.Version = binary.BigEndian.Uint16(data[0x04:])
	header.DataOffset = binary.BigEndian.Uint16(data[0x06:])
	header.LoadAddress = binary.BigEndian.Uint16(data[0x08:])
	header.InitAddress = binary.BigEndian.Uint16(data[0x0a:])
	header.PlayAddress = binary.BigEndian.Uint16(data[0x0c:])
	header.Songs = binary.BigEndian.Uint16(data[0x0e:])
	header.StartSong = binary.BigEndian.Uint16(data[0x10:])
	header.Speed = binary.BigEndian.Uint32(data[0x12:])
	header.Name = paddedString(data[0x16:])
	header.Author = paddedString(data[0x36:])
	header.Released = paddedString(data[0x56:])

	start := int(header.DataOffset)
	if start > len(data) {
		return nil, fmt.Errorf("%w: data offset $%04X is beyond file end", ErrInvalidHeader, header.DataOffset)
	}

	if header.LoadAddress == 0 {
		if start+2 > len(data) {
			return nil, fmt.Errorf("%w: missing embedded load address", ErrInvalidHeader)
		}
		header.LoadAddress = binary.LittleEndian.Uint16(data[start:])
		start += 2
	}

	size := len(data) - start
	if int(header.LoadAddress)+size >= sid.MemorySize {
		return nil, fmt.Errorf("%w: $%04X bytes at $%04X", ErrDataTooLarge, size, header.LoadAddress)
	}

	return &Tune{
		Header: header,
		Data:   bytes.Clone(data[start:]),
	}, nil
}

// Memory returns a C64 memory image with the tune data placed at its load address.
func (t *Tune) Memory() []byte {
	mem := make([]byte, sid.MemorySize)
	copy(mem[t.LoadAddress:], t.Data)
	return mem
}

// paddedString returns the zero padded string field at the start of the buffer.
func paddedString(b []byte) string {
	b = b[:nameSize]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
