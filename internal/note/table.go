// Package note implements the note frequency table and the inference of played notes from the
// raw voice frequencies.
package note

import (
	"errors"
	"fmt"
	"math"
)

// Count is the number of notes in a frequency table, 8 octaves of 12 semitones.
const Count = 96

// MiddleC is the index of C-4 in the frequency table.
const MiddleC = 48

// DefaultBaseNote is the calibration note in absolute notation, middle C with the high bit set.
const DefaultBaseNote = 0xb0

var errBaseNoteRange = errors.New("calibration note out of range")

// Table maps note indexes to 16 bit SID frequency values.
type Table [Count]uint16

var reference = Table{
	0x0117, 0x0127, 0x0139, 0x014b, 0x015f, 0x0174, 0x018a, 0x01a1, 0x01ba, 0x01d4, 0x01f0, 0x020e,
	0x022d, 0x024e, 0x0271, 0x0296, 0x02be, 0x02e8, 0x0314, 0x0343, 0x0374, 0x03a9, 0x03e1, 0x041c,
	0x045a, 0x049c, 0x04e2, 0x052d, 0x057c, 0x05cf, 0x0628, 0x0685, 0x06e8, 0x0752, 0x07c1, 0x0837,
	0x08b4, 0x0939, 0x09c5, 0x0a5a, 0x0af7, 0x0b9e, 0x0c4f, 0x0d0a, 0x0dd1, 0x0ea3, 0x0f82, 0x106e,
	0x1168, 0x1271, 0x138a, 0x14b3, 0x15ee, 0x173c, 0x189e, 0x1a15, 0x1ba2, 0x1d46, 0x1f04, 0x20dc,
	0x22d0, 0x24e2, 0x2714, 0x2967, 0x2bdd, 0x2e79, 0x313c, 0x3429, 0x3744, 0x3a8d, 0x3e08, 0x41b8,
	0x45a1, 0x49c5, 0x4e28, 0x52cd, 0x57ba, 0x5cf1, 0x6278, 0x6853, 0x6e87, 0x751a, 0x7c10, 0x8371,
	0x8b42, 0x9389, 0x9c4f, 0xa59b, 0xaf74, 0xb9e2, 0xc4f0, 0xd0a6, 0xdd0e, 0xea33, 0xf820, 0xffff,
}

// Reference returns the built-in PAL frequency table.
func Reference() Table {
	return reference
}

// Calibrate returns a table where the given base note plays the given base frequency and all
// other notes follow in equal temperament. The base note is given in absolute notation, only
// its low 7 bits are used.
func Calibrate(baseFreq uint16, baseNote int) (Table, error) {
	baseNote &= 0x7f
	if baseNote > Count {
		return reference, fmt.Errorf("%w: $%02X", errBaseNoteRange, baseNote)
	}

	var t Table
	for i := range t {
		freq := float64(baseFreq) * math.Pow(2.0, float64(i-baseNote)/12.0)
		if freq > 0xffff {
			freq = 0xffff
		}
		t[i] = uint16(freq)
	}
	return t, nil
}

// Nearest returns the index of the table entry closest to the given frequency. The distance of
// the held note is divided by the stickiness factor before it is compared, which keeps a note
// under vibrato or small slides. Among equal distances the held note wins, otherwise the lowest
// index.
func (t *Table) Nearest(freq uint16, held, stickiness int) int {
	if stickiness < 1 {
		stickiness = 1
	}

	best := 0
	bestDist := math.MaxInt
	for i, cmp := range t {
		dist := int(freq) - int(cmp)
		if dist < 0 {
			dist = -dist
		}
		if i == held {
			dist /= stickiness
		}
		if dist < bestDist || (dist == bestDist && i == held) {
			bestDist = dist
			best = i
		}
	}
	return best
}

// Name returns the tracker style name of a note index, for example C#4.
func Name(index int) string {
	return names[index%12] + string(rune('0'+index/12))
}

var names = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}
