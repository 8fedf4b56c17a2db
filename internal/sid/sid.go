// Package sid models the register state of the SID sound chip as seen once per frame.
package sid

const (
	// BaseAddress is the address the SID registers are mapped to in the C64 memory.
	BaseAddress = 0xd400

	// RegisterCount is the number of chip registers captured per frame.
	RegisterCount = 25
	// RegisterCountWithTiming adds the delta time high and low bytes.
	RegisterCountWithTiming = RegisterCount + 2

	// Voices is the number of tone generators of the chip.
	Voices = 3

	voiceRegisters = 7

	timerLow  = 0xdc04 // CIA 1 timer A latch
	timerHigh = 0xdc05

	// DefaultFrameTime is assumed when the CIA timer is not programmed, which usually means the
	// player is driven by the vertical blank of a PAL machine (50Hz). This is a heuristic, not a
	// confirmed hardware fact.
	DefaultFrameTime = 20000

	// MemorySize is the size of the memory image the state is decoded from.
	MemorySize = 0x10000
)

// Unassigned marks a voice that has no inferred note.
const Unassigned = -1

// Voice is the decoded state of one tone generator.
type Voice struct {
	Freq  uint16
	Pulse uint16 // 12 bit pulse width
	ADSR  uint16 // attack/decay in the high byte, sustain/release in the low byte
	Wave  byte   // waveform bits and gate bit
	Note  int    // inferred note index or Unassigned
}

// Gate returns whether the gate bit of the voice is set.
func (v Voice) Gate() bool {
	return v.Wave&0x01 != 0
}

// HasWaveform returns whether any waveform generator of the voice is selected.
func (v Voice) HasWaveform() bool {
	return v.Wave >= 0x10
}

// Filter is the decoded state of the filter and volume registers.
type Filter struct {
	Cutoff  uint16 // 11 bit cutoff frequency
	Control byte   // resonance and voice routing
	Type    byte   // passband bits in the high nibble, master volume in the low nibble
}

// Passband returns the 3 passband bits of the filter mode register.
func (f Filter) Passband() byte {
	return (f.Type >> 4) & 0x07
}

// Volume returns the master volume nibble.
func (f Filter) Volume() byte {
	return f.Type & 0x0f
}
