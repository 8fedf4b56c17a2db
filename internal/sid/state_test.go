package sid

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func testMemory() []byte {
	mem := make([]byte, MemorySize)
	regs := []byte{
		0x17, 0x01, 0x08, 0x48, 0x41, 0x09, 0xa9, // voice 1
		0x00, 0x10, 0xff, 0x0f, 0x11, 0x00, 0xf0, // voice 2
		0x34, 0x12, 0x00, 0x00, 0x20, 0x12, 0x34, // voice 3
		0x05, 0xab, 0xf1, 0x1f, // filter
	}
	copy(mem[BaseAddress:], regs)
	return mem
}

func TestUpdate(t *testing.T) {
	s := New(1000000, 0)
	mem := testMemory()
	s.Update(mem)

	assert.Equal(t, uint16(0x0117), s.Voices[0].Freq)
	assert.Equal(t, uint16(0x0808), s.Voices[0].Pulse)
	assert.Equal(t, byte(0x41), s.Voices[0].Wave)
	assert.Equal(t, uint16(0x09a9), s.Voices[0].ADSR)
	assert.True(t, s.Voices[0].Gate())
	assert.True(t, s.Voices[0].HasWaveform())

	assert.Equal(t, uint16(0x1000), s.Voices[1].Freq)
	assert.Equal(t, uint16(0x0fff), s.Voices[1].Pulse)
	assert.Equal(t, uint16(0x00f0), s.Voices[1].ADSR)

	assert.Equal(t, uint16(0x1234), s.Voices[2].Freq)
	assert.False(t, s.Voices[2].Gate())

	assert.Equal(t, uint16(0x05|0xab<<3), s.Filter.Cutoff)
	assert.Equal(t, byte(0xf1), s.Filter.Control)
	assert.Equal(t, byte(0x01), s.Filter.Passband())
	assert.Equal(t, byte(0x0f), s.Filter.Volume())

	for i := range RegisterCount {
		assert.Equal(t, mem[BaseAddress+i], s.Registers[i])
	}
	for i := range s.Voices {
		assert.Equal(t, Unassigned, s.Voices[i].Note)
	}
}

func TestUpdateDeltaTime(t *testing.T) {
	s := New(1000000, 0)
	mem := testMemory()

	s.Update(mem)
	assert.Equal(t, uint16(DefaultFrameTime), s.DeltaTime())
	assert.Equal(t, byte(0x4e), s.Registers[RegisterCount])
	assert.Equal(t, byte(0x20), s.Registers[RegisterCount+1])

	mem[timerLow] = 0x25
	mem[timerHigh] = 0x40
	s.Update(mem)
	assert.Equal(t, uint16(0x4025), s.DeltaTime())
}

func TestUpdateIsDeterministic(t *testing.T) {
	mem := testMemory()
	a := New(1000000, 0)
	b := New(1000000, 0)

	for range 3 {
		a.Update(mem)
		a.Tick()
		b.Update(mem)
		b.Tick()
	}
	assert.Equal(t, *a, *b)
}

func TestTick(t *testing.T) {
	tests := []struct {
		name       string
		duration   uint64
		firstFrame int
		frames     int
	}{
		{name: "one second", duration: 1000000, frames: 50},
		{name: "partial frame rounds up", duration: 1000001, frames: 51},
		{name: "first frame extends run", duration: 1000000, firstFrame: 10, frames: 60},
		{name: "zero duration", duration: 0, frames: 1},
	}

	mem := testMemory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.duration, tt.firstFrame)
			frames := 0
			for s.Playing() {
				s.Update(mem)
				s.Tick()
				frames++
			}
			assert.Equal(t, tt.frames, frames)
			assert.Equal(t, tt.frames, s.Frame)
			assert.Equal(t, uint64(tt.frames)*DefaultFrameTime, s.Elapsed)
		})
	}
}

func TestReset(t *testing.T) {
	s := New(1000000, 5)
	s.Update(testMemory())
	s.Voices[1].Note = 12
	s.Tick()

	s.Reset(2000000, 0)
	assert.True(t, s.Playing())
	assert.Equal(t, 0, s.Frame)
	assert.Equal(t, uint64(0), s.Elapsed)
	assert.Equal(t, 0, s.FirstFrame())
	assert.Equal(t, Unassigned, s.Voices[1].Note)
	assert.Equal(t, uint16(0), s.Voices[0].Freq)
	assert.Equal(t, byte(0), s.Registers[0])
}
