package sid

// State is the register snapshot of one frame together with the simulated playback time.
// The run duration only counts frames from the first displayable frame on, so skipped frames
// do not shorten the dump.
type State struct {
	Registers [RegisterCountWithTiming]byte
	Voices    [Voices]Voice
	Filter    Filter

	Frame   int    // index of the current frame
	Elapsed uint64 // simulated microseconds since the start of playback
	Cycles  uint64 // CPU cycles spent in the play routine of the current frame

	playing    bool
	duration   uint64 // microseconds to play, counted from firstFrame
	firstFrame int
	played     uint64
}

// New returns a reset state that plays for the given amount of microseconds once the first
// displayable frame has been reached.
func New(duration uint64, firstFrame int) *State {
	s := &State{}
	s.Reset(duration, firstFrame)
	return s
}

// Reset zeroes all registers and timing fields and starts a new run.
func (s *State) Reset(duration uint64, firstFrame int) {
	*s = State{
		playing:    true,
		duration:   duration,
		firstFrame: firstFrame,
	}
	for i := range s.Voices {
		s.Voices[i].Note = Unassigned
	}
}

// Update decodes the registers of the given memory image. Inferred notes are kept.
func (s *State) Update(mem []byte) {
	for i := range s.Voices {
		base := BaseAddress + voiceRegisters*i
		v := &s.Voices[i]
		v.Freq = uint16(mem[base]) | uint16(mem[base+1])<<8
		v.Pulse = (uint16(mem[base+2]) | uint16(mem[base+3])<<8) & 0x0fff
		v.Wave = mem[base+4]
		v.ADSR = uint16(mem[base+5])<<8 | uint16(mem[base+6])
	}

	s.Filter.Cutoff = uint16(mem[BaseAddress+0x15]&0x07) | uint16(mem[BaseAddress+0x16])<<3
	s.Filter.Control = mem[BaseAddress+0x17]
	s.Filter.Type = mem[BaseAddress+0x18]

	copy(s.Registers[:RegisterCount], mem[BaseAddress:BaseAddress+RegisterCount])

	hi, lo := mem[timerHigh], mem[timerLow]
	if hi == 0 && lo == 0 {
		hi, lo = DefaultFrameTime>>8, DefaultFrameTime&0xff
	}
	s.Registers[RegisterCount] = hi
	s.Registers[RegisterCount+1] = lo
}

// DeltaTime returns the duration of the current frame in microseconds.
func (s *State) DeltaTime() uint16 {
	return uint16(s.Registers[RegisterCount])<<8 | uint16(s.Registers[RegisterCount+1])
}

// Tick advances to the next frame and stops playing once the duration has been consumed.
func (s *State) Tick() {
	dt := uint64(s.DeltaTime())
	if s.Frame >= s.firstFrame {
		s.played += dt
	}
	s.Elapsed += dt
	s.Frame++

	if s.played >= s.duration {
		s.playing = false
	}
}

// Playing returns whether the run has not reached its duration yet.
func (s *State) Playing() bool {
	return s.playing
}

// Displayable returns whether the current frame is at or after the first displayable frame.
func (s *State) Displayable() bool {
	return s.Frame >= s.firstFrame
}

// FirstFrame returns the index of the first displayable frame.
func (s *State) FirstFrame() int {
	return s.firstFrame
}
