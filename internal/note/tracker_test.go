package note

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/retroenv/siddump/internal/sid"
)

// frame runs the tracker for one frame where only the first voice is driven.
func frame(tr *Tracker, state *sid.State, freq uint16, wave byte, rendered bool) Event {
	state.Voices[0].Freq = freq
	state.Voices[0].Wave = wave
	events := tr.Infer(state)
	tr.Advance(state, rendered)
	return events[0]
}

func TestTrackerSlide(t *testing.T) {
	table := Reference()
	f0 := table[MiddleC]
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	ev := frame(tr, state, f0, 0x41, true)
	assert.Equal(t, NewNote, ev.Kind)
	assert.Equal(t, MiddleC, ev.Note)
	assert.Equal(t, "1168  C-4 B0  ", ev.String())

	ev = frame(tr, state, f0+5, 0x41, true)
	assert.Equal(t, Slide, ev.Kind)
	assert.Equal(t, MiddleC, ev.Note)
	assert.Equal(t, 5, ev.Delta)
	assert.Equal(t, "116D (+ 0005) ", ev.String())

	ev = frame(tr, state, f0, 0x41, true)
	assert.Equal(t, Slide, ev.Kind)
	assert.Equal(t, MiddleC, ev.Note)
	assert.Equal(t, -5, ev.Delta)
	assert.Equal(t, "1168 (- 0005) ", ev.String())
	assert.Equal(t, MiddleC, state.Voices[0].Note)
}

func TestTrackerUnchangedAndRetrigger(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	frame(tr, state, table[MiddleC], 0x41, true)

	ev := frame(tr, state, table[MiddleC], 0x41, true)
	assert.Equal(t, Unchanged, ev.Kind)
	assert.Equal(t, "....  ... ..  ", ev.String())
	assert.Equal(t, MiddleC, state.Voices[0].Note)

	ev = frame(tr, state, table[MiddleC+1], 0x41, true)
	assert.Equal(t, Retrigger, ev.Kind)
	assert.Equal(t, "1271 (C#4 B1) ", ev.String())
}

func TestTrackerGateEdgeForcesNewNote(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	frame(tr, state, table[MiddleC], 0x41, true)
	ev := frame(tr, state, table[MiddleC], 0x40, true)
	assert.Equal(t, Unchanged, ev.Kind)

	// gate opens again on the same frequency
	ev = frame(tr, state, table[MiddleC], 0x41, true)
	assert.Equal(t, NewNote, ev.Kind)
	assert.Equal(t, MiddleC, ev.Note)

	// gate held, no edge
	ev = frame(tr, state, table[MiddleC], 0x41, true)
	assert.Equal(t, Unchanged, ev.Kind)
}

func TestTrackerGateEdgeInSkippedFrame(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	frame(tr, state, table[MiddleC], 0x41, true)
	frame(tr, state, table[MiddleC], 0x40, false)

	// the key on happens in a frame that is not rendered
	ev := frame(tr, state, table[MiddleC], 0x41, false)
	assert.Equal(t, NewNote, ev.Kind)

	ev = frame(tr, state, table[MiddleC], 0x41, true)
	assert.Equal(t, NewNote, ev.Kind)
}

func TestTrackerSilentVoice(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	ev := frame(tr, state, 0x1234, 0x00, true)
	assert.Equal(t, Silent, ev.Kind)
	assert.Equal(t, sid.Unassigned, ev.Note)
	assert.Equal(t, "1234  ... ..  ", ev.String())
}

func TestTrackerHold(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 1)
	state := sid.New(1000000, 0)

	frame(tr, state, table[MiddleC], 0x41, true)
	frame(tr, state, table[MiddleC]+3, 0x41, false)

	// changed compared to the rendered frame, unchanged compared to the preceding one
	ev := frame(tr, state, table[MiddleC]+3, 0x41, true)
	assert.Equal(t, Hold, ev.Kind)
	assert.Equal(t, "116B  ... ..  ", ev.String())
}

func TestTrackerStickiness(t *testing.T) {
	table := Reference()
	tr := NewTracker(table, 16)
	state := sid.New(1000000, 0)

	frame(tr, state, table[MiddleC], 0x41, true)
	ev := frame(tr, state, 0x1260, 0x41, true)
	assert.Equal(t, Slide, ev.Kind)
	assert.Equal(t, MiddleC, ev.Note)

	tr = NewTracker(table, 1)
	state = sid.New(1000000, 0)
	frame(tr, state, table[MiddleC], 0x41, true)
	ev = frame(tr, state, 0x1260, 0x41, true)
	assert.Equal(t, Retrigger, ev.Kind)
	assert.Equal(t, MiddleC+1, ev.Note)
}
