package note

import (
	"fmt"

	"github.com/retroenv/siddump/internal/sid"
)

// Kind classifies what happened to the note of a voice in a frame.
type Kind int

const (
	// Unchanged means the frequency did not change since the last rendered frame.
	Unchanged Kind = iota
	// Silent means the frequency changed but no waveform is selected to play a note.
	Silent
	// Hold means the frequency was written but neither the note nor the frequency changed
	// compared to the previous frame.
	Hold
	// NewNote is a note played on a voice that had no note assigned.
	NewNote
	// Retrigger is a change from one known note to another.
	Retrigger
	// Slide is a frequency change that stays on the same note, like vibrato or portamento.
	Slide
)

// Event is the result of the note inference for one voice in one frame.
type Event struct {
	Kind  Kind
	Freq  uint16
	Note  int
	Delta int // frequency change to the previous frame for slides
}

// String renders the event as the fixed width frequency and note column of the notes table.
func (e Event) String() string {
	switch e.Kind {
	case Unchanged:
		return "....  ... ..  "
	case NewNote:
		return fmt.Sprintf("%04X  %s %02X  ", e.Freq, Name(e.Note), e.Note|0x80)
	case Retrigger:
		return fmt.Sprintf("%04X (%s %02X) ", e.Freq, Name(e.Note), e.Note|0x80)
	case Slide:
		if e.Delta > 0 {
			return fmt.Sprintf("%04X (+ %04X) ", e.Freq, e.Delta)
		}
		return fmt.Sprintf("%04X (- %04X) ", e.Freq, -e.Delta)
	default:
		return fmt.Sprintf("%04X  ... ..  ", e.Freq)
	}
}

// Tracker infers the notes played by the voices of consecutive frames. It keeps the voices of
// the last rendered frame and of the immediately preceding frame, which differ when rows are
// skipped in low resolution mode.
type Tracker struct {
	table      Table
	stickiness int

	rendered [sid.Voices]sid.Voice
	seen     [sid.Voices]sid.Voice
	first    bool
}

// NewTracker returns a tracker that matches frequencies against the given table. A stickiness
// factor above 1 favors keeping the held note of a voice.
func NewTracker(table Table, stickiness int) *Tracker {
	if stickiness < 1 {
		stickiness = 1
	}
	t := &Tracker{
		table:      table,
		stickiness: stickiness,
	}
	t.Reset()
	return t
}

// Reset forgets all history, the next frame is treated as the first one.
func (t *Tracker) Reset() {
	t.first = true
	for i := range t.rendered {
		t.rendered[i] = sid.Voice{Note: sid.Unassigned}
		t.seen[i] = sid.Voice{Note: sid.Unassigned}
	}
}

// Infer updates the note of every voice of the state and returns what happened per voice.
func (t *Tracker) Infer(state *sid.State) [sid.Voices]Event {
	var events [sid.Voices]Event
	for i := range state.Voices {
		events[i] = t.inferVoice(i, &state.Voices[i])
	}
	return events
}

func (t *Tracker) inferVoice(index int, cur *sid.Voice) Event {
	prev := &t.rendered[index]
	seen := t.seen[index]

	// a gate that opens after being closed is a new note, never a slide
	if cur.HasWaveform() && cur.Gate() && (!seen.Gate() || !prev.HasWaveform()) {
		prev.Note = sid.Unassigned
	}

	if !t.first && prev.Note != sid.Unassigned && cur.Freq == prev.Freq {
		cur.Note = prev.Note
		return Event{Kind: Unchanged, Freq: cur.Freq, Note: cur.Note}
	}

	ev := Event{Freq: cur.Freq}
	if !cur.HasWaveform() {
		cur.Note = prev.Note
		ev.Kind = Silent
		ev.Note = cur.Note
		return ev
	}

	cur.Note = t.table.Nearest(cur.Freq, prev.Note, t.stickiness)
	ev.Note = cur.Note

	switch {
	case cur.Note != prev.Note && prev.Note == sid.Unassigned:
		ev.Kind = NewNote
	case cur.Note != prev.Note:
		ev.Kind = Retrigger
	default:
		ev.Delta = int(cur.Freq) - int(seen.Freq)
		if ev.Delta == 0 {
			ev.Kind = Hold
		} else {
			ev.Kind = Slide
		}
	}
	return ev
}

// Advance records the voices of the state as the preceding frame and, if the row of the frame
// was emitted, as the last rendered frame.
func (t *Tracker) Advance(state *sid.State, rendered bool) {
	if rendered {
		t.rendered = state.Voices
		t.first = false
	}
	t.seen = state.Voices
}

// Table returns the frequency table used for matching.
func (t *Tracker) Table() Table {
	return t.table
}
