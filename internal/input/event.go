package input

import "time"

type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	Control
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	case Control:
		return "control"
	}
	return "unknown"
}

// Event is a key going down or up, from any instrument.
type Event struct {
	Kind     Kind
	Pitch    string
	Velocity uint8
	Channel  uint8

	// Only for Control events
	Controller uint8
	Value      uint8

	At time.Time
}

// Sustain is the controller number of the damper pedal.
const Sustain = 64

// DefaultVelocity is used for instruments that cannot sense it.
const DefaultVelocity = 100
