package input

import (
	"strconv"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ParseMessage reads note and controller messages. A note on with velocity
// zero is a note off.
func ParseMessage(msg midi.Message) (Event, bool) {
	var channel, key, velocity, controller, value uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return Event{Kind: NoteOn, Pitch: game.MidiToName(key), Velocity: velocity, Channel: channel}, true
	case msg.GetNoteEnd(&channel, &key):
		return Event{Kind: NoteOff, Pitch: game.MidiToName(key), Channel: channel}, true
	case msg.GetControlChange(&channel, &controller, &value):
		return Event{Kind: Control, Channel: channel, Controller: controller, Value: value}, true
	}
	return Event{}, false
}

// Ports lists the names of the MIDI inputs of the registered driver.
func Ports() []string {
	names := []string{}
	for _, in := range midi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

func findPort(port string) (drivers.In, error) {
	if n, err := strconv.Atoi(port); nil == err {
		return midi.InPort(n)
	}
	return midi.FindInPort(port)
}

// ListenMIDI delivers events from the named (or numbered) input port until
// stop is called. The handler runs on the driver's goroutine.
func ListenMIDI(port string, now func() time.Time, handler func(Event)) (stop func(), err error) {
	if nil == now {
		now = time.Now
	}
	in, err := findPort(port)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to find midi port %q", port)
	}
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if ev, ok := ParseMessage(msg); ok {
			ev.At = now()
			handler(ev)
		}
	})
	if nil != err {
		return nil, errors.Wrapf(err, "unable to listen to %v", in)
	}
	return stop, nil
}
