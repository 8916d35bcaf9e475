package audio

import "time"

// Engine makes the sounds. Calls return immediately and report nothing;
// failures are logged by the implementation.
type Engine interface {
	Play()
	Pause()
	// Seek moves the backing track, if any, to the given time.
	Seek(at time.Duration)
	PlayNote(pitch string, velocity uint8)
	StopNote(pitch string)
	Close()
}

// Nop is a silent Engine.
type Nop struct{}

func (Nop) Play()                  {}
func (Nop) Pause()                 {}
func (Nop) Seek(time.Duration)     {}
func (Nop) PlayNote(string, uint8) {}
func (Nop) StopNote(string)        {}
func (Nop) Close()                 {}
