package game

import "time"

// DefaultTempo is used when neither the score nor the configuration give one.
const DefaultTempo = 60.0

// Score is the piece being practiced. It is not modified after loading.
type Score struct {
	Title    string    `yaml:"title" json:"title"`
	Artist   string    `yaml:"artist,omitempty" json:"artist,omitempty"`
	Tempo    float64   `yaml:"tempo,omitempty" json:"tempo,omitempty"` // BPM
	Measures []Measure `yaml:"measures" json:"measures"`
}

func (s *Score) NoteCount() int {
	count := 0
	for _, m := range s.Measures {
		count += len(m.Notes)
	}
	return count
}

// Notes flattens the measures in score order.
func (s *Score) Notes() []Note {
	notes := make([]Note, 0, s.NoteCount())
	for _, m := range s.Measures {
		notes = append(notes, m.Notes...)
	}
	return notes
}

func (s *Score) Beats() float64 {
	beats := 0.0
	for _, m := range s.Measures {
		beats += m.Beats()
	}
	return beats
}

// SecondsPerBeat converts a tempo to the length of one quarter note beat.
func SecondsPerBeat(bpm float64) float64 {
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	return 60.0 / bpm
}

// BeatsToDuration converts a beat position to playback time at the given tempo.
func BeatsToDuration(beats, bpm float64) time.Duration {
	return time.Duration(beats * SecondsPerBeat(bpm) * float64(time.Second))
}
