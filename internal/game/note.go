package game

// Rest is the pitch sentinel for a note that occupies time but is never played.
const Rest = "rest"

type Note struct {
	Pitch     string        `yaml:"pitch" json:"pitch"`
	Duration  DurationClass `yaml:"duration" json:"duration"`
	Fingering *int          `yaml:"fingering,omitempty" json:"fingering,omitempty"`
}

func (n Note) IsRest() bool {
	return n.Pitch == Rest
}

// Beats is the length of the note in quarter note beats.
func (n Note) Beats() float64 {
	return n.Duration.Beats()
}

// PositionedNote is a Note placed on the horizontal timeline.
type PositionedNote struct {
	Note
	MeasureIndex int     `json:"measureIndex"`
	NoteIndex    int     `json:"noteIndex"` // The global sequence order
	X            float64 `json:"x"`         // Offset from the timeline origin in pixels
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Color        string  `json:"color"`
}

// End is the right edge of the note.
func (n PositionedNote) End() float64 {
	return n.X + n.Width
}
