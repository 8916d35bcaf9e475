package game

type Measure struct {
	Notes []Note `yaml:"notes" json:"notes"`
}

// Beats is the summed length of the notes in the measure.
func (m Measure) Beats() float64 {
	beats := 0.0
	for _, n := range m.Notes {
		beats += n.Beats()
	}
	return beats
}
