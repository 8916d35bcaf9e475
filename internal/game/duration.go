package game

type DurationClass string

const (
	Eighth        DurationClass = "eighth"
	Quarter       DurationClass = "quarter"
	DottedQuarter DurationClass = "dotted_quarter"
	Half          DurationClass = "half"
	Whole         DurationClass = "whole"
)

var DurationBeats = map[DurationClass]float64{
	Eighth:        0.5,
	Quarter:       1,
	DottedQuarter: 1.5,
	Half:          2,
	Whole:         4,
}

// Beats falls back to a quarter note for unknown classes.
func (d DurationClass) Beats() float64 {
	if b, ok := DurationBeats[d]; ok {
		return b
	}
	return DurationBeats[Quarter]
}

func (d DurationClass) Valid() bool {
	_, ok := DurationBeats[d]
	return ok
}

// NearestDuration quantises a length in beats to the closest duration class.
func NearestDuration(beats float64) DurationClass {
	best := Quarter
	bestDistance := -1.0
	for _, d := range []DurationClass{Eighth, Quarter, DottedQuarter, Half, Whole} {
		distance := beats - DurationBeats[d]
		if distance < 0 {
			distance = -distance
		}
		if bestDistance < 0 || distance < bestDistance {
			best = d
			bestDistance = distance
		}
	}
	return best
}
