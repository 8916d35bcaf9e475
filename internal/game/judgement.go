package game

import (
	"time"
)

// Accuracy classifies how a key press relates to the expected time of a note.
type Accuracy int

const (
	Perfect Accuracy = iota
	Early
	Late
	Missed
	Incorrect
)

var Accuracies = []Accuracy{Perfect, Early, Late, Missed, Incorrect}

func (a Accuracy) String() string {
	switch a {
	case Perfect:
		return "perfect"
	case Early:
		return "early"
	case Late:
		return "late"
	case Missed:
		return "missed"
	case Incorrect:
		return "incorrect"
	}
	return "unknown"
}

func (a Accuracy) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Feedback is the short message shown to the player.
func (a Accuracy) Feedback() string {
	switch a {
	case Perfect:
		return "Perfect!"
	case Early:
		return "A bit early"
	case Late:
		return "A bit late"
	case Missed:
		return "Missed timing"
	}
	return "Good"
}

type Judgement struct {
	Perfect time.Duration
	Late    time.Duration // Also the search window around a note
}

var DefaultJudgement = Judgement{
	Perfect: 50 * time.Millisecond,
	Late:    200 * time.Millisecond,
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// Judge classifies a signed timing error, negative meaning early.
func (j Judgement) Judge(timingError time.Duration) Accuracy {
	d := abs(timingError)
	switch {
	case d <= j.Perfect:
		return Perfect
	case d <= j.Late:
		if timingError < 0 {
			return Early
		}
		return Late
	}
	return Missed
}
