package score

import (
	"sort"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"github.com/google/uuid"
)

// Session is the running tally of one play through a score.
type Session struct {
	ID uuid.UUID `json:"id"`

	CurrentStreak int     `json:"currentStreak"`
	BestStreak    int     `json:"bestStreak"`
	Multiplier    float64 `json:"multiplier"`
	Points        float64 `json:"points"`

	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Missed    int `json:"missed"`

	TimingErrors []time.Duration       `json:"timingErrors"`
	Distribution map[game.Accuracy]int `json:"distribution"`
	Inputs       []game.Input          `json:"inputs"`

	Pressed  map[string]bool `json:"pressed"`
	Expected []string        `json:"expected"`

	recent []bool
}

func newSession() *Session {
	return &Session{
		ID:           uuid.New(),
		Multiplier:   1,
		Distribution: map[game.Accuracy]int{},
		Pressed:      map[string]bool{},
	}
}

// Evaluations is every press or miss that has been judged.
func (s *Session) Evaluations() int {
	return s.Correct + s.Incorrect + s.Missed
}

func (s *Session) record(a game.Accuracy, correct bool) {
	s.Distribution[a]++
	s.recent = append(s.recent, correct)
	if len(s.recent) > recentWindow {
		s.recent = s.recent[len(s.recent)-recentWindow:]
	}
}

func (s *Session) hit(a game.Accuracy, timingError time.Duration) float64 {
	s.Correct++
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
	s.TimingErrors = append(s.TimingErrors, timingError)
	s.record(a, true)

	points := points(timingError, s.CurrentStreak, s.Multiplier)
	s.Points += points
	s.Multiplier = multiplier(s.CurrentStreak)
	return points
}

func (s *Session) miss(a game.Accuracy) {
	if a == game.Missed {
		s.Missed++
	} else {
		s.Incorrect++
	}
	s.CurrentStreak = 0
	s.Multiplier = 1
	s.record(a, false)
}

// Copy returns a snapshot that shares nothing with the live session.
func (s *Session) Copy() *Session {
	c := *s
	c.TimingErrors = append([]time.Duration(nil), s.TimingErrors...)
	c.Inputs = append([]game.Input(nil), s.Inputs...)
	c.Expected = append([]string(nil), s.Expected...)
	c.recent = append([]bool(nil), s.recent...)
	c.Distribution = make(map[game.Accuracy]int, len(s.Distribution))
	for k, v := range s.Distribution {
		c.Distribution[k] = v
	}
	c.Pressed = make(map[string]bool, len(s.Pressed))
	for k, v := range s.Pressed {
		c.Pressed[k] = v
	}
	return &c
}

// PressedPitches lists the keys currently held, in a stable order.
func (s *Session) PressedPitches() []string {
	pitches := make([]string, 0, len(s.Pressed))
	for p := range s.Pressed {
		pitches = append(pitches, p)
	}
	sort.Strings(pitches)
	return pitches
}
