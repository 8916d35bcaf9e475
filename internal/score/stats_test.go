package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestEmptySessionStats(t *testing.T) {
	s := newSession()
	stats := s.Stats()
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Equal(t, 0.0, stats.RecentAccuracy)
	assert.Equal(t, time.Duration(0), stats.MeanTimingError)
	assert.Equal(t, time.Duration(0), stats.Stdev)
}

func TestTimingErrorStats(t *testing.T) {
	s := newSession()
	s.hit(game.Early, -100*time.Millisecond)
	s.hit(game.Late, 100*time.Millisecond)
	s.hit(game.Perfect, 0)
	s.hit(game.Late, 200*time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, s.MeanTimingError())
	assert.Equal(t, 50*time.Millisecond, s.MeanSignedTimingError())
	// errors -150, 50, -50, 150 around the mean
	assert.InDelta(t, float64(111803399*time.Nanosecond), float64(s.StdevTimingError()), 1000)
	assert.Equal(t, 2, s.Distribution[game.Late])
}

func TestAccuracy(t *testing.T) {
	s := newSession()
	s.hit(game.Perfect, 0)
	s.hit(game.Perfect, 0)
	s.hit(game.Perfect, 0)
	s.miss(game.Missed)
	assert.Equal(t, 75.0, s.Accuracy())

	for i := 0; i < recentWindow; i++ {
		s.miss(game.Incorrect)
	}
	assert.Equal(t, 0.0, s.RecentAccuracy())
	assert.InDelta(t, 3.0/14*100, s.Accuracy(), 1e-9)
	assert.Equal(t, 10, s.Incorrect)
	assert.Equal(t, 1, s.Missed)
}

func TestCopyIsIndependent(t *testing.T) {
	s := newSession()
	s.Pressed["C4"] = true
	s.hit(game.Perfect, time.Millisecond)
	c := s.Copy()
	s.hit(game.Perfect, time.Millisecond)
	s.Pressed["D4"] = true

	assert.Len(t, c.TimingErrors, 1)
	assert.Len(t, c.Pressed, 1)
	assert.Equal(t, 1, c.Distribution[game.Perfect])
	assert.Equal(t, s.ID, c.ID)
}
