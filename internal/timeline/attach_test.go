package timeline

import (
	"math/rand"
	"testing"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/layout"
	"git.lost.host/meutraa/tutor/internal/testdata"
	"git.lost.host/meutraa/tutor/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(pitch string, x float64) game.PositionedNote {
	return game.PositionedNote{Note: game.Note{Pitch: pitch, Duration: game.Quarter}, X: x, Width: 76}
}

var attachTests = map[float64]float64{
	420:  400,
	400:  400,
	380:  400,
	1500: 400,
	-50:  0,
	0:    0,
}

func TestAttachToNearestNoteSingle(t *testing.T) {
	r := NewResolver([]game.PositionedNote{note("D4", 400)}, 1000)
	for target, expected := range attachTests {
		assert.Equal(t, expected, r.AttachToNearestNote(target), "target %v", target)
	}
}

func TestAttachPrefersEarlierOnTie(t *testing.T) {
	r := NewResolver([]game.PositionedNote{note("D4", 100), note("F4", 200)}, 1000)
	assert.Equal(t, 100.0, r.AttachToNearestNote(150))
	assert.Equal(t, 200.0, r.AttachToNearestNote(151))
}

func TestAttachSkipsRests(t *testing.T) {
	r := NewResolver([]game.PositionedNote{note("D4", 0), note(game.Rest, 100), note("F4", 300)}, 1000)
	assert.Equal(t, 0.0, r.AttachToNearestNote(110))
	assert.Equal(t, 300.0, r.AttachToNearestNote(200))
}

func TestAttachWithoutCandidates(t *testing.T) {
	empty := NewResolver(nil, 0)
	assert.Equal(t, 0.0, empty.AttachToNearestNote(250))

	rests := NewResolver([]game.PositionedNote{note(game.Rest, 0), note(game.Rest, 88)}, 500)
	assert.Equal(t, 250.0, rests.AttachToNearestNote(250))
	assert.Equal(t, 500.0, rests.AttachToNearestNote(900))
	assert.Equal(t, 0.0, rests.AttachToNearestNote(-3))
}

func TestAttachEarlyExitLeavesFarNotes(t *testing.T) {
	// The only note is beyond the lookahead window, so the target is kept
	r := NewResolver([]game.PositionedNote{note("D4", 900)}, 1000)
	assert.Equal(t, 100.0, r.AttachToNearestNote(100))
	assert.Equal(t, 900.0, r.AttachToNearestNote(750))
}

func TestAttachProperties(t *testing.T) {
	score, err := testdata.GetScore()
	require.NoError(t, err)
	l := layout.Compute(score, &theme.DefaultTheme{})
	r := NewResolver(l.Notes, l.Width)

	for _, n := range l.Pitched() {
		assert.Equal(t, n.X, r.AttachToNearestNote(n.X))
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		target := rng.Float64()*3*l.Width - l.Width
		got := r.AttachToNearestNote(target)
		if got < 0 || got > l.Width {
			t.Fatalf("target %f attached to %f, outside [0, %f]", target, got, l.Width)
		}
	}
}
