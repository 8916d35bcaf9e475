package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/tutor/internal/config"
	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/input"
	"git.lost.host/meutraa/tutor/internal/log"
	"git.lost.host/meutraa/tutor/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgram(t *testing.T) *Program {
	dir := t.TempDir()
	file := filepath.Join(dir, "different_colors.yml")
	require.NoError(t, os.WriteFile(file, testdata.Raw(), 0o644))

	p := NewProgram(&config.Config{
		File:        file,
		Judgement:   game.DefaultJudgement,
		FramePeriod: time.Hour,
		Database:    filepath.Join(dir, "scores.db"),
	}, log.Nop())
	require.NoError(t, p.Init())
	t.Cleanup(p.Deinit)
	return p
}

func firstPitch(s *game.Score) string {
	for _, n := range s.Notes() {
		if !n.IsRest() {
			return n.Pitch
		}
	}
	return ""
}

func TestProgramInit(t *testing.T) {
	p := newTestProgram(t)
	assert.NotNil(t, p.Store)
	assert.NotNil(t, p.Engine)
	assert.Equal(t, p.score, p.Engine.Score())
}

func TestProgramActions(t *testing.T) {
	p := newTestProgram(t)
	assert := assert.New(t)

	assert.False(p.handleAction(input.TogglePlay))
	assert.True(p.Engine.Snapshot().State.IsPlaying)
	assert.False(p.handleAction(input.TogglePlay))
	assert.False(p.Engine.Snapshot().State.IsPlaying)

	assert.False(p.handleAction(input.SeekBack))
	assert.Zero(p.Engine.Snapshot().Percentage)

	assert.True(p.handleAction(input.Quit))
}

func TestProgramEvents(t *testing.T) {
	p := newTestProgram(t)
	pitch := firstPitch(p.score)
	require.NotEmpty(t, pitch)

	// Before the game starts keys only sound
	p.handleEvent(input.Event{Kind: input.NoteOn, Pitch: pitch, At: time.Now()})
	assert.Zero(t, p.Engine.Snapshot().Session.Evaluations())

	p.handleAction(input.Restart)
	p.handleEvent(input.Event{Kind: input.NoteOn, Pitch: pitch, Velocity: 80, At: time.Now()})
	f := p.Engine.Snapshot()
	assert.Equal(t, 1, f.Session.Correct)
	assert.True(t, f.Session.Pressed[pitch])

	p.handleEvent(input.Event{Kind: input.NoteOff, Pitch: pitch, At: time.Now()})
	p.handleEvent(input.Event{Kind: input.Control, Controller: input.Sustain, Value: 127})
	f = p.Engine.Snapshot()
	assert.False(t, f.Session.Pressed[pitch])
	assert.Equal(t, 1, f.Session.Evaluations())
}
