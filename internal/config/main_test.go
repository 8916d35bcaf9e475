package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "song.yml")
	require.NoError(t, os.WriteFile(path, []byte("measures: []"), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	file := scoreFile(t)
	cfg, err := New().Parse([]string{"play", file})
	require.NoError(t, err)

	assert.Equal(t, PlayCommand, cfg.Command)
	assert.Equal(t, file, cfg.File)
	assert.Equal(t, 0.0, cfg.Tempo)
	assert.Equal(t, 50*time.Millisecond, cfg.Judgement.Perfect)
	assert.Equal(t, 200*time.Millisecond, cfg.Judgement.Late)
	assert.Equal(t, 2*time.Second, cfg.Lookahead)
	assert.Equal(t, 16*time.Millisecond, cfg.FramePeriod)
	assert.Equal(t, log.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.Audio)
	assert.Equal(t, 4, cfg.Octave)
}

func TestPlayIsDefaultCommand(t *testing.T) {
	file := scoreFile(t)
	cfg, err := New().Parse([]string{"--tempo", "90", file})
	require.NoError(t, err)
	assert.Equal(t, PlayCommand, cfg.Command)
	assert.Equal(t, 90.0, cfg.Tempo)
}

func TestServe(t *testing.T) {
	file := scoreFile(t)
	cfg, err := New().Parse([]string{
		"--log-level", "debug", "--no-audio",
		"serve", "-l", "127.0.0.1:9000",
		"--allowed-origin", "http://a", "--allowed-origin", "http://b",
		file,
	})
	require.NoError(t, err)
	assert.Equal(t, ServeCommand, cfg.Command)
	assert.Equal(t, file, cfg.File)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.Audio)
}

func TestInvalidArguments(t *testing.T) {
	file := scoreFile(t)
	for _, args := range [][]string{
		{"play"},
		{"play", filepath.Join(t.TempDir(), "missing.yml")},
		{"--tempo", "-5", "play", file},
		{"--perfect", "300ms", "play", file},
		{"--log-level", "loud", "play", file},
		{"--frame-period", "0s", "play", file},
	} {
		_, err := New().Parse(args)
		assert.Error(t, err, args)
	}
}

var keyTests = map[rune]string{
	'a': "C4",
	'w': "C#4",
	'j': "B4",
	'k': "C5",
}

func TestKeyPitch(t *testing.T) {
	cfg, err := New().Parse([]string{"play", scoreFile(t)})
	require.NoError(t, err)
	for r, expected := range keyTests {
		pitch, ok := cfg.KeyPitch(r)
		assert.True(t, ok, string(r))
		assert.Equal(t, expected, pitch, string(r))
	}
	_, ok := cfg.KeyPitch('z')
	assert.False(t, ok)

	cfg.Octave = 10
	_, ok = cfg.KeyPitch('k')
	assert.False(t, ok)
}
