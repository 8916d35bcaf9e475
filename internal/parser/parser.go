package parser

import (
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
)

type Parser interface {
	Parse(file string) (*game.Score, error)
}

// ForFile picks a parser by file extension. Anything that is not a MIDI file
// is read as a YAML score document.
func ForFile(file string, logger *log.Logger) Parser {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mid", ".midi", ".smf":
		return &MidiParser{Logger: logger}
	}
	return &DefaultParser{Logger: logger}
}

func titleFromFile(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
