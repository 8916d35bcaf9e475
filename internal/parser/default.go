package parser

import (
	"os"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultParser reads YAML score documents:
//
//	title: Different Colors
//	tempo: 60
//	measures:
//	  - notes:
//	      - {pitch: D4, duration: quarter, fingering: 2}
//	      - {pitch: rest, duration: quarter}
type DefaultParser struct {
	Logger *log.Logger
}

func (p *DefaultParser) Parse(file string) (*game.Score, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to read %s", file)
	}
	score, err := p.ParseBytes(data)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to parse %s", file)
	}
	if score.Title == "" {
		score.Title = titleFromFile(file)
	}
	return score, nil
}

func (p *DefaultParser) ParseBytes(data []byte) (*game.Score, error) {
	logger := p.Logger
	if nil == logger {
		logger = log.Nop()
	}

	var score game.Score
	if err := yaml.Unmarshal(data, &score); nil != err {
		return nil, err
	}
	if len(score.Measures) == 0 {
		return nil, errors.New("score has no measures")
	}
	if score.Tempo < 0 {
		return nil, errors.Errorf("invalid tempo %v", score.Tempo)
	}
	if score.Tempo == 0 {
		score.Tempo = game.DefaultTempo
	}

	// Unknown values are kept; layout and evaluation have defined fallbacks for them.
	for i, m := range score.Measures {
		for j, n := range m.Notes {
			if !n.Duration.Valid() {
				logger.Warnf("measure %d note %d: unknown duration %q, using quarter", i+1, j+1, n.Duration)
			}
			if n.IsRest() {
				continue
			}
			if _, ok := game.Normalize(n.Pitch); !ok {
				logger.Warnf("measure %d note %d: unknown pitch %q will never match", i+1, j+1, n.Pitch)
			}
		}
	}
	return &score, nil
}
