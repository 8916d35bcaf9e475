package testdata

import (
	_ "embed"

	"git.lost.host/meutraa/tutor/internal/game"
	"gopkg.in/yaml.v3"
)

//go:embed different_colors.yml
var data []byte

// GetScore returns a fresh copy of the demo score on every call.
func GetScore() (*game.Score, error) {
	var score game.Score
	if err := yaml.Unmarshal(data, &score); nil != err {
		return nil, err
	}
	return &score, nil
}

func Raw() []byte {
	return data
}

// Scenario is one measure of D4, F4, C4 and a rest at 60 BPM.
func Scenario() *game.Score {
	return &game.Score{
		Title: "scenario",
		Tempo: 60,
		Measures: []game.Measure{{Notes: []game.Note{
			{Pitch: "D4", Duration: game.Quarter},
			{Pitch: "F4", Duration: game.Quarter},
			{Pitch: "C4", Duration: game.Quarter},
			{Pitch: game.Rest, Duration: game.Quarter},
		}}},
	}
}
