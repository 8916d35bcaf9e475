package game

import "time"

// Input is a single key press, timed from the start of the game.
type Input struct {
	Pitch string        `json:"pitch"`
	At    time.Duration `json:"at"`
}
