package score

import (
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
)

// Store keeps the results of finished sessions.
type Store interface {
	Init() error
	Deinit()

	// Save the state of this performance
	Save(s *game.Score, session *Session) error

	// Load up previous sessions for the score, oldest first
	Load(s *game.Score) ([]History, error)
}

type History struct {
	Sum        string       `json:"sum"`
	SessionID  string       `json:"sessionId"`
	PlayedAt   time.Time    `json:"playedAt"`
	Points     float64      `json:"points"`
	Correct    int          `json:"correct"`
	Incorrect  int          `json:"incorrect"`
	Missed     int          `json:"missed"`
	BestStreak int          `json:"bestStreak"`
	Inputs     []game.Input `json:"inputs"`
}

// Best returns the highest scoring history, if any.
func Best(histories []History) (History, bool) {
	var best History
	found := false
	for _, h := range histories {
		if !found || h.Points > best.Points {
			best = h
			found = true
		}
	}
	return best, found
}
