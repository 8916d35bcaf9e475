package score

import (
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
)

const (
	FeedbackNotActive  = "Game not active"
	FeedbackNoExpected = "No expected note"
	FeedbackWrongNote  = "Wrong note"

	DefaultLookahead = 2 * time.Second
)

// Result describes how a single key press was judged.
type Result struct {
	Pitch       string        `json:"pitch"`
	IsCorrect   bool          `json:"isCorrect"`
	TimingError time.Duration `json:"timingError"` // Negative when early
	Accuracy    game.Accuracy `json:"accuracy"`
	Feedback    string        `json:"feedback"`
	Expected    string        `json:"expected,omitempty"`
	Points      float64       `json:"points"`
}

type EvaluatorOptions struct {
	Judgement game.Judgement
	// Window is how far from a note a press may land and still be matched
	// to it. Zero means the late threshold.
	Window    time.Duration
	Tempo     float64 // BPM, zero means the score's own tempo
	Lookahead time.Duration

	OnIncorrectNote func(Result)
}

type scheduledNote struct {
	game.Note
	index    int
	expected time.Duration
	played   bool
}

// Evaluator judges key presses against the schedule of a score. It is not
// safe for concurrent use.
type Evaluator struct {
	opts  EvaluatorOptions
	notes []scheduledNote

	session   *Session
	active    bool
	paused    bool
	startedAt time.Time
	pausedAt  time.Time
}

func NewEvaluator(s *game.Score, opts EvaluatorOptions) *Evaluator {
	if opts.Judgement == (game.Judgement{}) {
		opts.Judgement = game.DefaultJudgement
	}
	if opts.Window <= 0 {
		opts.Window = opts.Judgement.Late
	}
	if opts.Tempo <= 0 && nil != s {
		opts.Tempo = s.Tempo
	}
	if opts.Tempo <= 0 {
		opts.Tempo = game.DefaultTempo
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}

	e := &Evaluator{opts: opts, session: newSession()}
	if nil == s {
		return e
	}

	beats := 0.0
	for i, n := range s.Notes() {
		e.notes = append(e.notes, scheduledNote{
			Note:     n,
			index:    i,
			expected: game.BeatsToDuration(beats, opts.Tempo),
		})
		beats += n.Beats()
	}
	return e
}

func (e *Evaluator) Tempo() float64 {
	return e.opts.Tempo
}

// Start begins a fresh session with game time zero at the given instant.
func (e *Evaluator) Start(at time.Time) {
	for i := range e.notes {
		e.notes[i].played = false
	}
	e.session = newSession()
	e.active = true
	e.paused = false
	e.startedAt = at
	e.refreshExpected(0)
}

// Reset discards the session and waits for the next Start.
func (e *Evaluator) Reset() {
	for i := range e.notes {
		e.notes[i].played = false
	}
	e.session = newSession()
	e.active = false
	e.paused = false
}

// Stop ends the session, keeping its results.
func (e *Evaluator) Stop() {
	e.active = false
	e.paused = false
}

func (e *Evaluator) Active() bool {
	return e.active && !e.paused
}

func (e *Evaluator) Started() bool {
	return e.active
}

func (e *Evaluator) Paused() bool {
	return e.paused
}

func (e *Evaluator) Pause(at time.Time) {
	if !e.Active() {
		return
	}
	e.paused = true
	e.pausedAt = at
}

// Resume shifts the start of the game so that paused time is not counted.
func (e *Evaluator) Resume(at time.Time) {
	if !e.active || !e.paused {
		return
	}
	e.startedAt = e.startedAt.Add(at.Sub(e.pausedAt))
	e.paused = false
}

// GameTime is the time since the start of the game, excluding pauses.
func (e *Evaluator) GameTime(at time.Time) time.Duration {
	if !e.active {
		return 0
	}
	if e.paused {
		return e.pausedAt.Sub(e.startedAt)
	}
	return at.Sub(e.startedAt)
}

// Session returns a snapshot of the current session.
func (e *Evaluator) Session() *Session {
	return e.session.Copy()
}

// Completed reports whether every playable note has been judged.
func (e *Evaluator) Completed() bool {
	if !e.active {
		return false
	}
	for _, n := range e.notes {
		if !n.IsRest() && !n.played {
			return false
		}
	}
	return true
}

// expectedAt is the time at which the note with the given sequence index should be played.
func (e *Evaluator) expectedAt(index int) (time.Duration, bool) {
	if index < 0 || index >= len(e.notes) {
		return 0, false
	}
	return e.notes[index].expected, true
}

// Duration is the playback length of the whole score.
func (e *Evaluator) Duration() time.Duration {
	if len(e.notes) == 0 {
		return 0
	}
	last := e.notes[len(e.notes)-1]
	return last.expected + game.BeatsToDuration(last.Beats(), e.opts.Tempo)
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// candidate finds the unplayed note nearest to gameTime within the window.
func (e *Evaluator) candidate(gameTime time.Duration) *scheduledNote {
	var best *scheduledNote
	bestDistance := time.Duration(0)
	for i := range e.notes {
		n := &e.notes[i]
		if n.played || n.IsRest() {
			continue
		}
		d := abs(gameTime - n.expected)
		if d > e.opts.Window {
			if n.expected > gameTime {
				break
			}
			continue
		}
		if nil == best || d < bestDistance {
			best = n
			bestDistance = d
		}
	}
	return best
}

// EvaluatePress judges a key press. A wrong pitch leaves the expected note
// available for a later correct press.
func (e *Evaluator) EvaluatePress(pitch string, at time.Time) Result {
	if !e.Active() {
		return Result{Pitch: pitch, Accuracy: game.Incorrect, Feedback: FeedbackNotActive}
	}

	gameTime := e.GameTime(at)
	e.session.Pressed[pitch] = true
	e.session.Inputs = append(e.session.Inputs, game.Input{Pitch: pitch, At: gameTime})

	n := e.candidate(gameTime)
	if nil == n {
		return e.incorrect(pitch, "", FeedbackNoExpected)
	}
	if !game.SamePitch(pitch, n.Pitch) {
		return e.incorrect(pitch, n.Pitch, FeedbackWrongNote)
	}

	n.played = true
	timingError := gameTime - n.expected
	accuracy := e.opts.Judgement.Judge(timingError)
	points := e.session.hit(accuracy, timingError)
	e.refreshExpected(gameTime)

	return Result{
		Pitch:       pitch,
		IsCorrect:   true,
		TimingError: timingError,
		Accuracy:    accuracy,
		Feedback:    accuracy.Feedback(),
		Expected:    n.Pitch,
		Points:      points,
	}
}

func (e *Evaluator) incorrect(pitch, expected, reason string) Result {
	e.session.miss(game.Incorrect)
	r := Result{
		Pitch:    pitch,
		Accuracy: game.Incorrect,
		Feedback: reason,
		Expected: expected,
	}
	if nil != e.opts.OnIncorrectNote {
		e.opts.OnIncorrectNote(r)
	}
	return r
}

// Finish ends the session. Every note not yet judged counts as missed.
func (e *Evaluator) Finish() []game.Note {
	if !e.active {
		return nil
	}
	var missed []game.Note
	for i := range e.notes {
		n := &e.notes[i]
		if n.played || n.IsRest() {
			continue
		}
		n.played = true
		e.session.miss(game.Missed)
		missed = append(missed, n.Note)
	}
	e.session.Expected = e.session.Expected[:0]
	e.Stop()
	return missed
}

// Release lifts a held key.
func (e *Evaluator) Release(pitch string) {
	delete(e.session.Pressed, pitch)
}

// Sweep marks every note whose window has passed as missed and returns them.
func (e *Evaluator) Sweep(at time.Time) []game.Note {
	if !e.Active() {
		return nil
	}
	gameTime := e.GameTime(at)
	var missed []game.Note
	for i := range e.notes {
		n := &e.notes[i]
		if n.expected > gameTime {
			break
		}
		if n.played || n.IsRest() {
			continue
		}
		if gameTime-n.expected > e.opts.Window {
			n.played = true
			e.session.miss(game.Missed)
			missed = append(missed, n.Note)
		}
	}
	e.refreshExpected(gameTime)
	return missed
}

func (e *Evaluator) refreshExpected(gameTime time.Duration) {
	e.session.Expected = e.session.Expected[:0]
	for _, n := range e.notes {
		if n.played || n.IsRest() {
			continue
		}
		until := n.expected - gameTime
		if until > e.opts.Lookahead {
			break
		}
		if until >= -e.opts.Window {
			e.session.Expected = append(e.session.Expected, n.Pitch)
		}
	}
}
