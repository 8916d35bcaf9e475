package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return start.Add(d)
}

func started(s *game.Score, opts EvaluatorOptions) *Evaluator {
	e := NewEvaluator(s, opts)
	e.Start(start)
	return e
}

func TestScenario(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})

	r := e.EvaluatePress("D4", at(20*time.Millisecond))
	assert.True(t, r.IsCorrect)
	assert.Equal(t, game.Perfect, r.Accuracy)
	assert.Equal(t, "Perfect!", r.Feedback)
	assert.Equal(t, 20*time.Millisecond, r.TimingError)

	r = e.EvaluatePress("E4", at(time.Second))
	assert.False(t, r.IsCorrect)
	assert.Equal(t, game.Incorrect, r.Accuracy)
	assert.Equal(t, FeedbackWrongNote, r.Feedback)
	assert.Equal(t, "F4", r.Expected)

	r = e.EvaluatePress("F4", at(1050*time.Millisecond))
	assert.True(t, r.IsCorrect)
	assert.Equal(t, game.Perfect, r.Accuracy)

	s := e.Session()
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.BestStreak)
}

var timingTests = map[time.Duration]game.Accuracy{
	0:                       game.Perfect,
	50 * time.Millisecond:   game.Perfect,
	-50 * time.Millisecond:  game.Perfect,
	-120 * time.Millisecond: game.Early,
	120 * time.Millisecond:  game.Late,
	200 * time.Millisecond:  game.Late,
	-200 * time.Millisecond: game.Early,
}

func TestTimingClasses(t *testing.T) {
	for offset, expected := range timingTests {
		// The second note is at one second so early presses stay in range.
		e := started(testdata.Scenario(), EvaluatorOptions{})
		e.EvaluatePress("D4", at(0))
		r := e.EvaluatePress("F4", at(time.Second+offset))
		assert.True(t, r.IsCorrect, offset)
		assert.Equal(t, expected, r.Accuracy, offset)
		assert.Equal(t, offset, r.TimingError, offset)
	}
}

func TestNoExpectedNote(t *testing.T) {
	var incorrect []Result
	e := started(testdata.Scenario(), EvaluatorOptions{
		OnIncorrectNote: func(r Result) { incorrect = append(incorrect, r) },
	})
	r := e.EvaluatePress("D4", at(500*time.Millisecond))
	assert.False(t, r.IsCorrect)
	assert.Equal(t, FeedbackNoExpected, r.Feedback)
	require.Len(t, incorrect, 1)
	assert.Equal(t, "D4", incorrect[0].Pitch)

	// the note is still there to be played
	r = e.EvaluatePress("F4", at(time.Second))
	assert.True(t, r.IsCorrect)
	assert.Len(t, incorrect, 1)
}

func TestEmptyScoreHasNoExpectedNote(t *testing.T) {
	for _, s := range []*game.Score{nil, {}, {Measures: []game.Measure{{}}}} {
		e := started(s, EvaluatorOptions{})
		r := e.EvaluatePress("C4", at(0))
		assert.False(t, r.IsCorrect)
		assert.Equal(t, FeedbackNoExpected, r.Feedback)
		assert.Empty(t, e.Sweep(at(time.Minute)))
	}
}

func TestDoubleEvaluation(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	assert.True(t, e.EvaluatePress("D4", at(0)).IsCorrect)
	r := e.EvaluatePress("D4", at(10*time.Millisecond))
	assert.False(t, r.IsCorrect)
	assert.Equal(t, FeedbackNoExpected, r.Feedback)
	assert.Equal(t, 1, e.Session().Correct)
}

func TestEnharmonicPress(t *testing.T) {
	s := &game.Score{Tempo: 60, Measures: []game.Measure{{Notes: []game.Note{
		{Pitch: "Db4", Duration: game.Quarter},
		{Pitch: "A#3", Duration: game.Quarter},
	}}}}
	e := started(s, EvaluatorOptions{})
	assert.True(t, e.EvaluatePress("C#4", at(0)).IsCorrect)
	assert.True(t, e.EvaluatePress("Bb3", at(time.Second)).IsCorrect)
}

func TestMalformedPitchNeverMatches(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	for _, p := range []string{"", "H4", "D", "d4", "D4x"} {
		r := e.EvaluatePress(p, at(0))
		assert.False(t, r.IsCorrect, p)
		assert.Equal(t, FeedbackWrongNote, r.Feedback, p)
	}
}

func TestNearestCandidateWins(t *testing.T) {
	s := &game.Score{Tempo: 240, Measures: []game.Measure{{Notes: []game.Note{
		{Pitch: "C4", Duration: game.Eighth}, // 0ms
		{Pitch: "C4", Duration: game.Eighth}, // 125ms
		{Pitch: "C4", Duration: game.Eighth}, // 250ms
	}}}}
	e := started(s, EvaluatorOptions{})
	r := e.EvaluatePress("C4", at(110*time.Millisecond))
	assert.Equal(t, -15*time.Millisecond, r.TimingError)
	r = e.EvaluatePress("C4", at(110*time.Millisecond))
	assert.Equal(t, 110*time.Millisecond, r.TimingError)
}

func TestSweepMarksMissedNotes(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	e.EvaluatePress("D4", at(0))
	assert.Empty(t, e.Sweep(at(1200*time.Millisecond)))

	missed := e.Sweep(at(1201 * time.Millisecond))
	require.Len(t, missed, 1)
	assert.Equal(t, "F4", missed[0].Pitch)

	s := e.Session()
	assert.Equal(t, 1, s.Missed)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 1, s.BestStreak)
	assert.Equal(t, 1.0, s.Multiplier)

	// a swept note cannot be played any more
	r := e.EvaluatePress("F4", at(1150*time.Millisecond))
	assert.False(t, r.IsCorrect)

	assert.False(t, e.Completed())
	e.Sweep(at(10 * time.Second))
	assert.True(t, e.Completed())
	assert.Equal(t, 2, e.Session().Missed)
}

func TestPausedGameIgnoresPresses(t *testing.T) {
	e := NewEvaluator(testdata.Scenario(), EvaluatorOptions{})
	r := e.EvaluatePress("D4", at(0))
	assert.Equal(t, FeedbackNotActive, r.Feedback)
	assert.Equal(t, 0, e.Session().Evaluations())

	e.Start(start)
	e.Pause(at(500 * time.Millisecond))
	r = e.EvaluatePress("F4", at(time.Second))
	assert.Equal(t, FeedbackNotActive, r.Feedback)
	assert.Empty(t, e.Sweep(at(time.Hour)))
	assert.Equal(t, 0, e.Session().Evaluations())

	// three seconds paused moves F4 to four seconds of wall time
	e.Resume(at(3500 * time.Millisecond))
	assert.Equal(t, 600*time.Millisecond, e.GameTime(at(3600*time.Millisecond)))
	r = e.EvaluatePress("F4", at(4*time.Second))
	assert.True(t, r.IsCorrect)
	assert.Equal(t, game.Perfect, r.Accuracy)
}

func TestStreakAndPoints(t *testing.T) {
	notes := make([]game.Note, 45)
	for i := range notes {
		notes[i] = game.Note{Pitch: "E4", Duration: game.Quarter}
	}
	s := &game.Score{Tempo: 60, Measures: []game.Measure{{Notes: notes}}}
	e := started(s, EvaluatorOptions{})

	total := 0.0
	for i := 0; i < 25; i++ {
		r := e.EvaluatePress("E4", at(time.Duration(i)*time.Second))
		require.True(t, r.IsCorrect)
		total += r.Points
		switch i {
		case 0:
			assert.Equal(t, 20.0, r.Points)
		case 9:
			// streak 10 earns the first streak bonus
			assert.Equal(t, 30.0, r.Points)
		case 19:
			// multiplier is raised after this note
			assert.Equal(t, 40.0, r.Points)
		case 20:
			assert.Equal(t, 60.0, r.Points)
		}
	}
	sess := e.Session()
	assert.Equal(t, 25, sess.CurrentStreak)
	assert.Equal(t, 1.5, sess.Multiplier)
	assert.InDelta(t, total, sess.Points, 1e-9)

	e.EvaluatePress("C4", at(25*time.Second))
	sess = e.Session()
	assert.Equal(t, 0, sess.CurrentStreak)
	assert.Equal(t, 25, sess.BestStreak)
	assert.Equal(t, 1.0, sess.Multiplier)
}

func TestMultiplierIsCapped(t *testing.T) {
	assert.Equal(t, 1.0, multiplier(19))
	assert.Equal(t, 1.5, multiplier(20))
	assert.Equal(t, 2.5, multiplier(60))
	assert.Equal(t, 3.0, multiplier(80))
	assert.Equal(t, 3.0, multiplier(400))
}

func TestTimingBonus(t *testing.T) {
	assert.Equal(t, 20.0, points(0, 1, 1))
	assert.InDelta(t, 17.5, points(50*time.Millisecond, 1, 1), 1e-9)
	assert.InDelta(t, 15.0, points(-100*time.Millisecond, 1, 1), 1e-9)
	assert.Equal(t, 10.0, points(time.Second, 1, 1))
	assert.Equal(t, 80.0, points(0, 20, 2))
}

func TestWideWindowJudgesMissed(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{Window: 400 * time.Millisecond})
	r := e.EvaluatePress("D4", at(300*time.Millisecond))
	assert.True(t, r.IsCorrect)
	assert.Equal(t, game.Missed, r.Accuracy)
	assert.Equal(t, "Missed timing", r.Feedback)
}

func TestExpectedNotesLookahead(t *testing.T) {
	score, err := testdata.GetScore()
	require.NoError(t, err)
	e := started(score, EvaluatorOptions{})
	first := e.Session().Expected
	require.NotEmpty(t, first)
	assert.Equal(t, score.Notes()[0].Pitch, first[0])

	e.Sweep(at(time.Hour))
	assert.Empty(t, e.Session().Expected)
	assert.True(t, e.Completed())
}

func TestReleaseClearsPressed(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	e.EvaluatePress("D4", at(0))
	e.EvaluatePress("A4", at(10*time.Millisecond))
	assert.Equal(t, []string{"A4", "D4"}, e.Session().PressedPitches())
	e.Release("D4")
	assert.Equal(t, []string{"A4"}, e.Session().PressedPitches())
	assert.Len(t, e.Session().Inputs, 2)
}

func TestTempoOverride(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{Tempo: 120})
	assert.Equal(t, 120.0, e.Tempo())
	d, ok := e.expectedAt(2)
	assert.True(t, ok)
	assert.Equal(t, time.Second, d)
	assert.Equal(t, 2*time.Second, e.Duration())

	_, ok = e.expectedAt(10)
	assert.False(t, ok)
}

func TestResetForgetsPlayedNotes(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	require.True(t, e.EvaluatePress("D4", at(0)).IsCorrect)
	oldID := e.Session().ID

	e.Reset()
	assert.False(t, e.Started())
	assert.Zero(t, e.Session().Evaluations())
	assert.Equal(t, FeedbackNotActive, e.EvaluatePress("D4", at(0)).Feedback)

	e.Start(start)
	assert.NotEqual(t, oldID, e.Session().ID)
	assert.True(t, e.EvaluatePress("D4", at(0)).IsCorrect)
}

func TestFinishMissesEverythingLeft(t *testing.T) {
	e := started(testdata.Scenario(), EvaluatorOptions{})
	require.True(t, e.EvaluatePress("D4", at(0)).IsCorrect)

	missed := e.Finish()
	require.Len(t, missed, 2)
	assert.Equal(t, "F4", missed[0].Pitch)
	assert.Equal(t, "C4", missed[1].Pitch)

	s := e.Session()
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 2, s.Missed)
	assert.Equal(t, 3, s.Evaluations())
	assert.Empty(t, s.Expected)
	assert.False(t, e.Started())

	assert.Nil(t, e.Finish())
	assert.Equal(t, 2, e.Session().Missed)
}
