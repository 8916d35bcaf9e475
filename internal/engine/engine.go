// Package engine runs the timeline and the evaluator on a single goroutine.
package engine

import (
	"context"
	"time"

	"git.lost.host/meutraa/tutor/internal/audio"
	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/layout"
	"git.lost.host/meutraa/tutor/internal/log"
	"git.lost.host/meutraa/tutor/internal/score"
	"git.lost.host/meutraa/tutor/internal/theme"
	"git.lost.host/meutraa/tutor/internal/timeline"
)

const DefaultFramePeriod = 16 * time.Millisecond

// SeekStep is how far SeekBack and SeekForward move, in percent.
const SeekStep = 5.0

// Frame is a read only snapshot for presentation.
type Frame struct {
	State      timeline.State `json:"state"`
	Percentage float64        `json:"percentage"`
	Transition time.Duration  `json:"transition"`
	Completed  bool           `json:"completed"`

	GameStarted bool           `json:"gameStarted"`
	GamePaused  bool           `json:"gamePaused"`
	GameTime    time.Duration  `json:"gameTime"`
	Session     *score.Session `json:"session"`
	Stats       score.Stats    `json:"stats"`
	Last        *score.Result  `json:"last,omitempty"`

	Measure  int           `json:"measure"` // -1 outside the song
	Duration time.Duration `json:"duration"`

	Layout *layout.Layout `json:"-"`
	Score  *game.Score    `json:"-"`
}

type Options struct {
	Score       *game.Score
	Theme       theme.Theme
	Audio       audio.Engine
	Store       score.Store
	Logger      *log.Logger
	Now         func() time.Time
	FramePeriod time.Duration
	Evaluator   score.EvaluatorOptions
}

// Engine serialises every input onto one goroutine. The exported methods are
// safe for concurrent use and block until the input has been handled.
type Engine struct {
	score      *game.Score
	layout     *layout.Layout
	controller *timeline.Controller
	evaluator  *score.Evaluator
	audio      audio.Engine
	store      score.Store
	logger     *log.Logger
	now        func() time.Time

	update timeline.Update
	last   *score.Result
	saved  bool

	sustain   bool
	sustained map[string]bool

	commands chan func()
	frames   chan Frame
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates an Engine and starts its loop.
func New(opts Options) *Engine {
	if nil == opts.Theme {
		opts.Theme = &theme.DefaultTheme{}
	}
	if nil == opts.Audio {
		opts.Audio = audio.Nop{}
	}
	if nil == opts.Logger {
		opts.Logger = log.Nop()
	}
	if nil == opts.Now {
		opts.Now = time.Now
	}
	if opts.FramePeriod <= 0 {
		opts.FramePeriod = DefaultFramePeriod
	}

	l := layout.Compute(opts.Score, opts.Theme)
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		score:  opts.Score,
		layout: l,
		audio:  opts.Audio,
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,

		sustained: map[string]bool{},
		commands:  make(chan func()),
		frames:    make(chan Frame, 1),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	evalOpts := opts.Evaluator
	onIncorrect := evalOpts.OnIncorrectNote
	evalOpts.OnIncorrectNote = func(r score.Result) {
		e.logger.Debugf("[ENGINE] incorrect %s: %s", r.Pitch, r.Feedback)
		if nil != onIncorrect {
			onIncorrect(r)
		}
	}
	e.evaluator = score.NewEvaluator(opts.Score, evalOpts)

	e.controller = timeline.NewController(
		timeline.NewResolver(l.Notes, l.Width),
		timeline.NewClock(opts.Now),
		transport{e},
	)
	e.controller.Subscribe(e.onUpdate)
	e.update = timeline.Update{State: e.controller.State()}

	go e.run(opts.FramePeriod)
	return e
}

// Frames delivers a frame after every change. A reader that falls behind
// only sees the latest one.
func (e *Engine) Frames() <-chan Frame {
	return e.frames
}

func (e *Engine) Layout() *layout.Layout {
	return e.layout
}

func (e *Engine) Score() *game.Score {
	return e.score
}

func (e *Engine) run(period time.Duration) {
	defer close(e.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case f := <-e.commands:
			f()
		case <-ticker.C:
			e.tick()
		case <-e.ctx.Done():
			return
		}
	}
}

// Close stops the loop and waits for it to exit.
func (e *Engine) Close() {
	e.cancel()
	<-e.done
}

// Do runs f on the engine goroutine and waits for it. It reports false once
// the engine is closed. f must not call back into the Engine.
func (e *Engine) Do(f func()) bool {
	finished := make(chan struct{})
	select {
	case e.commands <- func() { f(); close(finished) }:
	case <-e.ctx.Done():
		return false
	}
	select {
	case <-finished:
		return true
	case <-e.done:
		return false
	}
}

func trySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

func (e *Engine) frame() Frame {
	session := e.evaluator.Session()
	return Frame{
		State:       e.update.State,
		Percentage:  e.update.Percentage,
		Transition:  e.update.Transition,
		Completed:   e.update.Completed,
		GameStarted: e.evaluator.Started(),
		GamePaused:  e.evaluator.Paused(),
		GameTime:    e.evaluator.GameTime(e.now()),
		Session:     session,
		Stats:       session.Stats(),
		Last:        e.last,
		Measure:     e.layout.MeasureAt(e.update.State.OffsetPx),
		Duration:    e.evaluator.Duration(),
		Layout:      e.layout,
		Score:       e.score,
	}
}

// publish replaces an unread frame with the current one.
func (e *Engine) publish() {
	f := e.frame()
	if trySend(e.frames, f) {
		return
	}
	select {
	case <-e.frames:
	default:
	}
	trySend(e.frames, f)
}

func (e *Engine) onUpdate(u timeline.Update) {
	e.update = u
	if u.Completed {
		e.logger.Infof("song complete")
		e.finish()
	}
	e.publish()
}

func (e *Engine) tick() {
	e.controller.Tick()
	if !e.evaluator.Active() {
		return
	}
	if missed := e.evaluator.Sweep(e.now()); len(missed) > 0 {
		for _, n := range missed {
			e.logger.Debugf("[ENGINE] missed %s", n.Pitch)
		}
		e.publish()
	}
	if e.evaluator.Completed() {
		e.finish()
		e.publish()
	}
}

// finish ends the game and records it once.
func (e *Engine) finish() {
	if !e.evaluator.Started() || e.saved {
		return
	}
	e.evaluator.Sweep(e.now())
	for _, n := range e.evaluator.Finish() {
		e.logger.Debugf("[ENGINE] never played %s", n.Pitch)
	}
	e.saved = true
	if nil == e.store || nil == e.score {
		return
	}
	session := e.evaluator.Session()
	if session.Evaluations() == 0 {
		return
	}
	if err := e.store.Save(e.score, session); nil != err {
		e.logger.Errorf("unable to save session: %v", err)
		return
	}
	e.logger.Infof("saved session %s, %.0f points", session.ID, session.Points)
}

// syncGame keeps game time running only while the timeline plays.
func (e *Engine) syncGame() {
	now := e.now()
	playing := e.controller.State().IsPlaying
	switch {
	case playing && !e.evaluator.Started():
		e.evaluator.Start(now)
		e.saved = false
		e.last = nil
	case playing:
		e.evaluator.Resume(now)
	default:
		e.evaluator.Pause(now)
	}
}

// transport starts the backing track where the timeline is.
type transport struct {
	e *Engine
}

func (t transport) Play() {
	t.e.audio.Seek(timeline.OffsetToDuration(t.e.controller.State().OffsetPx))
	t.e.audio.Play()
}

func (t transport) Pause() {
	t.e.audio.Pause()
}
