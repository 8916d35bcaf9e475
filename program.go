package main

import (
	"context"
	"time"

	"git.lost.host/meutraa/tutor/internal/audio"
	"git.lost.host/meutraa/tutor/internal/config"
	"git.lost.host/meutraa/tutor/internal/engine"
	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/input"
	"git.lost.host/meutraa/tutor/internal/log"
	"git.lost.host/meutraa/tutor/internal/parser"
	"git.lost.host/meutraa/tutor/internal/render"
	"git.lost.host/meutraa/tutor/internal/score"
	"git.lost.host/meutraa/tutor/internal/server"
	"git.lost.host/meutraa/tutor/internal/theme"
)

type Program struct {
	Config *config.Config
	Logger *log.Logger
	Parser parser.Parser
	Theme  theme.Theme
	Store  score.Store // nil when history is disabled
	Audio  audio.Engine
	Engine *engine.Engine

	score *game.Score
	now   func() time.Time
}

func NewProgram(cfg *config.Config, logger *log.Logger) *Program {
	return &Program{
		Config: cfg,
		Logger: logger,
		Parser: parser.ForFile(cfg.File, logger),
		Theme:  &theme.DefaultTheme{},
		now:    time.Now,
	}
}

// Init loads the score and opens every collaborator the engine needs.
func (p *Program) Init() error {
	s, err := p.Parser.Parse(p.Config.File)
	if nil != err {
		return err
	}
	p.score = s
	p.Logger.Infof("loaded %q, %d notes at %v BPM", s.Title, s.NoteCount(), s.Tempo)

	if !p.Config.NoHistory {
		store := score.NewDefaultStore(p.Config.Database, p.Logger)
		if err := store.Init(); nil != err {
			return err
		}
		p.Store = store
		p.logBest()
	}

	p.Audio = audio.Nop{}
	if p.Config.Audio {
		a, err := audio.NewBeepEngine(p.Config.Backing, p.Config.Volume, p.Logger)
		if nil != err {
			p.Logger.Warnf("continuing without sound: %v", err)
		} else {
			p.Audio = a
		}
	}

	p.Engine = engine.New(engine.Options{
		Score:       s,
		Theme:       p.Theme,
		Audio:       p.Audio,
		Store:       p.Store,
		Logger:      p.Logger,
		Now:         p.now,
		FramePeriod: p.Config.FramePeriod,
		Evaluator: score.EvaluatorOptions{
			Judgement: p.Config.Judgement,
			Tempo:     p.Config.Tempo,
			Lookahead: p.Config.Lookahead,
		},
	})
	return nil
}

func (p *Program) Deinit() {
	if nil != p.Engine {
		p.Engine.Close()
	}
	if nil != p.Audio {
		p.Audio.Close()
	}
	if nil != p.Store {
		p.Store.Deinit()
	}
}

func (p *Program) logBest() {
	histories, err := p.Store.Load(p.score)
	if nil != err {
		p.Logger.Warnf("unable to load history: %v", err)
		return
	}
	if best, ok := score.Best(histories); ok {
		p.Logger.Infof("played %d times, best %.0f points on %s",
			len(histories), best.Points, best.PlayedAt.Format(time.RFC822))
	}
}

// Play practises in the terminal until the player quits.
func (p *Program) Play(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := &render.DefaultRenderer{Theme: p.Theme}
	if err := r.Init(); nil != err {
		return err
	}
	defer r.Deinit()

	rendered := make(chan struct{})
	go func() {
		r.RenderLoop(ctx, p.Engine.Frames(), p.Config.FramePeriod)
		close(rendered)
	}()
	defer func() { <-rendered }()
	defer cancel()

	stop := p.listenMIDI()
	defer stop()

	kb := input.NewKeyboard(p.Config.KeyPitch, p.Logger)
	return kb.Listen(ctx, p.handleEvent, func(a input.Action) {
		if p.handleAction(a) {
			cancel()
		}
	})
}

// Serve exposes the engine over HTTP until ctx is done.
func (p *Program) Serve(ctx context.Context) error {
	stop := p.listenMIDI()
	defer stop()

	srv := server.New(p.Engine, p.Store, p.Logger, p.Config.AllowedOrigins)
	return srv.ListenAndServe(ctx, p.Config.Listen)
}

// listenMIDI is best effort, the computer keyboard still works without it.
func (p *Program) listenMIDI() (stop func()) {
	if p.Config.MidiPort == "" {
		return func() {}
	}
	stop, err := input.ListenMIDI(p.Config.MidiPort, p.now, p.handleEvent)
	if nil != err {
		p.Logger.Warnf("%v, available ports: %v", err, input.Ports())
		return func() {}
	}
	p.Logger.Infof("listening to midi port %s", p.Config.MidiPort)
	return stop
}

func (p *Program) handleEvent(e input.Event) {
	switch e.Kind {
	case input.NoteOn:
		r := p.Engine.Press(e.Pitch, e.Velocity, e.At)
		p.Logger.Debugf("[INPUT] %s %s %v", e.Pitch, r.Accuracy, r.TimingError)
	case input.NoteOff:
		p.Engine.Release(e.Pitch)
	case input.Control:
		if e.Controller == input.Sustain {
			p.Engine.Sustain(e.Value >= 64)
			return
		}
		p.Logger.Debugf("[INPUT] control %d = %d", e.Controller, e.Value)
	}
}

// handleAction reports whether the program should quit.
func (p *Program) handleAction(a input.Action) bool {
	switch a {
	case input.Quit:
		return true
	case input.TogglePlay:
		p.Engine.TogglePlay()
	case input.Restart:
		p.Engine.StartGame()
	case input.SeekBack:
		p.Engine.SeekBy(-engine.SeekStep)
	case input.SeekForward:
		p.Engine.SeekBy(engine.SeekStep)
	}
	return false
}
