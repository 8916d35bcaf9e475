package config

import (
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	PlayCommand  = "play"
	ServeCommand = "serve"
)

type Config struct {
	Command string

	File        string
	Tempo       float64 // BPM, zero keeps the score's tempo
	Judgement   game.Judgement
	Lookahead   time.Duration
	FramePeriod time.Duration
	LogLevel    log.Level
	Database    string
	NoHistory   bool

	Audio    bool
	Backing  string
	Volume   float64
	MidiPort string
	Keys     string
	Octave   int

	Listen         string
	AllowedOrigins []string
}

// Application holds the flag definitions. A fresh one is needed per parse.
type Application struct {
	app *kingpin.Application
	cfg Config

	logLevel  string
	playFile  string
	serveFile string
}

func New() *Application {
	a := &Application{}
	app := kingpin.New("tutor", "Learn to read and play sheet music on a scrolling staff.")
	app.Version("0.1.0")
	app.HelpFlag.Short('h')

	app.Flag("tempo", "Override the score tempo in BPM").Short('t').Default("0").Float64Var(&a.cfg.Tempo)
	app.Flag("perfect", "Largest timing error judged perfect").Default("50ms").DurationVar(&a.cfg.Judgement.Perfect)
	app.Flag("late", "Largest timing error that still counts").Default("200ms").DurationVar(&a.cfg.Judgement.Late)
	app.Flag("lookahead", "How far ahead upcoming notes are listed").Default("2s").DurationVar(&a.cfg.Lookahead)
	app.Flag("frame-period", "Timeline update period").Default("16ms").Short('p').DurationVar(&a.cfg.FramePeriod)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&a.logLevel, log.Levels...)
	app.Flag("db", "Session history database").Default("./scores.db").StringVar(&a.cfg.Database)
	app.Flag("no-history", "Do not record finished sessions").BoolVar(&a.cfg.NoHistory)
	app.Flag("audio", "Play sound").Default("true").BoolVar(&a.cfg.Audio)
	app.Flag("backing", "Backing track (mp3 or ogg) started with playback").ExistingFileVar(&a.cfg.Backing)
	app.Flag("volume", "Volume change in powers of two").Default("0").Float64Var(&a.cfg.Volume)
	app.Flag("midi-port", "MIDI input port name or number, empty to disable").Short('m').StringVar(&a.cfg.MidiPort)

	play := app.Command(PlayCommand, "Practice in the terminal").Default()
	play.Arg("score", "Score file (.yml or .mid)").Required().ExistingFileVar(&a.playFile)
	play.Flag("keys", "Keyboard keys from C upwards").Default("awsedftgyhujk").Short('k').StringVar(&a.cfg.Keys)
	play.Flag("octave", "Octave of the first keyboard key").Default("4").Short('o').IntVar(&a.cfg.Octave)

	serve := app.Command(ServeCommand, "Serve the timeline over HTTP")
	serve.Arg("score", "Score file (.yml or .mid)").Required().ExistingFileVar(&a.serveFile)
	serve.Flag("listen", "Listen address").Default(":8080").Short('l').StringVar(&a.cfg.Listen)
	serve.Flag("allowed-origin", "CORS allowed origin, repeatable").Default("*").StringsVar(&a.cfg.AllowedOrigins)

	a.app = app
	return a
}

func (a *Application) Parse(args []string) (*Config, error) {
	command, err := a.app.Parse(args)
	if nil != err {
		return nil, err
	}

	cfg := a.cfg
	cfg.Command = command
	cfg.LogLevel = log.LevelFromString(a.logLevel)
	switch command {
	case PlayCommand:
		cfg.File = a.playFile
	case ServeCommand:
		cfg.File = a.serveFile
	}

	if cfg.Tempo < 0 {
		return nil, errors.Errorf("invalid tempo %v", cfg.Tempo)
	}
	if cfg.Judgement.Perfect <= 0 || cfg.Judgement.Late < cfg.Judgement.Perfect {
		return nil, errors.Errorf("invalid judgement thresholds %v and %v", cfg.Judgement.Perfect, cfg.Judgement.Late)
	}
	if cfg.FramePeriod <= 0 {
		return nil, errors.Errorf("invalid frame period %v", cfg.FramePeriod)
	}
	return &cfg, nil
}

func (a *Application) Usage(args []string) {
	a.app.Usage(args)
}

// KeyPitch maps a keyboard key to the pitch it plays, counting semitones from C.
func (c *Config) KeyPitch(r rune) (string, bool) {
	for i, k := range []rune(c.Keys) {
		if k == r {
			key := (c.Octave+1)*12 + i
			if key < 0 || key > 127 {
				return "", false
			}
			return game.MidiToName(uint8(key)), true
		}
	}
	return "", false
}
