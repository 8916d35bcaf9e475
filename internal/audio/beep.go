package audio

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/pkg/errors"
)

const defaultSampleRate = beep.SampleRate(44100)

// BeepEngine plays sine voices and an optional backing track through the speaker.
type BeepEngine struct {
	logger     *log.Logger
	sampleRate beep.SampleRate

	mixer   *beep.Mixer
	backing *beep.Ctrl
	closer  beep.StreamSeekCloser
	voices  map[string]*voice
}

// NewBeepEngine opens the speaker. backing may be empty, otherwise it is an
// mp3 or ogg file that plays and pauses with the timeline.
func NewBeepEngine(backing string, volume float64, logger *log.Logger) (*BeepEngine, error) {
	if nil == logger {
		logger = log.Nop()
	}
	e := &BeepEngine{
		logger:     logger,
		sampleRate: defaultSampleRate,
		mixer:      &beep.Mixer{},
		voices:     map[string]*voice{},
	}

	if backing != "" {
		s, format, err := decode(backing)
		if nil != err {
			return nil, err
		}
		e.closer = s
		e.sampleRate = format.SampleRate
		e.backing = &beep.Ctrl{Streamer: s, Paused: true}
		e.mixer.Add(e.backing)
	}

	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/60)); nil != err {
		e.closeBacking()
		return nil, errors.Wrap(err, "unable to open speaker")
	}
	speaker.Play(&effects.Volume{Streamer: e.mixer, Base: 2, Volume: volume})
	return e, nil
}

func decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, errors.Wrapf(err, "unable to open %s", file)
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, errors.Errorf("unsupported audio file %s", file)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "unable to decode %s", file)
	}
	return streamer, format, nil
}

func (e *BeepEngine) Play() {
	if nil == e.backing {
		return
	}
	speaker.Lock()
	e.backing.Paused = false
	speaker.Unlock()
}

func (e *BeepEngine) Pause() {
	if nil == e.backing {
		return
	}
	speaker.Lock()
	e.backing.Paused = true
	speaker.Unlock()
}

func (e *BeepEngine) Seek(at time.Duration) {
	if nil == e.closer {
		return
	}
	speaker.Lock()
	err := e.closer.Seek(position(e.sampleRate, at, e.closer.Len()))
	speaker.Unlock()
	if nil != err {
		e.logger.Warnf("unable to seek backing track: %v", err)
	}
}

// position is the sample at time at, clamped to a track of length samples.
func position(sr beep.SampleRate, at time.Duration, length int) int {
	p := sr.N(at)
	if p < 0 {
		return 0
	}
	if p > length {
		return length
	}
	return p
}

func (e *BeepEngine) PlayNote(pitch string, velocity uint8) {
	key, err := game.NameToMidi(pitch)
	if nil != err {
		e.logger.Warnf("unable to play note: %v", err)
		return
	}
	v := newVoice(e.sampleRate, key, velocity)
	speaker.Lock()
	if old, ok := e.voices[pitch]; ok {
		old.released = true
	}
	e.voices[pitch] = v
	e.mixer.Add(v)
	speaker.Unlock()
}

func (e *BeepEngine) StopNote(pitch string) {
	speaker.Lock()
	if v, ok := e.voices[pitch]; ok {
		v.released = true
		delete(e.voices, pitch)
	}
	speaker.Unlock()
}

func (e *BeepEngine) closeBacking() {
	if nil != e.closer {
		if err := e.closer.Close(); nil != err {
			e.logger.Warnf("unable to close backing track: %v", err)
		}
		e.closer = nil
	}
}

func (e *BeepEngine) Close() {
	speaker.Clear()
	e.closeBacking()
}
