package input

import (
	"context"
	"sync"
	"time"

	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/bep/debounce"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// Action is a non musical key.
type Action int

const (
	Quit Action = iota
	TogglePlay
	Restart
	SeekBack
	SeekForward
)

// DefaultRelease is how long after the last auto repeat a held key is
// considered released. Terminals report no key up events.
const DefaultRelease = 150 * time.Millisecond

var actions = map[keyboard.Key]Action{
	keyboard.KeyEsc:        Quit,
	keyboard.KeyCtrlC:      Quit,
	keyboard.KeySpace:      TogglePlay,
	keyboard.KeyEnter:      Restart,
	keyboard.KeyArrowLeft:  SeekBack,
	keyboard.KeyArrowRight: SeekForward,
}

// Keyboard plays notes from the computer keyboard.
type Keyboard struct {
	KeyPitch func(rune) (string, bool)
	Release  time.Duration
	Logger   *log.Logger

	now func() time.Time

	mu       sync.Mutex
	held     map[string]bool
	releases map[string]func(func())
}

func NewKeyboard(keyPitch func(rune) (string, bool), logger *log.Logger) *Keyboard {
	if nil == logger {
		logger = log.Nop()
	}
	return &Keyboard{
		KeyPitch: keyPitch,
		Release:  DefaultRelease,
		Logger:   logger,
		now:      time.Now,
		held:     map[string]bool{},
		releases: map[string]func(func()){},
	}
}

// Listen reads the terminal until ctx is done or a read fails. Both callbacks
// may be called from more than one goroutine.
func (k *Keyboard) Listen(ctx context.Context, onEvent func(Event), onAction func(Action)) error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			k.Logger.Warnf("unable to close keyboard: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if nil != key.Err {
				return errors.Wrap(key.Err, "unable to read keyboard")
			}
			k.handle(key, onEvent, onAction)
		}
	}
}

func (k *Keyboard) handle(key keyboard.KeyEvent, onEvent func(Event), onAction func(Action)) {
	if action, ok := actions[key.Key]; ok && key.Rune == 0 {
		onAction(action)
		return
	}
	pitch, ok := k.KeyPitch(key.Rune)
	if !ok {
		k.Logger.Debugf("[KEYBOARD] unmapped key %q", key.Rune)
		return
	}

	k.mu.Lock()
	release, found := k.releases[pitch]
	if !found {
		release = debounce.New(k.Release)
		k.releases[pitch] = release
	}
	repeat := k.held[pitch]
	k.held[pitch] = true
	k.mu.Unlock()

	if !repeat {
		onEvent(Event{Kind: NoteOn, Pitch: pitch, Velocity: DefaultVelocity, At: k.now()})
	}
	release(func() {
		k.mu.Lock()
		delete(k.held, pitch)
		k.mu.Unlock()
		onEvent(Event{Kind: NoteOff, Pitch: pitch, At: k.now()})
	})
}
