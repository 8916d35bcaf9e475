package engine

import (
	"time"

	"git.lost.host/meutraa/tutor/internal/score"
)

func (e *Engine) Snapshot() (f Frame) {
	e.Do(func() { f = e.frame() })
	return f
}

func (e *Engine) Play() {
	e.Do(func() {
		e.controller.Play()
		e.syncGame()
	})
}

func (e *Engine) Pause() {
	e.Do(func() {
		e.controller.Pause()
		e.syncGame()
	})
}

func (e *Engine) TogglePlay() {
	e.Do(func() {
		if e.controller.State().IsPlaying {
			e.controller.Pause()
		} else {
			e.controller.Play()
		}
		e.syncGame()
	})
}

func (e *Engine) DragStart(pointerX float64) {
	e.Do(func() {
		e.controller.OnDragStart(pointerX)
		e.syncGame()
	})
}

func (e *Engine) DragMove(pointerX float64) {
	e.Do(func() { e.controller.OnDragMove(pointerX) })
}

// DragEnd must reach the engine wherever the pointer was released.
func (e *Engine) DragEnd() {
	e.Do(func() { e.controller.OnDragEnd() })
}

func (e *Engine) Seek(percentage float64) {
	e.Do(func() {
		e.controller.OnProgressBarSeek(percentage)
		e.syncGame()
	})
}

// SeekBy moves relative to the current position.
func (e *Engine) SeekBy(delta float64) {
	e.Do(func() {
		current := e.controller.OffsetToPercentage(e.controller.State().OffsetPx)
		e.controller.OnProgressBarSeek(current + delta)
		e.syncGame()
	})
}

func (e *Engine) ProgressDragStart() {
	e.Do(func() {
		e.controller.OnProgressBarDragStart()
		e.syncGame()
	})
}

func (e *Engine) ProgressDragMove(percentage float64) {
	e.Do(func() {
		e.controller.OnProgressBarDragMove(percentage)
		e.syncGame()
	})
}

func (e *Engine) ProgressDragEnd(percentage float64) {
	e.Do(func() { e.controller.OnProgressBarDragEnd(percentage) })
}

// CancelGesture releases a drag whose input surface went away.
func (e *Engine) CancelGesture() {
	e.Do(func() { e.controller.Cancel() })
}

// Press sounds the note and judges it. A zero at means now.
func (e *Engine) Press(pitch string, velocity uint8, at time.Time) (r score.Result) {
	e.Do(func() {
		if at.IsZero() {
			at = e.now()
		}
		delete(e.sustained, pitch)
		e.audio.PlayNote(pitch, velocity)
		r = e.evaluator.EvaluatePress(pitch, at)
		if r.Feedback != score.FeedbackNotActive {
			e.last = &r
		}
		if e.evaluator.Completed() {
			e.finish()
		}
		e.publish()
	})
	return r
}

// Release lifts a key. While the sustain pedal is down the note keeps sounding.
func (e *Engine) Release(pitch string) {
	e.Do(func() {
		if e.sustain {
			e.sustained[pitch] = true
		} else {
			e.audio.StopNote(pitch)
		}
		e.evaluator.Release(pitch)
		e.publish()
	})
}

// Sustain holds or lets go of released notes.
func (e *Engine) Sustain(down bool) {
	e.Do(func() {
		e.sustain = down
		if down {
			return
		}
		for pitch := range e.sustained {
			e.audio.StopNote(pitch)
			delete(e.sustained, pitch)
		}
	})
}

// StartGame starts a new session from the beginning of the song.
func (e *Engine) StartGame() {
	e.Do(func() {
		e.controller.Cancel()
		e.controller.Pause()
		e.controller.OnProgressBarSeek(0)
		e.evaluator.Stop()
		e.evaluator.Start(e.now())
		e.saved = false
		e.last = nil
		e.controller.Play()
		e.syncGame()
		e.publish()
	})
}

// ResetGame abandons the session and rewinds without playing.
func (e *Engine) ResetGame() {
	e.Do(func() {
		e.controller.Cancel()
		e.controller.Pause()
		e.controller.OnProgressBarSeek(0)
		e.evaluator.Reset()
		e.saved = false
		e.last = nil
		e.publish()
	})
}
