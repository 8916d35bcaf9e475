package timeline

import (
	"time"
)

// PixelsPerSecond is the scroll speed. It does not follow the tempo.
const PixelsPerSecond = 60.0

// OffsetToDuration is how long playback takes to scroll to offsetPx.
func OffsetToDuration(offsetPx float64) time.Duration {
	return time.Duration(offsetPx / PixelsPerSecond * float64(time.Second))
}

// Clock turns wall clock time into a scroll offset while playing.
type Clock struct {
	now func() time.Time

	playing   bool
	startedAt time.Time
	startPx   float64
}

func NewClock(now func() time.Time) *Clock {
	if nil == now {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Playing() bool {
	return c.playing
}

// Play starts the clock from offsetPx. Calling it while playing restarts from offsetPx.
func (c *Clock) Play(offsetPx float64) {
	c.playing = true
	c.startedAt = c.now()
	c.startPx = offsetPx
}

// Pause stops the clock and returns the offset it had reached.
func (c *Clock) Pause() float64 {
	offset := c.Offset()
	c.playing = false
	c.startPx = offset
	return offset
}

// Offset is recomputed from the elapsed time on every call so rounding never accumulates.
func (c *Clock) Offset() float64 {
	if !c.playing {
		return c.startPx
	}
	return c.startPx + c.now().Sub(c.startedAt).Seconds()*PixelsPerSecond
}
