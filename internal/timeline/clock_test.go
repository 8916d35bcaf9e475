package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestClockScrollsSixtyPixelsPerSecond(t *testing.T) {
	fake := newFakeClock()
	c := NewClock(fake.Now)

	c.Play(100)
	assert.True(t, c.Playing())
	assert.Equal(t, 100.0, c.Offset())

	fake.Advance(time.Second)
	assert.InDelta(t, 160.0, c.Offset(), 1e-9)

	fake.Advance(500 * time.Millisecond)
	assert.InDelta(t, 190.0, c.Offset(), 1e-9)
}

func TestClockDoesNotDrift(t *testing.T) {
	fake := newFakeClock()
	c := NewClock(fake.Now)
	c.Play(0)
	for i := 0; i < 6000; i++ {
		fake.Advance(time.Second / 600)
		c.Offset()
	}
	assert.InDelta(t, 600.0, c.Offset(), 1e-6)
}

func TestClockPauseHoldsOffset(t *testing.T) {
	fake := newFakeClock()
	c := NewClock(fake.Now)
	c.Play(0)
	fake.Advance(2 * time.Second)
	assert.InDelta(t, 120.0, c.Pause(), 1e-9)
	assert.False(t, c.Playing())

	fake.Advance(time.Hour)
	assert.InDelta(t, 120.0, c.Offset(), 1e-9)
}

func TestOffsetToDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), OffsetToDuration(0))
	assert.Equal(t, 2*time.Second, OffsetToDuration(120))
	assert.Equal(t, 4400*time.Millisecond, OffsetToDuration(264))
}
