package timeline

import (
	"time"
)

const (
	DragSensitivity = 1.2
	EaseDuration    = 300 * time.Millisecond
)

// Transport is the part of the audio engine the timeline drives.
type Transport interface {
	Play()
	Pause()
}

type nopTransport struct{}

func (nopTransport) Play()  {}
func (nopTransport) Pause() {}

// Update is published to observers whenever the offset or mode changes.
// Transition is zero for direct manipulation and EaseDuration after a snap;
// animating it is left to the presentation layer.
type Update struct {
	State      State         `json:"state"`
	Percentage float64       `json:"percentage"`
	Transition time.Duration `json:"transition"`
	Completed  bool          `json:"completed"`
}

// Controller arbitrates between the clock and the user for control of the
// offset. It is not safe for concurrent use; every call must come from the
// same goroutine.
type Controller struct {
	state     State
	clock     *Clock
	resolver  *Resolver
	transport Transport
	observers []func(Update)

	isDragging            bool
	isProgressBarDragging bool
	dragStartPointerX     float64
	dragStartOffsetPx     float64
}

func NewController(resolver *Resolver, clock *Clock, transport Transport) *Controller {
	if nil == transport {
		transport = nopTransport{}
	}
	if nil == clock {
		clock = NewClock(nil)
	}
	return &Controller{
		clock:     clock,
		resolver:  resolver,
		transport: transport,
	}
}

func (c *Controller) Subscribe(observer func(Update)) {
	c.observers = append(c.observers, observer)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Width() float64 {
	return c.resolver.Width()
}

func (c *Controller) Dragging() bool {
	return c.isDragging || c.isProgressBarDragging
}

func (c *Controller) PercentageToOffset(percentage float64) float64 {
	return clamp(percentage, 0, 100) / 100 * c.resolver.Width()
}

func (c *Controller) OffsetToPercentage(offsetPx float64) float64 {
	width := c.resolver.Width()
	if width <= 0 {
		return 0
	}
	return clamp(offsetPx, 0, width) / width * 100
}

func (c *Controller) publish(transition time.Duration, completed bool) {
	u := Update{
		State:      c.state,
		Percentage: c.OffsetToPercentage(c.state.OffsetPx),
		Transition: transition,
		Completed:  completed,
	}
	for _, o := range c.observers {
		o(u)
	}
}

// Play resumes automatic scrolling. A song that has reached its end starts over.
func (c *Controller) Play() {
	if c.Dragging() || c.clock.Playing() {
		return
	}
	if c.state.OffsetPx >= c.resolver.Width() {
		c.state.OffsetPx = 0
	}
	c.clock.Play(c.state.OffsetPx)
	c.state.IsPlaying = true
	c.state.Mode = Automatic
	c.transport.Play()
	c.publish(0, false)
}

func (c *Controller) Pause() {
	if !c.pauseClock() {
		return
	}
	c.publish(0, false)
}

// pauseClock stops the clock without publishing. It reports whether it was running.
func (c *Controller) pauseClock() bool {
	if !c.clock.Playing() {
		return false
	}
	c.state.OffsetPx = clamp(c.clock.Pause(), 0, c.resolver.Width())
	c.state.IsPlaying = false
	c.transport.Pause()
	return true
}

// Tick advances the offset from the clock. It does nothing while a drag owns the offset.
func (c *Controller) Tick() {
	if c.Dragging() || !c.clock.Playing() {
		return
	}
	width := c.resolver.Width()
	offset := c.clock.Offset()
	if offset >= width {
		c.clock.Pause()
		c.state.OffsetPx = width
		c.state.IsPlaying = false
		c.transport.Pause()
		c.publish(0, true)
		return
	}
	c.state.OffsetPx = clamp(offset, 0, width)
	c.publish(0, false)
}

func (c *Controller) OnDragStart(pointerX float64) {
	if c.isProgressBarDragging {
		return
	}
	c.pauseClock()
	c.isDragging = true
	c.state.Mode = ManualDrag
	c.dragStartPointerX = pointerX
	c.dragStartOffsetPx = c.state.OffsetPx
	c.publish(0, false)
}

// OnDragMove follows the pointer with no easing. Moving right reveals earlier content.
func (c *Controller) OnDragMove(pointerX float64) {
	if !c.isDragging || c.isProgressBarDragging {
		return
	}
	delta := (pointerX - c.dragStartPointerX) * DragSensitivity
	c.state.OffsetPx = clamp(c.dragStartOffsetPx-delta, 0, c.resolver.Width())
	c.publish(0, false)
}

// OnDragEnd snaps to the nearest note and leaves the clock stopped.
func (c *Controller) OnDragEnd() {
	if !c.isDragging || c.isProgressBarDragging {
		return
	}
	c.isDragging = false
	c.settle(c.state.OffsetPx)
}

func (c *Controller) settle(targetPx float64) {
	c.state.OffsetPx = c.resolver.AttachToNearestNote(targetPx)
	c.state.Mode = Automatic
	c.state.IsPlaying = false
	c.publish(EaseDuration, false)
}

func (c *Controller) OnProgressBarSeek(percentage float64) {
	if c.isDragging {
		return
	}
	c.pauseClock()
	c.settle(c.PercentageToOffset(percentage))
}

func (c *Controller) OnProgressBarDragStart() {
	if c.isDragging || c.isProgressBarDragging {
		return
	}
	c.pauseClock()
	c.isProgressBarDragging = true
	c.state.Mode = ProgressBarDrag
	c.publish(0, false)
}

// OnProgressBarDragMove tracks the bar live without snapping.
func (c *Controller) OnProgressBarDragMove(percentage float64) {
	if c.isDragging {
		return
	}
	if !c.isProgressBarDragging {
		c.OnProgressBarDragStart()
	}
	c.state.OffsetPx = c.PercentageToOffset(percentage)
	c.publish(0, false)
}

func (c *Controller) OnProgressBarDragEnd(percentage float64) {
	if !c.isProgressBarDragging {
		return
	}
	c.isProgressBarDragging = false
	c.settle(c.PercentageToOffset(percentage))
}

// Cancel ends whichever gesture is in progress and snaps where it stopped.
// Used when the input surface goes away before the pointer is released.
func (c *Controller) Cancel() {
	if !c.Dragging() {
		return
	}
	c.isDragging = false
	c.isProgressBarDragging = false
	c.settle(c.state.OffsetPx)
}
