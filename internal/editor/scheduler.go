package editor

// FrameClock delivers callbacks on the next display refresh tick.
type FrameClock interface {
	RequestFrame(fn func())
}

type schedulerState int

const (
	idle schedulerState = iota
	pending
)

// RenderScheduler coalesces change notifications so that at most one render
// runs per refresh tick. It is not safe for concurrent use; drive it from the
// goroutine that owns the session.
type RenderScheduler struct {
	clock  FrameClock
	render func()
	state  schedulerState
}

func NewRenderScheduler(clock FrameClock, render func()) *RenderScheduler {
	return &RenderScheduler{clock: clock, render: render}
}

// Schedule requests a render on the next tick. Calls made while a render is
// already pending are absorbed.
func (s *RenderScheduler) Schedule() {
	if s.state == pending {
		return
	}
	s.state = pending
	s.clock.RequestFrame(s.onFrame)
}

func (s *RenderScheduler) Pending() bool {
	return s.state == pending
}

func (s *RenderScheduler) onFrame() {
	s.render()
	s.state = idle
}

// ManualClock queues frame requests until Tick is called.
type ManualClock struct {
	queued []func()
}

func (c *ManualClock) RequestFrame(fn func()) {
	c.queued = append(c.queued, fn)
}

// Tick runs every callback requested before the tick began and returns how
// many ran.
func (c *ManualClock) Tick() int {
	batch := c.queued
	c.queued = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

func (c *ManualClock) Queued() int {
	return len(c.queued)
}
