package editor

import (
	"context"
	"errors"
	"time"
)

const DefaultRefreshRate = 60

var ErrLoopStopped = errors.New("editor loop stopped")

// Loop is the single goroutine that owns every editor session. Work from
// other goroutines is posted to it, and it fires frame callbacks on a
// refresh ticker. Loop implements FrameClock; RequestFrame must only be
// called from work running on the loop.
type Loop struct {
	interval time.Duration
	work     chan func()
	frames   []func()
	done     chan struct{}
}

func NewLoop(refreshHz int) *Loop {
	if refreshHz <= 0 {
		refreshHz = DefaultRefreshRate
	}
	return &Loop{
		interval: time.Second / time.Duration(refreshHz),
		work:     make(chan func()),
		done:     make(chan struct{}),
	}
}

func (l *Loop) RequestFrame(fn func()) {
	l.frames = append(l.frames, fn)
}

// Run processes posted work and refresh ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.work:
			fn()
		case <-ticker.C:
			batch := l.frames
			l.frames = nil
			for _, fn := range batch {
				fn()
			}
		}
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.work <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}
