package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, hz int) (*Loop, context.CancelFunc) {
	t.Helper()
	loop := NewLoop(hz)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop, cancel
}

func TestLoop_DoRunsWork(t *testing.T) {
	loop, _ := startLoop(t, 1000)

	counter := 0
	for range 5 {
		require.NoError(t, loop.Do(context.Background(), func() { counter++ }))
	}
	assert.Equal(t, 5, counter)
}

func TestLoop_FramesFireOnTick(t *testing.T) {
	loop, _ := startLoop(t, 1000)

	fired := 0
	require.NoError(t, loop.Do(context.Background(), func() {
		loop.RequestFrame(func() { fired++ })
	}))

	require.Eventually(t, func() bool {
		var n int
		_ = loop.Do(context.Background(), func() { n = fired })
		return n == 1
	}, time.Second, 5*time.Millisecond)
}

func TestLoop_SchedulerCoalescesOnLoop(t *testing.T) {
	loop, _ := startLoop(t, 200)

	renders := 0
	var s *RenderScheduler
	require.NoError(t, loop.Do(context.Background(), func() {
		s = NewRenderScheduler(loop, func() { renders++ })
		for range 20 {
			s.Schedule()
		}
	}))

	require.Eventually(t, func() bool {
		var done bool
		_ = loop.Do(context.Background(), func() { done = !s.Pending() })
		return done
	}, time.Second, 5*time.Millisecond)

	_ = loop.Do(context.Background(), func() {
		assert.Equal(t, 1, renders)
	})
}

func TestLoop_StoppedLoopRejectsWork(t *testing.T) {
	loop, cancel := startLoop(t, 100)
	cancel()

	require.Eventually(t, func() bool {
		return loop.Do(context.Background(), func() {}) == ErrLoopStopped
	}, time.Second, 5*time.Millisecond)
}

func TestLoop_DoHonoursContext(t *testing.T) {
	loop := NewLoop(100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := loop.Do(ctx, func() {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLoop_DefaultRate(t *testing.T) {
	loop := NewLoop(0)
	assert.Equal(t, time.Second/DefaultRefreshRate, loop.interval)
}
