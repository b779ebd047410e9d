package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScheduler_CoalescesWithinATick(t *testing.T) {
	clock := &ManualClock{}
	renders := 0
	s := NewRenderScheduler(clock, func() { renders++ })

	for range 10 {
		s.Schedule()
	}
	assert.True(t, s.Pending())
	assert.Equal(t, 1, clock.Queued())
	assert.Equal(t, 0, renders)

	assert.Equal(t, 1, clock.Tick())
	assert.Equal(t, 1, renders)
	assert.False(t, s.Pending())
}

func TestRenderScheduler_RendersLatestValue(t *testing.T) {
	clock := &ManualClock{}
	value := 0
	var rendered []int
	s := NewRenderScheduler(clock, func() { rendered = append(rendered, value) })

	for i := 1; i <= 5; i++ {
		value = i
		s.Schedule()
	}
	clock.Tick()
	assert.Equal(t, []int{5}, rendered)
}

func TestRenderScheduler_NewChangeAfterRenderSchedulesAgain(t *testing.T) {
	clock := &ManualClock{}
	renders := 0
	s := NewRenderScheduler(clock, func() { renders++ })

	s.Schedule()
	clock.Tick()
	s.Schedule()
	assert.Equal(t, 1, clock.Queued())
	clock.Tick()
	assert.Equal(t, 2, renders)
}

func TestRenderScheduler_NoChangeNoRender(t *testing.T) {
	clock := &ManualClock{}
	renders := 0
	NewRenderScheduler(clock, func() { renders++ })

	assert.Equal(t, 0, clock.Tick())
	assert.Equal(t, 0, renders)
}

func TestManualClock_RequestsDuringTickWaitForNextTick(t *testing.T) {
	clock := &ManualClock{}
	calls := 0
	clock.RequestFrame(func() {
		calls++
		clock.RequestFrame(func() { calls++ })
	})

	assert.Equal(t, 1, clock.Tick())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, clock.Queued())
	assert.Equal(t, 1, clock.Tick())
	assert.Equal(t, 2, calls)
}
