package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTimerScheduler_FiresAfterDeadline(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	s := NewTimerScheduler(clock)

	fired := 0
	h := s.Set(3*time.Second, func() { fired++ })
	require.True(t, h.Valid())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, s.Update())

	left, ok := s.Remaining(h)
	require.True(t, ok)
	assert.Equal(t, time.Second, left)

	clock.Advance(time.Second)
	assert.Equal(t, 1, s.Update())
	assert.Equal(t, 1, fired)

	// One-shot
	clock.Advance(10 * time.Second)
	assert.Equal(t, 0, s.Update())
	assert.Equal(t, 1, fired)
	assert.False(t, s.Cancel(h), "fired handle is stale")
}

func TestTimerScheduler_CancelPreventsFire(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	s := NewTimerScheduler(clock)

	fired := false
	h := s.Set(time.Second, func() { fired = true })
	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h))

	clock.Advance(5 * time.Second)
	s.Update()
	assert.False(t, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestTimerScheduler_OrderAndCallbackCancel(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	s := NewTimerScheduler(clock)

	var order []string
	var late TimerHandle
	s.Set(2*time.Second, func() { order = append(order, "b") })
	s.Set(time.Second, func() {
		order = append(order, "a")
		s.Cancel(late)
		s.Set(0, func() { order = append(order, "next") })
	})
	late = s.Set(3*time.Second, func() { order = append(order, "c") })

	clock.Advance(5 * time.Second)
	assert.Equal(t, 2, s.Update())
	assert.Equal(t, []string{"a", "b"}, order)

	assert.Equal(t, 1, s.Update())
	assert.Equal(t, []string{"a", "b", "next"}, order)
}

func TestTimerScheduler_ResetInvalidatesHandles(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	s := NewTimerScheduler(clock)

	fired := false
	old := s.Set(time.Second, func() { fired = true })
	s.Reset()
	fresh := s.Set(time.Second, func() {})

	assert.False(t, s.Cancel(old))
	assert.NotEqual(t, old, fresh)

	clock.Advance(2 * time.Second)
	s.Update()
	assert.False(t, fired)
	assert.False(t, s.Cancel(TimerHandle{}))
}

func TestPausableClock_FreezesWhilePaused(t *testing.T) {
	real := NewMockTimeProvider(epoch)
	pc := NewPausableClock(real)

	real.Advance(time.Second)
	assert.Equal(t, epoch.Add(time.Second), pc.Now())

	pc.Pause()
	assert.True(t, pc.IsPaused())
	real.Advance(4 * time.Second)
	assert.Equal(t, epoch.Add(time.Second), pc.Now())
	assert.Equal(t, 4*time.Second, pc.TotalPauseDuration())

	pc.Resume()
	real.Advance(time.Second)
	assert.Equal(t, epoch.Add(2*time.Second), pc.Now())
	assert.Equal(t, epoch.Add(6*time.Second), pc.RealTime())
}

func TestTimerScheduler_OnPausableClock(t *testing.T) {
	real := NewMockTimeProvider(epoch)
	pc := NewPausableClock(real)
	s := NewTimerScheduler(pc)

	fired := false
	s.Set(3*time.Second, func() { fired = true })

	pc.Pause()
	real.Advance(10 * time.Second)
	s.Update()
	assert.False(t, fired, "paused game time must not expire timers")

	pc.Resume()
	real.Advance(3 * time.Second)
	s.Update()
	assert.True(t, fired)
}
