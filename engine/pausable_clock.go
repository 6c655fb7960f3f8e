package engine

import (
	"sync"
	"time"
)

// PausableClock provides game time that freezes while paused
// Operator timers run on this clock so a paused game keeps the panel up
type PausableClock struct {
	mu sync.RWMutex

	real TimeProvider

	paused          bool
	pauseStart      time.Time     // Real time when current pause started
	totalPausedTime time.Duration // Cumulative completed pause duration
}

// NewPausableClock creates a clock over the given real time source
// A nil source uses the monotonic system clock
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		real: real,
	}
}

// Now returns current game time (affected by pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		return pc.pauseStart.Add(-pc.totalPausedTime)
	}
	return pc.real.Now().Add(-pc.totalPausedTime)
}

// RealTime returns the underlying time source reading (unaffected by pause)
func (pc *PausableClock) RealTime() time.Time {
	return pc.real.Now()
}

// Pause stops game time advancement
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.real.Now()
}

// Resume continues game time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPausedTime += pc.real.Now().Sub(pc.pauseStart)
	pc.paused = false
	pc.pauseStart = time.Time{}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.paused {
		total += pc.real.Now().Sub(pc.pauseStart)
	}
	return total
}
