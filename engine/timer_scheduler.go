package engine

import (
	"sort"
	"sync"
	"time"
)

// TimerHandle identifies a scheduled one-shot timer
// The zero value refers to no timer. IDs are never reused, so a handle kept
// past firing, cancellation or Reset can never address a newer timer
type TimerHandle struct {
	id uint64
}

// Valid reports whether the handle was issued by a scheduler
func (h TimerHandle) Valid() bool {
	return h.id != 0
}

type timerEntry struct {
	id       uint64
	deadline time.Time
	fn       func()
}

// TimerScheduler runs cancelable one-shot callbacks on game time
// Callbacks fire from Update on the caller's goroutine, never concurrently
type TimerScheduler struct {
	mu     sync.Mutex
	clock  TimeProvider
	timers map[uint64]*timerEntry
	nextID uint64
}

// NewTimerScheduler creates a scheduler reading time from clock
func NewTimerScheduler(clock TimeProvider) *TimerScheduler {
	return &TimerScheduler{
		clock:  clock,
		timers: make(map[uint64]*timerEntry),
	}
}

// Set schedules fn to run once d after now
// Non-positive durations fire on the next Update
func (s *TimerScheduler) Set(d time.Duration, fn func()) TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e := &timerEntry{
		id:       s.nextID,
		deadline: s.clock.Now().Add(d),
		fn:       fn,
	}
	s.timers[e.id] = e
	return TimerHandle{id: e.id}
}

// Cancel removes a pending timer
// Returns false for fired, already cancelled, reset or zero handles
func (s *TimerScheduler) Cancel(h TimerHandle) bool {
	if !h.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[h.id]; !ok {
		return false
	}
	delete(s.timers, h.id)
	return true
}

// Update fires every timer whose deadline has passed, earliest first
// Timers set by a callback wait for the next Update; timers cancelled by a
// callback do not fire
func (s *TimerScheduler) Update() int {
	now := s.clock.Now()

	s.mu.Lock()
	due := make([]*timerEntry, 0, len(s.timers))
	for _, e := range s.timers {
		if !now.Before(e.deadline) {
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return 0
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	fired := 0
	for _, e := range due {
		s.mu.Lock()
		_, live := s.timers[e.id]
		if live {
			delete(s.timers, e.id)
		}
		s.mu.Unlock()

		if !live {
			continue
		}
		if e.fn != nil {
			e.fn()
		}
		fired++
	}
	return fired
}

// Remaining returns time left on a pending timer
func (s *TimerScheduler) Remaining(h TimerHandle) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.timers[h.id]
	if !ok {
		return 0, false
	}
	return e.deadline.Sub(s.clock.Now()), true
}

// Pending returns the number of scheduled timers
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Reset drops every pending timer without firing
func (s *TimerScheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.timers)
}
