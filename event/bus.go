package event

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-operator/parameter"
)

// Handler processes one routed event on the dispatching goroutine
type Handler func(ev GameEvent)

// Subscription identifies one registered handler
// Subscribe and Unsubscribe must be called in matched pairs
type Subscription struct {
	Type EventType
	id   uint64
}

type subscriber struct {
	id      uint64
	handler Handler
	removed bool
}

// Bus routes domain events to subscribers
//
// Architecture:
//   - Push is safe from any goroutine and only buffers
//   - Dispatch drains the buffer on the tick goroutine in FIFO order
//   - Handlers for one type run in subscription order
//   - A handler unsubscribed mid-dispatch is never invoked afterwards
type Bus struct {
	mu      sync.Mutex
	pending []GameEvent

	subMu  sync.RWMutex
	subs   map[EventType][]*subscriber
	nextID uint64

	dropped atomic.Uint64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		pending: make([]GameEvent, 0, 64),
		subs:    make(map[EventType][]*subscriber),
	}
}

// Subscribe registers handler for et
func (b *Bus) Subscribe(et EventType, handler Handler) Subscription {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	b.nextID++
	b.subs[et] = append(b.subs[et], &subscriber{id: b.nextID, handler: handler})
	return Subscription{Type: et, id: b.nextID}
}

// Unsubscribe removes a handler; false if it was not registered
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	list := b.subs[sub.Type]
	for i, s := range list {
		if s.id != sub.id {
			continue
		}
		s.removed = true
		b.subs[sub.Type] = append(list[:i:i], list[i+1:]...)
		if len(b.subs[sub.Type]) == 0 {
			delete(b.subs, sub.Type)
		}
		return true
	}
	return false
}

// HandlerCount returns the number of handlers registered for et
func (b *Bus) HandlerCount(et EventType) int {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return len(b.subs[et])
}

// Push buffers an event for the next Dispatch
// Overflow drops the oldest buffered event
func (b *Bus) Push(ev GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) >= parameter.MaxPendingEvents {
		copy(b.pending, b.pending[1:])
		b.pending = b.pending[:len(b.pending)-1]
		b.dropped.Add(1)
	}
	b.pending = append(b.pending, ev)
}

// Pending returns the number of buffered events
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Dropped returns how many events were lost to overflow
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Dispatch delivers every buffered event and returns how many were consumed
// Events pushed by handlers are delivered on the next Dispatch
func (b *Bus) Dispatch() int {
	b.mu.Lock()
	batch := b.pending
	b.pending = make([]GameEvent, 0, cap(batch))
	b.mu.Unlock()

	for _, ev := range batch {
		b.Publish(ev)
	}
	return len(batch)
}

// Publish delivers ev synchronously, bypassing the buffer
func (b *Bus) Publish(ev GameEvent) {
	b.subMu.RLock()
	list := make([]*subscriber, len(b.subs[ev.Type]))
	copy(list, b.subs[ev.Type])
	b.subMu.RUnlock()

	for _, s := range list {
		b.subMu.RLock()
		removed := s.removed
		b.subMu.RUnlock()
		if removed {
			continue
		}
		s.handler(ev)
	}
}

// Tick implements engine.Ticker
func (b *Bus) Tick() {
	b.Dispatch()
}
