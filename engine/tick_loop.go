package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is driven once per logic tick
type Ticker interface {
	Tick()
}

// TickerFunc adapts a function to Ticker
type TickerFunc func()

// Tick implements Ticker
func (f TickerFunc) Tick() {
	f()
}

// TickLoop runs registered tickers on a fixed interval from one goroutine
// Everything a ticker touches is therefore owned by a single logical thread
type TickLoop struct {
	interval time.Duration

	mu      sync.Mutex
	tickers []Ticker

	running   atomic.Bool
	tickCount atomic.Uint64
}

// NewTickLoop creates a loop with the given tick interval
func NewTickLoop(interval time.Duration) *TickLoop {
	return &TickLoop{interval: interval}
}

// Register appends a ticker; tickers run in registration order
// Must be called before Run
func (l *TickLoop) Register(t Ticker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tickers = append(l.tickers, t)
}

// Step executes one tick synchronously
func (l *TickLoop) Step() {
	l.mu.Lock()
	tickers := l.tickers
	l.mu.Unlock()

	for _, t := range tickers {
		t.Tick()
	}
	l.tickCount.Add(1)
}

// Run ticks until ctx is cancelled
// Returns ctx.Err() on cancellation; a second concurrent Run returns immediately
func (l *TickLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Ticks returns how many ticks have executed
func (l *TickLoop) Ticks() uint64 {
	return l.tickCount.Load()
}

// IsRunning reports whether Run is active
func (l *TickLoop) IsRunning() bool {
	return l.running.Load()
}
