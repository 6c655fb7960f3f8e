package scenario

import (
	"sync"
	"time"

	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/event"
)

// Pusher receives due events; event.Bus satisfies it
type Pusher interface {
	Push(ev event.GameEvent)
}

// Player releases script steps as game time passes
type Player struct {
	mu     sync.Mutex
	script *Script
	out    Pusher
	clock  engine.TimeProvider
	origin time.Time
	next   int
	frame  int64
	loops  int
}

// NewPlayer creates a player whose timeline starts now
func NewPlayer(script *Script, out Pusher, clock engine.TimeProvider) *Player {
	return &Player{script: script, out: out, clock: clock, origin: clock.Now()}
}

// Tick implements engine.Ticker
// Every step at or before the elapsed time is pushed, in script order
func (p *Player) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frame++
	elapsed := p.clock.Now().Sub(p.origin)
	steps := p.script.Steps

	for p.next < len(steps) && steps[p.next].At <= elapsed {
		ev := steps[p.next].Event
		ev.Frame = p.frame
		p.out.Push(ev)
		p.next++
	}

	if p.next == len(steps) && p.script.Loop && len(steps) > 0 {
		p.origin = p.clock.Now()
		p.next = 0
		p.loops++
	}
}

// Done reports whether every step has been released
// A looping script is never done
func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.script.Loop && p.next >= len(p.script.Steps)
}

// Released returns the number of steps pushed in the current pass
func (p *Player) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Loops returns completed passes of a looping script
func (p *Player) Loops() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops
}

// Restart rewinds the timeline to now
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.origin = p.clock.Now()
	p.next = 0
}
