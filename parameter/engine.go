package parameter

import "time"

// Loop timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// GameUpdateInterval is the logic tick interval driving queue drain and timers
	GameUpdateInterval = 50 * time.Millisecond
)

// Event bus
const (
	// MaxPendingEvents bounds the bus backlog; the oldest events are dropped past it
	MaxPendingEvents = 1024
)
