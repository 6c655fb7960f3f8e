package display

import (
	"time"

	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/notice"
)

// RGB is a renderer-neutral 24-bit color
type RGB struct {
	R, G, B uint8
}

// Frame is everything a panel needs to present one notification
type Frame struct {
	Priority  notice.Priority
	Speaker   string
	Text      string
	Portrait  string
	NameColor RGB
	Lifetime  time.Duration
	Shake     bool
}

// Panel renders and hides the operator panel
// Animation and layout live behind this boundary
type Panel interface {
	Show(f Frame)
	Hide()
}

// Voice plays audio cues; failures are reported but never block display
type Voice interface {
	Cue(name string) error
	Play(voiceKey string) error
}

// Timers is the cancelable one-shot timer primitive used for auto-hide
type Timers interface {
	Set(d time.Duration, fn func()) engine.TimerHandle
	Cancel(h engine.TimerHandle) bool
}

// NopVoice discards every request
type NopVoice struct{}

// Cue implements Voice
func (NopVoice) Cue(string) error { return nil }

// Play implements Voice
func (NopVoice) Play(string) error { return nil }
