// Package audio plays operator voice lines and the notice cue through beep
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-operator/parameter"
)

const sampleRate = beep.SampleRate(44100)

// Config controls voice playback
type Config struct {
	Enabled   bool
	VoiceRoot string
	Volume    int // 0-100
}

// Player implements display.Voice
// A new voice line cuts off the one still playing; cues overlap freely
type Player struct {
	mu      sync.Mutex
	cfg     Config
	mixer   *beep.Mixer
	clips   *clipCache
	current *beep.Ctrl
	live    bool
	logger  *slog.Logger

	// speaker.Lock/Unlock once the device is open
	lock   func()
	unlock func()
}

// NewPlayer creates a player; no device is opened until Start
func NewPlayer(cfg Config, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		clips:  newClipCache(cfg.VoiceRoot, sampleRate),
		logger: logger,
		lock:   func() {},
		unlock: func() {},
	}
}

// Start opens the output device and attaches the mixer
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || p.live {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	speaker.Play(p.mixer)
	p.lock, p.unlock = speaker.Lock, speaker.Unlock
	p.live = true
	return nil
}

// Stop silences everything; the device stays open for reuse
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	p.mixer.Clear()
	p.unlock()
	p.current = nil
}

// Enabled reports whether playback was requested by configuration
func (p *Player) Enabled() bool {
	return p.cfg.Enabled
}

// Cue plays a named UI sound
func (p *Player) Cue(name string) error {
	if !p.cfg.Enabled {
		return nil
	}
	var s beep.Streamer
	switch name {
	case parameter.NoticeCue:
		s = chime(sampleRate)
	default:
		return fmt.Errorf("unknown cue %q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	p.mixer.Add(gain(s, p.volume()*0.5))
	p.unlock()
	return nil
}

// Play starts the voice clip for key, stopping the previous voice
func (p *Player) Play(key string) error {
	if !p.cfg.Enabled || key == "" {
		return nil
	}
	buf, err := p.clips.get(key)
	if err != nil {
		return err
	}

	ctrl := &beep.Ctrl{Streamer: gain(buf.Streamer(0, buf.Len()), p.volume())}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lock()
	if p.current != nil {
		// A nil streamer drains the ctrl out of the mixer
		p.current.Streamer = nil
	}
	p.mixer.Add(ctrl)
	p.unlock()
	p.current = ctrl

	p.logger.Debug("voice started", "key", key, "samples", buf.Len())
	return nil
}

func (p *Player) volume() float64 {
	return float64(max(0, min(100, p.cfg.Volume))) / 100
}
