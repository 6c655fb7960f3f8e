// Package display drives the operator panel from the notification queue
//
// The driver is a two-state machine advanced once per tick. It decides what
// to show and when; how it looks belongs to the Panel collaborator.
package display

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/notice"
	"github.com/lixenwraith/vi-operator/observe"
	"github.com/lixenwraith/vi-operator/parameter"
)

// State of the panel
type State int

const (
	StateIdle State = iota
	StateShowing
)

func (s State) String() string {
	if s == StateShowing {
		return "showing"
	}
	return "idle"
}

// Config holds the driver's recognized options
type Config struct {
	// Stacking keeps notifications queued; false makes every enqueue pre-empt
	Stacking bool
	// Lifetime is how long each notification stays on screen
	Lifetime time.Duration
}

// DefaultConfig returns stacking mode with the stock lifetime
func DefaultConfig() Config {
	return Config{
		Stacking: parameter.DefaultStacking,
		Lifetime: parameter.DefaultPanelLifetime,
	}
}

// Option customizes a Driver
type Option func(*Driver)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithMetrics sets the metric instruments
func WithMetrics(m *observe.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithStyles replaces the per-class presentation table
func WithStyles(s Styles) Option {
	return func(d *Driver) { d.styles = s }
}

// WithNames sets the resolver for module speaker names
func WithNames(fn func(key string) string) Option {
	return func(d *Driver) { d.names = fn }
}

// Driver owns the notification queue and the panel state machine
// All methods must be called from the tick goroutine
type Driver struct {
	cfg    Config
	queue  *notice.Queue
	panel  Panel
	voice  Voice
	timers Timers

	styles  Styles
	names   func(string) string
	speaker Speaker

	state   State
	current notice.Notification
	timer   engine.TimerHandle

	log     *slog.Logger
	metrics *observe.Metrics
}

// New creates an idle driver with an empty queue
// A nil voice is replaced by NopVoice
func New(cfg Config, panel Panel, voice Voice, timers Timers, opts ...Option) (*Driver, error) {
	if panel == nil {
		return nil, errors.New("display: nil panel")
	}
	if timers == nil {
		return nil, errors.New("display: nil timers")
	}
	if cfg.Lifetime < 0 {
		return nil, errors.New("display: negative lifetime")
	}
	if voice == nil {
		voice = NopVoice{}
	}

	d := &Driver{
		cfg:    cfg,
		queue:  notice.NewQueue(),
		panel:  panel,
		voice:  voice,
		timers: timers,
		styles: DefaultStyles(DefaultPalette()),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Enqueue queues a notification
// In non-stacking mode the queue is emptied and the panel forced idle first
func (d *Driver) Enqueue(priority notice.Priority, text, voiceKey string) notice.EnqueueResult {
	ctx := context.Background()

	if !d.cfg.Stacking {
		dropped := d.queue.Count()
		if d.state == StateShowing {
			dropped++
		}
		d.forceIdle()
		d.queue.Clear()
		d.metrics.RecordPreempt(ctx, dropped)
	}

	res, idx := d.queue.Enqueue(notice.New(priority, text, voiceKey))
	d.log.Debug("notification queued",
		"priority", priority.String(),
		"result", res.String(),
		"index", idx,
		"pending", d.queue.Count(),
	)
	d.metrics.RecordEnqueue(ctx, priority.String(), res.String(), d.queue.Count())
	return res
}

// Tick shows the head of the queue when the panel is idle
// A showing notification is never interrupted here
func (d *Driver) Tick() {
	if d.state != StateIdle || d.queue.IsEmpty() {
		return
	}

	n, err := d.queue.DequeueFront()
	if err != nil {
		d.log.Error("dequeue on guarded queue", "error", err)
		return
	}
	d.show(n)
}

func (d *Driver) show(n notice.Notification) {
	ctx := context.Background()

	if err := d.voice.Cue(parameter.NoticeCue); err != nil {
		d.log.Warn("notice cue failed", "cue", parameter.NoticeCue, "error", err)
		d.metrics.RecordVoiceFailure(ctx, "cue")
	}
	if n.VoiceKey != "" {
		if err := d.voice.Play(n.VoiceKey); err != nil {
			d.log.Warn("voice playback failed", "voice_key", n.VoiceKey, "error", err)
			d.metrics.RecordVoiceFailure(ctx, "voice")
		}
	}

	frame := d.styles.frame(n, d.speaker, d.names)
	frame.Lifetime = d.cfg.Lifetime

	d.state = StateShowing
	d.current = n
	d.panel.Show(frame)

	// A zero lifetime holds the panel until Hide, Clear or pre-emption
	if d.cfg.Lifetime > 0 {
		var h engine.TimerHandle
		h = d.timers.Set(d.cfg.Lifetime, func() { d.expire(h) })
		d.timer = h
	}

	d.log.Debug("notification shown",
		"priority", n.Priority.String(),
		"lifetime", d.cfg.Lifetime,
		"pending", d.queue.Count(),
	)
	d.metrics.RecordShow(ctx, n.Priority.String(), d.cfg.Lifetime.Seconds(), d.queue.Count())
}

// expire is the auto-hide callback; stale handles are ignored
func (d *Driver) expire(h engine.TimerHandle) {
	if d.state != StateShowing || d.timer != h {
		return
	}
	d.timer = engine.TimerHandle{}
	d.toIdle()
}

// Hide closes the panel immediately and cancels the auto-hide timer
// Pending notifications stay queued
func (d *Driver) Hide() {
	d.forceIdle()
}

// Clear tears the panel down: cancels the timer, hides and empties the queue
func (d *Driver) Clear() {
	d.forceIdle()
	d.queue.Clear()
	d.metrics.RecordDepth(context.Background(), 0)
}

func (d *Driver) forceIdle() {
	if d.timer.Valid() {
		d.timers.Cancel(d.timer)
		d.timer = engine.TimerHandle{}
	}
	d.toIdle()
}

func (d *Driver) toIdle() {
	d.panel.Hide()
	d.state = StateIdle
	d.current = notice.Notification{}
}

// ResetPanel hides the panel and forgets the bound speaker
// Pending notifications stay queued
func (d *Driver) ResetPanel() {
	d.forceIdle()
	d.speaker = Speaker{}
}

// SetSpeaker binds the operator identity used for non-module frames
func (d *Driver) SetSpeaker(sp Speaker) {
	d.speaker = sp
}

// Speaker returns the bound operator identity
func (d *Driver) Speaker() Speaker {
	return d.speaker
}

// SetLifetime changes the display time of subsequently shown notifications
func (d *Driver) SetLifetime(lifetime time.Duration) {
	if lifetime < 0 {
		lifetime = 0
	}
	d.cfg.Lifetime = lifetime
}

// Lifetime returns the current display time
func (d *Driver) Lifetime() time.Duration {
	return d.cfg.Lifetime
}

// Stacking reports whether notifications queue up
func (d *Driver) Stacking() bool {
	return d.cfg.Stacking
}

// State returns the panel state
func (d *Driver) State() State {
	return d.state
}

// Current returns the notification on screen
func (d *Driver) Current() (notice.Notification, bool) {
	return d.current, d.state == StateShowing
}

// Pending returns the number of queued notifications
func (d *Driver) Pending() int {
	return d.queue.Count()
}

// Queued returns a copy of the queue in drain order
func (d *Driver) Queued() []notice.Notification {
	return d.queue.Snapshot()
}
