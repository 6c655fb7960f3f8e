// Package operator translates domain events into operator panel notifications
//
// An Operator binds to an event bus for one stage, picks which operator
// speaks, and turns health, wave, enhancement and tutorial events into
// prioritized queue entries on its display driver.
package operator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lixenwraith/vi-operator/catalog"
	"github.com/lixenwraith/vi-operator/display"
	"github.com/lixenwraith/vi-operator/event"
	"github.com/lixenwraith/vi-operator/notice"
	"github.com/lixenwraith/vi-operator/observe"
	"github.com/lixenwraith/vi-operator/parameter"
)

// Mission describes the stage an operator is bound to in mission mode
type Mission struct {
	ID             string
	OperatorNumber int
	Waves          []string
}

// Tutorial describes the stage an operator is bound to in tutorial mode
type Tutorial struct {
	OperatorNumber int
}

// Mode is the kind of stage currently bound
type Mode int

const (
	ModeUnbound Mode = iota
	ModeMission
	ModeTutorial
)

// Option customizes an Operator
type Option func(*Operator)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Operator) { o.log = l }
}

// WithMetrics sets the metric instruments
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Operator) { o.metrics = m }
}

// WithSelector sets the selector for operator and wave voice choice
func WithSelector(s catalog.Selector) Option {
	return func(o *Operator) { o.selector = s }
}

// WithProfiles replaces the operator presentation table
func WithProfiles(p map[string]Profile) Option {
	return func(o *Operator) { o.profiles = p }
}

// WithPalette sets the operator name color
func WithPalette(p display.Palette) Option {
	return func(o *Operator) { o.palette = p }
}

// WithLanguage sets the language used to format numbers in messages
func WithLanguage(tag language.Tag) Option {
	return func(o *Operator) { o.printer = message.NewPrinter(tag) }
}

// WithFailHandler receives content errors raised while handling bus events
// Defaults to logging at error level
func WithFailHandler(fn func(error)) Option {
	return func(o *Operator) { o.fail = fn }
}

// Operator is the event adapter feeding one display driver
// All methods run on the tick goroutine
type Operator struct {
	driver   *display.Driver
	book     *catalog.Book
	roster   Roster
	profiles map[string]Profile
	selector catalog.Selector
	palette  display.Palette
	printer  *message.Printer
	lifetime time.Duration

	// Bound stage state, reset by Clear
	mode       Mode
	bus        *event.Bus
	subs       []event.Subscription
	mission    Mission
	name       string
	strings    *catalog.Catalog
	waveVoices []string

	log     *slog.Logger
	metrics *observe.Metrics
	fail    func(error)
}

// New validates the roster against profiles and builds an unbound operator
// lifetime is the panel lifetime restored on each mission bind
func New(driver *display.Driver, book *catalog.Book, roster Roster, lifetime time.Duration, opts ...Option) (*Operator, error) {
	if driver == nil {
		return nil, errors.New("operator: nil driver")
	}
	if book == nil {
		return nil, errors.New("operator: nil catalog book")
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}

	o := &Operator{
		driver:   driver,
		book:     book,
		roster:   roster,
		profiles: DefaultProfiles(),
		selector: catalog.NewRandomSelector(),
		palette:  display.DefaultPalette(),
		printer:  message.NewPrinter(language.English),
		lifetime: lifetime,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.fail == nil {
		o.fail = func(err error) {
			o.log.Error("operator content error", "error", err)
		}
	}
	if err := validateProfiles(roster, o.profiles); err != nil {
		return nil, err
	}
	return o, nil
}

// Init binds the operator to a mission stage
// Subscribes health, wave and enhancement events
func (o *Operator) Init(bus *event.Bus, mission Mission) error {
	if bus == nil {
		return errors.New("operator: nil bus")
	}
	o.Clear()

	if err := o.bindSpeaker(mission.OperatorNumber); err != nil {
		return err
	}
	o.mode = ModeMission
	o.bus = bus
	o.mission = mission
	o.driver.SetLifetime(o.lifetime)

	o.subscribe(event.EventWaveStarted, func(ev event.GameEvent) { o.report(o.onWave(ev, true)) })
	o.subscribe(event.EventWaveEnded, func(ev event.GameEvent) { o.report(o.onWave(ev, false)) })
	o.subscribe(event.EventEnhanceSlotChanged, func(ev event.GameEvent) { o.report(o.onEnhance(ev)) })
	o.subscribe(event.EventHealthChanged, func(ev event.GameEvent) { o.report(o.onHealth(ev)) })

	o.driver.Hide()
	o.log.Info("operator bound",
		"mode", "mission",
		"mission", mission.ID,
		"operator", o.name,
		"waves", len(mission.Waves),
	)
	return nil
}

// InitTutorial binds the operator to a tutorial stage
// Lifetime starts at zero until the first scripted line supplies one
func (o *Operator) InitTutorial(bus *event.Bus, tutorial Tutorial) error {
	if bus == nil {
		return errors.New("operator: nil bus")
	}
	o.Clear()

	if err := o.bindSpeaker(tutorial.OperatorNumber); err != nil {
		return err
	}
	o.mode = ModeTutorial
	o.bus = bus
	o.driver.SetLifetime(0)

	o.subscribe(event.EventTutorialOperateString, func(ev event.GameEvent) { o.report(o.onOperateString(ev)) })
	o.subscribe(event.EventHealthChanged, func(ev event.GameEvent) { o.report(o.onHealth(ev)) })

	o.driver.Hide()
	o.log.Info("operator bound", "mode", "tutorial", "operator", o.name)
	return nil
}

// Clear unsubscribes every handler and tears the panel down
// Safe to call when unbound
func (o *Operator) Clear() {
	if o.bus != nil {
		for _, sub := range o.subs {
			o.bus.Unsubscribe(sub)
		}
	}
	o.subs = nil
	o.driver.Clear()
	o.driver.ResetPanel()

	o.mode = ModeUnbound
	o.bus = nil
	o.mission = Mission{}
	o.strings = nil
	o.waveVoices = nil
}

// Mode returns the bound stage kind
func (o *Operator) Mode() Mode {
	return o.mode
}

// Name returns the operator picked at Init
func (o *Operator) Name() string {
	return o.name
}

// Subscriptions returns how many bus handlers are registered
func (o *Operator) Subscriptions() int {
	return len(o.subs)
}

// Driver returns the display driver fed by this operator
func (o *Operator) Driver() *display.Driver {
	return o.driver
}

func (o *Operator) subscribe(et event.EventType, h event.Handler) {
	o.subs = append(o.subs, o.bus.Subscribe(et, h))
}

func (o *Operator) report(err error) {
	if err != nil {
		o.fail(err)
	}
}

// bindSpeaker picks the operator for a stage and loads its strings
func (o *Operator) bindSpeaker(operatorNumber int) error {
	name, err := o.roster.Pick(operatorNumber, o.selector)
	if err != nil {
		return err
	}
	profile, ok := o.profiles[name]
	if !ok {
		return &ConfigError{Field: "profiles", Reason: fmt.Sprintf("operator %q has no portrait", name)}
	}
	strs, err := o.book.For(name)
	if err != nil {
		return fmt.Errorf("bind operator: %w", err)
	}

	o.name = name
	o.strings = strs
	o.waveVoices = WaveVoices(profile.VoiceSet)
	o.driver.SetSpeaker(display.Speaker{
		Name:     name,
		Portrait: profile.Portrait,
		Color:    o.palette.Operator,
	})
	return nil
}

// HandleHealth enqueues a durability warning when a threshold was crossed
func (o *Operator) HandleHealth(p event.HealthChangedPayload) error {
	if o.strings == nil {
		return ErrNotBound
	}
	key, threshold, ok := DurabilityCrossing(p.Prev, p.Current)
	if !ok {
		return nil
	}
	v, err := o.strings.Resolve(key)
	if err != nil {
		return fmt.Errorf("durability %.1f: %w", threshold, err)
	}
	voice := v.VoiceKey
	if voice == "" {
		voice = o.waveVoices[0]
	}
	o.driver.Enqueue(notice.PriorityDurability, v.Text, voice)
	return nil
}

// HandleWave enqueues a wave start or end line
// Waves without an authored line are skipped silently
func (o *Operator) HandleWave(started bool, p event.WavePayload) error {
	if o.strings == nil || o.mode != ModeMission {
		return ErrNotBound
	}
	if p.WaveIndex < 0 || p.WaveIndex >= len(o.mission.Waves) {
		return fmt.Errorf("wave index %d out of range for mission %q with %d waves",
			p.WaveIndex, o.mission.ID, len(o.mission.Waves))
	}

	prefix := parameter.WaveEndPrefix
	if started {
		prefix = parameter.WaveStartPrefix
	}
	key := prefix + o.mission.ID + "_" + o.mission.Waves[p.WaveIndex]

	if !o.strings.Has(key) {
		o.log.Debug("wave line skipped", "key", key)
		o.metrics.RecordSkip(context.Background(), "missing_wave_key")
		return nil
	}
	v, err := o.strings.Resolve(key)
	if err != nil {
		return err
	}
	voice := v.VoiceKey
	if voice == "" {
		// Lines 2 and 3 of the voice set are the wave calls
		voice = o.waveVoices[1+o.selector.Select(len(o.waveVoices)-1)]
	}
	o.driver.Enqueue(notice.PriorityWave, v.Text, voice)
	return nil
}

// HandleEnhance enqueues an equipment readout; repeated upgrades of one
// category coalesce in the queue
func (o *Operator) HandleEnhance(p event.EnhanceSlotPayload) error {
	if o.strings == nil || o.mode != ModeMission {
		return ErrNotBound
	}
	eq, err := EquipmentForSlot(p.SlotID)
	if err != nil {
		return err
	}
	rule := enhanceRules[eq]

	v, err := o.strings.Resolve(rule.key)
	if err != nil {
		return fmt.Errorf("enhance %s: %w", eq, err)
	}

	args := append([]any{LevelLabel(p.Level, p.MaxLevel)}, rule.args(float64(p.Level), p.Stats)...)
	text := o.printer.Sprintf(v.Text, args...)
	o.driver.Enqueue(rule.priority, text, v.VoiceKey)
	return nil
}

// HandleOperateString enqueues a scripted tutorial line with its own lifetime
func (o *Operator) HandleOperateString(p event.OperateStringPayload) error {
	if o.strings == nil || o.mode != ModeTutorial {
		return ErrNotBound
	}
	if o.driver.Lifetime() == 0 {
		o.driver.Hide()
	}
	o.driver.SetLifetime(time.Duration(p.ShowSeconds * float64(time.Second)))

	v, err := o.strings.Resolve(p.Key)
	if err != nil {
		return fmt.Errorf("tutorial line: %w", err)
	}
	o.driver.Enqueue(notice.PriorityTutorial, v.Text, v.VoiceKey)
	return nil
}

func (o *Operator) onHealth(ev event.GameEvent) error {
	p, ok := ev.Payload.(*event.HealthChangedPayload)
	if !ok || p == nil {
		return fmt.Errorf("health event: unexpected payload %T", ev.Payload)
	}
	return o.HandleHealth(*p)
}

func (o *Operator) onWave(ev event.GameEvent, started bool) error {
	p, ok := ev.Payload.(*event.WavePayload)
	if !ok || p == nil {
		return fmt.Errorf("wave event: unexpected payload %T", ev.Payload)
	}
	return o.HandleWave(started, *p)
}

func (o *Operator) onEnhance(ev event.GameEvent) error {
	p, ok := ev.Payload.(*event.EnhanceSlotPayload)
	if !ok || p == nil {
		return fmt.Errorf("enhance event: unexpected payload %T", ev.Payload)
	}
	return o.HandleEnhance(*p)
}

func (o *Operator) onOperateString(ev event.GameEvent) error {
	p, ok := ev.Payload.(*event.OperateStringPayload)
	if !ok || p == nil {
		return fmt.Errorf("tutorial event: unexpected payload %T", ev.Payload)
	}
	return o.HandleOperateString(*p)
}
