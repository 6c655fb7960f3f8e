package display

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/notice"
	"github.com/lixenwraith/vi-operator/parameter"
)

type recordingPanel struct {
	shown []Frame
	hides int
}

func (p *recordingPanel) Show(f Frame) { p.shown = append(p.shown, f) }
func (p *recordingPanel) Hide()        { p.hides++ }

type recordingVoice struct {
	cues    []string
	voices  []string
	failing bool
}

func (v *recordingVoice) Cue(name string) error {
	v.cues = append(v.cues, name)
	if v.failing {
		return errors.New("no device")
	}
	return nil
}

func (v *recordingVoice) Play(key string) error {
	v.voices = append(v.voices, key)
	if v.failing {
		return errors.New("no device")
	}
	return nil
}

type harness struct {
	clock  *engine.MockTimeProvider
	timers *engine.TimerScheduler
	panel  *recordingPanel
	voice  *recordingVoice
	driver *Driver
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		clock: engine.NewMockTimeProvider(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		panel: &recordingPanel{},
		voice: &recordingVoice{},
	}
	h.timers = engine.NewTimerScheduler(h.clock)
	d, err := New(cfg, h.panel, h.voice, h.timers, WithNames(func(k string) string { return "name:" + k }))
	require.NoError(t, err)
	h.driver = d
	return h
}

// step advances game time then runs one tick in loop order: timers, driver
func (h *harness) step(d time.Duration) {
	h.clock.Advance(d)
	h.timers.Update()
	h.driver.Tick()
}

func TestDriver_DrainsInPriorityOrder(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 3 * time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityTutorial, "tutorial", "")
	d.Enqueue(notice.PriorityDurability, "durability", "")
	d.Enqueue(notice.PriorityWave, "wave", "")
	require.Equal(t, StateIdle, d.State())

	h.step(0)
	require.Equal(t, StateShowing, d.State())
	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "wave", cur.Text)

	// Still showing before expiry
	h.step(2 * time.Second)
	cur, _ = d.Current()
	assert.Equal(t, "wave", cur.Text)

	h.step(time.Second)
	cur, _ = d.Current()
	assert.Equal(t, "durability", cur.Text)

	h.step(3 * time.Second)
	cur, _ = d.Current()
	assert.Equal(t, "tutorial", cur.Text)

	h.step(3 * time.Second)
	assert.Equal(t, StateIdle, d.State())
	assert.Equal(t, 0, d.Pending())

	require.Len(t, h.panel.shown, 3)
	assert.Equal(t, []string{"wave", "durability", "tutorial"},
		[]string{h.panel.shown[0].Text, h.panel.shown[1].Text, h.panel.shown[2].Text})
}

func TestDriver_ShowingIsNeverInterrupted(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityTutorial, "tutorial", "")
	h.step(0)

	d.Enqueue(notice.PriorityWave, "urgent", "")
	h.step(500 * time.Millisecond)

	cur, _ := d.Current()
	assert.Equal(t, "tutorial", cur.Text)
	assert.Equal(t, 1, d.Pending())

	h.step(500 * time.Millisecond)
	cur, _ = d.Current()
	assert.Equal(t, "urgent", cur.Text)
}

func TestDriver_NonStackingPreempts(t *testing.T) {
	h := newHarness(t, Config{Stacking: false, Lifetime: 3 * time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityWave, "a", "")
	h.step(0)
	require.Equal(t, StateShowing, d.State())
	hidesBefore := h.panel.hides

	d.Enqueue(notice.PriorityTutorial, "b", "")
	assert.Equal(t, StateIdle, d.State())
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, hidesBefore+1, h.panel.hides)

	d.Enqueue(notice.PriorityDurability, "c", "")
	d.Enqueue(notice.PriorityWave, "d", "")
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, "d", d.Queued()[0].Text)

	// The pre-empted timer must not hide the new frame early
	h.step(0)
	cur, _ := d.Current()
	require.Equal(t, "d", cur.Text)
	h.step(2 * time.Second)
	assert.Equal(t, StateShowing, d.State())
	h.step(time.Second)
	assert.Equal(t, StateIdle, d.State())
}

func TestDriver_ClearCancelsTimer(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 3 * time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityWave, "wave", "")
	d.Enqueue(notice.PriorityTutorial, "tutorial", "")
	h.step(0)
	require.Equal(t, StateShowing, d.State())

	d.Clear()
	assert.Equal(t, StateIdle, d.State())
	assert.Equal(t, 0, d.Pending())
	assert.Equal(t, 0, h.timers.Pending())

	hides := h.panel.hides
	shown := len(h.panel.shown)
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, 0, h.timers.Update())
	assert.Equal(t, hides, h.panel.hides, "no late hide after teardown")
	assert.Equal(t, shown, len(h.panel.shown))
	assert.Equal(t, StateIdle, d.State())
}

func TestDriver_HideKeepsQueue(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 3 * time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityWave, "w1", "")
	d.Enqueue(notice.PriorityWave, "w2", "")
	h.step(0)
	d.Hide()
	assert.Equal(t, StateIdle, d.State())
	assert.Equal(t, 1, d.Pending())

	h.step(0)
	cur, _ := d.Current()
	assert.Equal(t, "w2", cur.Text)
}

func TestDriver_MergeWhileShowing(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: time.Second})
	d := h.driver

	d.Enqueue(notice.PriorityWave, "wave", "")
	h.step(0)

	assert.Equal(t, notice.Inserted, d.Enqueue(notice.PriorityEnhancePhysical, "lv1", ""))
	assert.Equal(t, notice.Merged, d.Enqueue(notice.PriorityEnhancePhysical, "lv2", ""))
	assert.Equal(t, 1, d.Pending())

	h.step(time.Second)
	cur, _ := d.Current()
	assert.Equal(t, "lv2", cur.Text)
}

func TestDriver_VoiceIsBestEffort(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: time.Second})
	h.voice.failing = true

	h.driver.Enqueue(notice.PriorityTutorial, "hello", "tut_01")
	h.step(0)

	assert.Equal(t, StateShowing, h.driver.State())
	assert.Equal(t, []string{parameter.NoticeCue}, h.voice.cues)
	assert.Equal(t, []string{"tut_01"}, h.voice.voices)
}

func TestDriver_EmptyVoiceKeySkipsPlayback(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: time.Second})
	h.driver.Enqueue(notice.PriorityWave, "w", "")
	h.step(0)
	assert.Empty(t, h.voice.voices)
	assert.Len(t, h.voice.cues, 1)
}

func TestDriver_FrameStyles(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: time.Second})
	d := h.driver
	op := Speaker{Name: "James", Portrait: "oper_cha_james", Color: DefaultPalette().Operator}
	d.SetSpeaker(op)

	d.Enqueue(notice.PriorityDurability, "hull", "")
	d.Enqueue(notice.PriorityEnhanceOptical, "optical", "")
	h.step(0)
	h.step(time.Second)

	require.Len(t, h.panel.shown, 2)
	dur, opt := h.panel.shown[0], h.panel.shown[1]

	assert.Equal(t, "James", dur.Speaker)
	assert.Equal(t, "oper_cha_james", dur.Portrait)
	assert.True(t, dur.Shake)
	assert.Equal(t, time.Second, dur.Lifetime)

	assert.Equal(t, "name:Enhance_Optical", opt.Speaker)
	assert.Equal(t, PortraitOptical, opt.Portrait)
	assert.Equal(t, DefaultPalette().Optical, opt.NameColor)
	assert.False(t, opt.Shake)
}

func TestDriver_LifetimeOverride(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 3 * time.Second})
	d := h.driver
	d.SetLifetime(5 * time.Second)
	assert.Equal(t, 5*time.Second, d.Lifetime())

	d.Enqueue(notice.PriorityTutorial, "t", "")
	h.step(0)
	h.step(3 * time.Second)
	assert.Equal(t, StateShowing, d.State())
	h.step(2 * time.Second)
	assert.Equal(t, StateIdle, d.State())

	d.SetLifetime(-time.Second)
	assert.Equal(t, time.Duration(0), d.Lifetime())
}

func TestDriver_ZeroLifetimeHoldsUntilHidden(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 0})
	d := h.driver

	d.Enqueue(notice.PriorityTutorial, "t1", "")
	d.Enqueue(notice.PriorityTutorial, "t2", "")
	h.step(0)
	require.Equal(t, StateShowing, d.State())
	assert.Equal(t, 0, h.timers.Pending(), "no auto-hide timer")

	h.step(50 * time.Millisecond)
	h.step(time.Minute)
	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "t1", cur.Text)

	d.Hide()
	h.step(0)
	cur, _ = d.Current()
	assert.Equal(t, "t2", cur.Text)
}

func TestDriver_ResetPanelKeepsQueue(t *testing.T) {
	h := newHarness(t, Config{Stacking: true, Lifetime: 3 * time.Second})
	d := h.driver
	d.SetSpeaker(Speaker{Name: "James", Portrait: "oper_cha_james"})

	d.Enqueue(notice.PriorityWave, "w1", "")
	d.Enqueue(notice.PriorityWave, "w2", "")
	h.step(0)
	require.Equal(t, StateShowing, d.State())

	d.ResetPanel()
	assert.Equal(t, StateIdle, d.State())
	assert.Equal(t, Speaker{}, d.Speaker())
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, 0, h.timers.Pending())
}

func TestNew_RejectsMissingCollaborators(t *testing.T) {
	timers := engine.NewTimerScheduler(engine.NewMockTimeProvider(time.Time{}))
	_, err := New(DefaultConfig(), nil, nil, timers)
	assert.Error(t, err)
	_, err = New(DefaultConfig(), &recordingPanel{}, nil, nil)
	assert.Error(t, err)
	_, err = New(Config{Lifetime: -1}, &recordingPanel{}, nil, timers)
	assert.Error(t, err)

	d, err := New(DefaultConfig(), &recordingPanel{}, nil, timers)
	require.NoError(t, err)
	assert.True(t, d.Stacking())
	assert.Equal(t, parameter.DefaultPanelLifetime, d.Lifetime())
}
