package scenario

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/event"
)

const missionScript = `
mode = "mission"
operator = 1
mission = "m01"
waves = ["a", "b"]

[[step]]
at = "2s"
event = "EventHealthChanged"
payload = { prev = 0.85, current = 0.75 }

[[step]]
at = "500ms"
event = "EventWaveStarted"
payload = { wave_index = 0 }

[[step]]
at = "2s"
event = "EventEnhanceSlotChanged"
[step.payload]
slot_id = "Battleship_OpticalTurret"
level = 3
max_level = 5
[step.payload.stats]
optical_damage = 0.05

[[step]]
at = "3s"
event = "EventOperatorReset"
`

type recorder struct{ events []event.GameEvent }

func (r *recorder) Push(ev event.GameEvent) { r.events = append(r.events, ev) }

func TestParse_ResolvesTypedPayloads(t *testing.T) {
	s, err := Parse(strings.NewReader(missionScript))
	require.NoError(t, err)
	require.Len(t, s.Steps, 4)

	// Sorted by time, ties keep file order
	assert.Equal(t, event.EventWaveStarted, s.Steps[0].Event.Type)
	assert.Equal(t, event.EventHealthChanged, s.Steps[1].Event.Type)
	assert.Equal(t, event.EventEnhanceSlotChanged, s.Steps[2].Event.Type)
	assert.Equal(t, 3*time.Second, s.Duration())

	health, ok := s.Steps[1].Event.Payload.(*event.HealthChangedPayload)
	require.True(t, ok)
	assert.Equal(t, 0.85, health.Prev)
	assert.Equal(t, 0.75, health.Current)

	slot, ok := s.Steps[2].Event.Payload.(*event.EnhanceSlotPayload)
	require.True(t, ok)
	assert.Equal(t, "Battleship_OpticalTurret", slot.SlotID)
	assert.Equal(t, 3, slot.Level)
	assert.Equal(t, 0.05, slot.Stats.OpticalDamage)

	assert.Nil(t, s.Steps[3].Event.Payload)

	m := s.MissionStage()
	assert.Equal(t, "m01", m.ID)
	assert.Equal(t, 1, m.OperatorNumber)
	assert.Equal(t, []string{"a", "b"}, m.Waves)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown event":      "mission = \"m\"\n[[step]]\nat = \"1s\"\nevent = \"EventNope\"",
		"tick not allowed":   "mission = \"m\"\n[[step]]\nat = \"1s\"\nevent = \"Tick\"",
		"bad duration":       "mission = \"m\"\n[[step]]\nat = \"soon\"\nevent = \"EventWaveEnded\"",
		"negative offset":    "mission = \"m\"\n[[step]]\nat = \"-1s\"\nevent = \"EventWaveEnded\"",
		"unknown field":      "mission = \"m\"\n[[step]]\nat = \"1s\"\nevent = \"EventWaveEnded\"\npayload = { wave = 1 }",
		"payload on reset":   "mission = \"m\"\n[[step]]\nat = \"1s\"\nevent = \"EventOperatorReset\"\npayload = { x = 1 }",
		"unknown mode":       "mode = \"arena\"",
		"mission without id": "mode = \"mission\"",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_TutorialNeedsNoMission(t *testing.T) {
	s, err := Parse(strings.NewReader(`
mode = "tutorial"
operator = 2

[[step]]
at = "0s"
event = "EventTutorialOperateString"
payload = { key = "tuto_move", show_seconds = 4.0 }
`))
	require.NoError(t, err)
	assert.Equal(t, ModeTutorial, s.Mode)
	assert.Equal(t, 2, s.TutorialStage().OperatorNumber)

	p := s.Steps[0].Event.Payload.(*event.OperateStringPayload)
	assert.Equal(t, "tuto_move", p.Key)
	assert.Equal(t, 4.0, p.ShowSeconds)
}

func TestPlayer_ReleasesDueSteps(t *testing.T) {
	s, err := Parse(strings.NewReader(missionScript))
	require.NoError(t, err)

	clock := engine.NewMockTimeProvider(time.Unix(100, 0))
	rec := &recorder{}
	p := NewPlayer(s, rec, clock)

	p.Tick()
	assert.Empty(t, rec.events)

	clock.Advance(500 * time.Millisecond)
	p.Tick()
	require.Len(t, rec.events, 1)
	assert.Equal(t, event.EventWaveStarted, rec.events[0].Type)
	assert.Equal(t, int64(2), rec.events[0].Frame)

	clock.Advance(5 * time.Second)
	p.Tick()
	assert.Len(t, rec.events, 4)
	assert.True(t, p.Done())

	p.Tick()
	assert.Len(t, rec.events, 4)
}

func TestPlayer_LoopRewinds(t *testing.T) {
	s, err := Parse(strings.NewReader(missionScript + "\n"))
	require.NoError(t, err)
	s.Loop = true

	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	rec := &recorder{}
	p := NewPlayer(s, rec, clock)

	clock.Advance(3 * time.Second)
	p.Tick()
	assert.Len(t, rec.events, 4)
	assert.Equal(t, 1, p.Loops())
	assert.False(t, p.Done())
	assert.Zero(t, p.Released())

	clock.Advance(500 * time.Millisecond)
	p.Tick()
	assert.Len(t, rec.events, 5)
}

func TestPlayer_RestartReplaysFromNow(t *testing.T) {
	s, err := Parse(strings.NewReader(missionScript))
	require.NoError(t, err)

	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	rec := &recorder{}
	p := NewPlayer(s, rec, clock)

	clock.Advance(3 * time.Second)
	p.Tick()
	require.True(t, p.Done())

	p.Restart()
	assert.False(t, p.Done())
	assert.Zero(t, p.Released())

	// Offsets count from the restart, not the original start
	clock.Advance(400 * time.Millisecond)
	p.Tick()
	assert.Len(t, rec.events, 4)

	clock.Advance(100 * time.Millisecond)
	p.Tick()
	require.Len(t, rec.events, 5)
	assert.Equal(t, event.EventWaveStarted, rec.events[4].Type)
}

func TestPlayer_PushesIntoBus(t *testing.T) {
	s, err := Parse(strings.NewReader(missionScript))
	require.NoError(t, err)

	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	bus := event.NewBus()
	var waves int
	bus.Subscribe(event.EventWaveStarted, func(event.GameEvent) { waves++ })

	p := NewPlayer(s, bus, clock)
	clock.Advance(time.Second)
	p.Tick()
	assert.Equal(t, 1, bus.Pending())

	bus.Dispatch()
	assert.Equal(t, 1, waves)
}
