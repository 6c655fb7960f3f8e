// Package scenario replays a scripted timeline of game events into the bus
package scenario

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/vi-operator/event"
	"github.com/lixenwraith/vi-operator/operator"
)

// Stage kinds a script can bind
const (
	ModeMission  = "mission"
	ModeTutorial = "tutorial"
)

// Step is one event due at an offset from the script start
type Step struct {
	At    time.Duration
	Event event.GameEvent
}

// Script is a parsed timeline plus the stage it runs against
type Script struct {
	Mode     string
	Operator int
	Mission  string
	Waves    []string
	Loop     bool
	Steps    []Step
}

type scriptDoc struct {
	Mode     string    `toml:"mode"`
	Operator int       `toml:"operator"`
	Mission  string    `toml:"mission"`
	Waves    []string  `toml:"waves"`
	Loop     bool      `toml:"loop"`
	Steps    []stepDoc `toml:"step"`
}

type stepDoc struct {
	At      string         `toml:"at"`
	Event   string         `toml:"event"`
	Payload map[string]any `toml:"payload"`
}

// Load reads a script file
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a TOML script and resolves event names and payloads
func Parse(r io.Reader) (*Script, error) {
	var doc scriptDoc
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, err
	}

	s := &Script{
		Mode:     doc.Mode,
		Operator: doc.Operator,
		Mission:  doc.Mission,
		Waves:    doc.Waves,
		Loop:     doc.Loop,
		Steps:    make([]Step, 0, len(doc.Steps)),
	}
	switch s.Mode {
	case "":
		s.Mode = ModeMission
	case ModeMission, ModeTutorial:
	default:
		return nil, fmt.Errorf("unknown mode %q", s.Mode)
	}
	if s.Mode == ModeMission && s.Mission == "" {
		return nil, errors.New("mission mode requires a mission id")
	}

	for i, sd := range doc.Steps {
		step, err := sd.resolve()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		s.Steps = append(s.Steps, step)
	}
	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	return s, nil
}

func (sd stepDoc) resolve() (Step, error) {
	at, err := time.ParseDuration(sd.At)
	if err != nil {
		return Step{}, fmt.Errorf("at: %w", err)
	}
	if at < 0 {
		return Step{}, fmt.Errorf("at %s is negative", sd.At)
	}

	et, ok := event.GetEventType(sd.Event)
	if !ok || et == event.EventTick {
		return Step{}, fmt.Errorf("unknown event %q", sd.Event)
	}

	payload := event.NewPayloadStruct(et)
	switch {
	case payload == nil && len(sd.Payload) > 0:
		return Step{}, fmt.Errorf("event %s takes no payload", sd.Event)
	case payload != nil:
		// Round-trip through TOML so field tags and types are checked once
		raw, err := toml.Marshal(sd.Payload)
		if err != nil {
			return Step{}, fmt.Errorf("payload: %w", err)
		}
		if err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(payload); err != nil {
			return Step{}, fmt.Errorf("payload for %s: %w", sd.Event, err)
		}
	}

	return Step{At: at, Event: event.GameEvent{Type: et, Payload: payload}}, nil
}

// MissionStage returns the mission binding
func (s *Script) MissionStage() operator.Mission {
	return operator.Mission{ID: s.Mission, OperatorNumber: s.Operator, Waves: s.Waves}
}

// TutorialStage returns the tutorial binding
func (s *Script) TutorialStage() operator.Tutorial {
	return operator.Tutorial{OperatorNumber: s.Operator}
}

// Duration is the offset of the last step
func (s *Script) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}
