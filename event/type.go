package event

// EventType represents the type of domain event the operator listens to
type EventType int

const (
	// EventTick is reserved for scripted timelines and never dispatched
	EventTick EventType = iota

	// EventHealthChanged signals a change of battleship hit points
	// Trigger: Health component on damage or repair
	// Consumer: Operator durability warnings | Payload: *HealthChangedPayload
	EventHealthChanged

	// EventWaveStarted signals a mission wave began
	// Trigger: Mission stage controller
	// Consumer: Operator wave announcements | Payload: *WavePayload
	EventWaveStarted

	// EventWaveEnded signals a mission wave was cleared
	// Trigger: Mission stage controller
	// Consumer: Operator wave announcements | Payload: *WavePayload
	EventWaveEnded

	// EventEnhanceSlotChanged signals an equipment slot level changed
	// Trigger: Battleship enhancement management
	// Consumer: Operator enhancement readouts | Payload: *EnhanceSlotPayload
	EventEnhanceSlotChanged

	// EventTutorialOperateString requests a scripted operator line
	// Trigger: Tutorial stage controller
	// Consumer: Operator tutorial prompts | Payload: *OperateStringPayload
	EventTutorialOperateString

	// EventOperatorReset tears the operator panel down and rebinds it
	// Trigger: Stage restart
	// Consumer: Operator | Payload: nil
	EventOperatorReset
)

// GameEvent is a typed event with its payload
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
