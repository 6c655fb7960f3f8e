package parameter

import "time"

// Operator panel
const (
	// DefaultPanelLifetime is how long a notification stays on screen unless overridden
	DefaultPanelLifetime = 3 * time.Second

	// DefaultStacking keeps pending notifications queued instead of pre-empting
	DefaultStacking = true

	// NoticeCue is the sound cue played whenever the panel opens
	NoticeCue = "UI_OperatorNotice"

	// WaveVoiceCount is the number of numbered wave voice lines per operator
	WaveVoiceCount = 3

	// MaxLevelLabel replaces the level number once a slot reaches its cap
	MaxLevelLabel = "Max"
)

// DurabilityThresholds are normalized hit point fractions, highest first
// Each maps to the catalog key with the same index in DurabilityKeys
var DurabilityThresholds = [...]float64{0.8, 0.6, 0.4, 0.2}

// DurabilityKeys are catalog keys fired on a downward threshold crossing
var DurabilityKeys = [...]string{"durability80", "durability60", "durability40", "durability20"}

// Wave message key prefixes, joined as prefix + missionID + "_" + waveID
const (
	WaveStartPrefix = "ws_"
	WaveEndPrefix   = "we_"
)

// Panel layout
const (
	// PanelWidth is the width of the operator panel in cells
	PanelWidth = 48

	// PanelMinHeight covers the border, speaker line and one text line
	PanelMinHeight = 4

	// PanelShakeDuration is how long durability frames jitter
	PanelShakeDuration = 1500 * time.Millisecond

	// PanelShakeAmplitude is the max horizontal jitter in cells
	PanelShakeAmplitude = 2
)
