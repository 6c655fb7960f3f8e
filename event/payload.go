package event

// HealthChangedPayload carries normalized hit points before and after a change
type HealthChangedPayload struct {
	Prev    float64 `toml:"prev"`
	Current float64 `toml:"current"`
}

// WavePayload identifies a wave by index within the current mission
type WavePayload struct {
	WaveIndex int `toml:"wave_index"`
}

// SlotStats are per-level stat increments of an equipment slot
// Fractions are relative (0.05 = 5% per level); absolute values are raw units
type SlotStats struct {
	PhysicalDamage      float64 `toml:"physical_damage"`
	PhysicalAttackSpeed float64 `toml:"physical_attack_speed"`
	OpticalDamage       float64 `toml:"optical_damage"`
	OpticalAttackSpeed  float64 `toml:"optical_attack_speed"`
	SensorRange         float64 `toml:"sensor_range"`
	MaxCoreEnergy       float64 `toml:"max_core_energy"`
	GenerateCoreValue   float64 `toml:"generate_core_value"`
}

// EnhanceSlotPayload carries the new level of an equipment slot
type EnhanceSlotPayload struct {
	SlotID   string    `toml:"slot_id"`
	Level    int       `toml:"level"`
	MaxLevel int       `toml:"max_level"`
	Stats    SlotStats `toml:"stats"`
}

// OperateStringPayload asks for a catalog line shown for a given time
type OperateStringPayload struct {
	Key         string  `toml:"key"`
	ShowSeconds float64 `toml:"show_seconds"`
}
