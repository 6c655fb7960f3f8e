package operator

import (
	"fmt"
	"strconv"

	"github.com/lixenwraith/vi-operator/event"
	"github.com/lixenwraith/vi-operator/notice"
	"github.com/lixenwraith/vi-operator/parameter"
)

// Equipment is the category of an enhanceable battleship slot
type Equipment int

const (
	EquipmentPhysical Equipment = iota + 1
	EquipmentOptical
	EquipmentForceField
	EquipmentCoreTech
)

func (e Equipment) String() string {
	switch e {
	case EquipmentPhysical:
		return "physical"
	case EquipmentOptical:
		return "optical"
	case EquipmentForceField:
		return "force_field"
	case EquipmentCoreTech:
		return "core_tech"
	}
	return "Equipment(" + strconv.Itoa(int(e)) + ")"
}

// slotEquipment maps slot identifiers to their category
// Core tech variants of a turret report under the base turret's readout
var slotEquipment = map[string]Equipment{
	"Battleship_PhysicalTurret":         EquipmentPhysical,
	"Battleship_OpticalTurret":          EquipmentOptical,
	"Battleship_CoreTech_OpticalTurret": EquipmentOptical,
	"Battleship_PowerStone":             EquipmentForceField,
	"Battleship_CoreTech_PowerStone":    EquipmentForceField,
	"Battleship_CoreTech":               EquipmentCoreTech,
}

// EquipmentForSlot resolves a slot identifier
func EquipmentForSlot(slotID string) (Equipment, error) {
	eq, ok := slotEquipment[slotID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEquipment, slotID)
	}
	return eq, nil
}

// enhanceRule is how one category becomes a notification
// args yields the template arguments after the level label
type enhanceRule struct {
	key      string
	priority notice.Priority
	args     func(level float64, s event.SlotStats) []any
}

var enhanceRules = map[Equipment]enhanceRule{
	EquipmentPhysical: {
		key:      "Enhance_Physical",
		priority: notice.PriorityEnhancePhysical,
		args: func(level float64, s event.SlotStats) []any {
			return []any{s.PhysicalDamage * 100 * level, s.PhysicalAttackSpeed * 100 * level}
		},
	},
	EquipmentOptical: {
		key:      "Enhance_Optical",
		priority: notice.PriorityEnhanceOptical,
		args: func(level float64, s event.SlotStats) []any {
			return []any{s.OpticalDamage * 100 * level, s.OpticalAttackSpeed * 100 * level}
		},
	},
	EquipmentForceField: {
		key:      "Enhance_ForceField",
		priority: notice.PriorityEnhanceForceField,
		args: func(level float64, s event.SlotStats) []any {
			return []any{s.SensorRange * level}
		},
	},
	EquipmentCoreTech: {
		key:      "Enhance_CoreTech",
		priority: notice.PriorityEnhanceCoreTech,
		args: func(level float64, s event.SlotStats) []any {
			return []any{s.MaxCoreEnergy * 100 * level, s.GenerateCoreValue * level}
		},
	},
}

// LevelLabel renders a slot level, or the max label once capped
func LevelLabel(level, maxLevel int) string {
	if maxLevel > level {
		return strconv.Itoa(level)
	}
	return parameter.MaxLevelLabel
}
