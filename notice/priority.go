package notice

import "fmt"

// Priority is the urgency class of a notification
// Lower values are more urgent and drain first
type Priority int

const (
	PriorityWave              Priority = 1
	PriorityDurability        Priority = 2
	PriorityEnhancePhysical   Priority = 3
	PriorityEnhanceOptical    Priority = 4
	PriorityEnhanceForceField Priority = 5
	PriorityEnhanceCoreTech   Priority = 6
	PriorityTutorial          Priority = 7
)

var priorityNames = map[Priority]string{
	PriorityWave:              "Wave",
	PriorityDurability:        "Durability",
	PriorityEnhancePhysical:   "Enhance_Physical",
	PriorityEnhanceOptical:    "Enhance_Optical",
	PriorityEnhanceForceField: "Enhance_ForceField",
	PriorityEnhanceCoreTech:   "Enhance_CoreTech",
	PriorityTutorial:          "Tutorial",
}

// Priorities lists every class in urgency order
func Priorities() []Priority {
	return []Priority{
		PriorityWave,
		PriorityDurability,
		PriorityEnhancePhysical,
		PriorityEnhanceOptical,
		PriorityEnhanceForceField,
		PriorityEnhanceCoreTech,
		PriorityTutorial,
	}
}

// String returns the canonical class name, also used as string table key
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Valid reports whether p is one of the fixed classes
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Mergeable reports whether a new notification of this class replaces a
// queued one of the same class instead of stacking behind it
// Only equipment enhancement readouts coalesce; a slot's level supersedes itself
func (p Priority) Mergeable() bool {
	switch p {
	case PriorityEnhancePhysical, PriorityEnhanceOptical, PriorityEnhanceForceField, PriorityEnhanceCoreTech:
		return true
	}
	return false
}

// ParsePriority resolves a canonical class name
func ParsePriority(name string) (Priority, error) {
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", name)
}
