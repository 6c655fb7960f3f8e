package operator

import "github.com/lixenwraith/vi-operator/parameter"

// DurabilityCrossing returns the catalog key of the threshold crossed downward
// between two normalized hit point readings
// Thresholds are checked highest first and the first match wins, so one
// update fires at most one warning even when several thresholds were passed
func DurabilityCrossing(prev, current float64) (key string, threshold float64, ok bool) {
	for i, t := range parameter.DurabilityThresholds {
		if current <= t && prev > t {
			return parameter.DurabilityKeys[i], t, true
		}
	}
	return "", 0, false
}
