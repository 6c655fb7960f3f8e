package operator

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/vi-operator/catalog"
	"github.com/lixenwraith/vi-operator/parameter"
)

// Roster pairs operator numbers with operator names by index
// A mission's operator number is a sum of roster numbers; any operator whose
// number is part of that sum may be picked
type Roster struct {
	Numbers []int
	Names   []string
}

// Validate checks that numbers and names line up
func (r Roster) Validate() error {
	if len(r.Numbers) != len(r.Names) {
		return &ConfigError{
			Field:  "roster",
			Reason: fmt.Sprintf("%d operator numbers but %d operator names", len(r.Numbers), len(r.Names)),
		}
	}
	if len(r.Numbers) == 0 {
		return &ConfigError{Field: "roster", Reason: "no operators"}
	}
	for i, n := range r.Numbers {
		if n <= 0 {
			return &ConfigError{Field: "roster", Reason: fmt.Sprintf("operator %q has non-positive number %d", r.Names[i], n)}
		}
	}
	return nil
}

// Candidates decomposes an operator number into roster numbers, largest
// roster entry first, and returns the matching names in that order
func (r Roster) Candidates(operatorNumber int) []string {
	var names []string
	for i := len(r.Numbers) - 1; i >= 0; i-- {
		if operatorNumber-r.Numbers[i] < 0 {
			continue
		}
		operatorNumber -= r.Numbers[i]
		names = append(names, r.Names[i])
	}
	return names
}

// Pick chooses one candidate through sel
func (r Roster) Pick(operatorNumber int, sel catalog.Selector) (string, error) {
	names := r.Candidates(operatorNumber)
	if len(names) == 0 {
		return "", &ConfigError{Field: "operator_number", Reason: fmt.Sprintf("%d matches no roster operator", operatorNumber)}
	}
	idx := sel.Select(len(names))
	if idx < 0 || idx >= len(names) {
		idx = 0
	}
	return names[idx], nil
}

// Profile is the presentation of one operator
type Profile struct {
	Portrait string
	// VoiceSet names the wave voice lines, which may be shared between operators
	VoiceSet string
}

// DefaultProfiles returns the stock operator profiles
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"James":  {Portrait: "oper_cha_james", VoiceSet: "James"},
		"Marion": {Portrait: "oper_cha_marion", VoiceSet: "Marion"},
		"Fred":   {Portrait: "oper_cha_frederick", VoiceSet: "James"},
	}
}

// WaveVoices returns the numbered wave voice keys of a voice set
func WaveVoices(voiceSet string) []string {
	keys := make([]string, parameter.WaveVoiceCount)
	for i := range keys {
		keys[i] = fmt.Sprintf("Operator_%s_%d", voiceSet, i+1)
	}
	return keys
}

// validateProfiles ensures every roster name can be presented
func validateProfiles(r Roster, profiles map[string]Profile) error {
	for _, name := range r.Names {
		if _, ok := profiles[name]; !ok {
			return &ConfigError{Field: "profiles", Reason: fmt.Sprintf("operator %q has no portrait", name)}
		}
	}
	if slices.Contains(r.Names, "") {
		return &ConfigError{Field: "roster", Reason: "empty operator name"}
	}
	return nil
}
