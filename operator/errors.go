package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEquipment marks an enhancement event for a slot with no formatter
	// This is a content authoring error, not a runtime condition
	ErrUnknownEquipment = errors.New("unknown equipment slot")

	// ErrNotBound is returned when handling events before Init
	ErrNotBound = errors.New("operator not initialized")
)

// ConfigError reports an operator roster or profile misconfiguration
// Surfaced at initialization and never recovered from
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("operator config %s: %s", e.Field, e.Reason)
}
