package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a message key has no catalog entry
var ErrNotFound = errors.New("catalog key not found")

// ConfigError reports malformed catalog content found at load time
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "catalog: " + e.Reason
	}
	return fmt.Sprintf("catalog %s: %s", e.Source, e.Reason)
}
