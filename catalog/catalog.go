// Package catalog maps message keys to localized operator lines
//
// An entry holds one or more variants; Resolve picks one through the
// injected Selector. Catalogs are immutable after construction.
package catalog

import (
	"fmt"
	"sort"
)

// Variant is one localized line with its voice clip key
type Variant struct {
	Text     string `toml:"text" yaml:"text"`
	VoiceKey string `toml:"voice" yaml:"voice"`
}

// Catalog is the read-only key to variants table of one operator
type Catalog struct {
	entries  map[string][]Variant
	selector Selector
}

// New validates entries and builds a catalog
// A nil selector falls back to a randomly seeded one
func New(entries map[string][]Variant, selector Selector) (*Catalog, error) {
	if selector == nil {
		selector = NewRandomSelector()
	}

	owned := make(map[string][]Variant, len(entries))
	for key, variants := range entries {
		if key == "" {
			return nil, &ConfigError{Reason: "empty message key"}
		}
		if len(variants) == 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("key %q has no variants", key)}
		}
		owned[key] = append([]Variant(nil), variants...)
	}

	return &Catalog{entries: owned, selector: selector}, nil
}

// Resolve returns one variant for key
func (c *Catalog) Resolve(key string) (Variant, error) {
	variants, ok := c.entries[key]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	idx := c.selector.Select(len(variants))
	if idx < 0 || idx >= len(variants) {
		idx = 0
	}
	return variants[idx], nil
}

// Has reports whether key has an entry
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of keys
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Keys returns all keys sorted
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
