package catalog

import (
	"fmt"
	"sort"
)

// Book holds one catalog per operator plus the shared speaker name table
type Book struct {
	operators map[string]*Catalog
	names     map[string]string
}

// NewBook assembles a book from per-operator catalogs and a name table
func NewBook(operators map[string]*Catalog, names map[string]string) *Book {
	b := &Book{
		operators: make(map[string]*Catalog, len(operators)),
		names:     make(map[string]string, len(names)),
	}
	for k, v := range operators {
		b.operators[k] = v
	}
	for k, v := range names {
		b.names[k] = v
	}
	return b
}

// For returns the catalog of the named operator
func (b *Book) For(operator string) (*Catalog, error) {
	c, ok := b.operators[operator]
	if !ok {
		return nil, fmt.Errorf("%w: operator %q", ErrNotFound, operator)
	}
	return c, nil
}

// Name returns the localized display name for key, or key itself when absent
func (b *Book) Name(key string) string {
	if name, ok := b.names[key]; ok {
		return name
	}
	return key
}

// Operators returns the operator names with catalogs, sorted
func (b *Book) Operators() []string {
	names := make([]string, 0, len(b.operators))
	for k := range b.operators {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
