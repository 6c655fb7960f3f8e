package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// bookDoc is the on-disk layout shared by the TOML and YAML formats
//
//	[names]
//	Enhance_Physical = "Physical Module"
//
//	[[operators.James.durability80]]
//	text  = "Hull at 80 percent."
//	voice = "james_durability80"
type bookDoc struct {
	Names     map[string]string               `toml:"names" yaml:"names"`
	Operators map[string]map[string][]Variant `toml:"operators" yaml:"operators"`
}

// LoadTOML decodes a book from TOML
func LoadTOML(r io.Reader, selector Selector) (*Book, error) {
	var doc bookDoc
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode toml catalog: %w", err)
	}
	return doc.build("toml", selector)
}

// LoadYAML decodes a book from YAML
func LoadYAML(r io.Reader, selector Selector) (*Book, error) {
	var doc bookDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return doc.build("yaml", selector)
}

// LoadFile picks the decoder from the file extension
func LoadFile(path string, selector Selector) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(bytes.NewReader(data), selector)
	case ".yaml", ".yml":
		return LoadYAML(bytes.NewReader(data), selector)
	default:
		return nil, &ConfigError{Source: path, Reason: "unsupported catalog extension"}
	}
}

func (d *bookDoc) build(source string, selector Selector) (*Book, error) {
	if len(d.Operators) == 0 {
		return nil, &ConfigError{Source: source, Reason: "no operators defined"}
	}
	if selector == nil {
		selector = NewRandomSelector()
	}

	ops := make(map[string]*Catalog, len(d.Operators))
	for name, entries := range d.Operators {
		c, err := New(entries, selector)
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", name, err)
		}
		ops[name] = c
	}
	return NewBook(ops, d.Names), nil
}
