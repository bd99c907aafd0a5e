package metadata

import (
	"fmt"
	"io"
	"os"

	"github.com/go-json-experiment/json"
)

// Operation is the reflection requested at a call site.
type Operation string

const (
	// OpProperties reflects property descriptors (propertiesOf<T>()).
	OpProperties Operation = "properties"
	// OpValues enumerates literal values (valuesOf<T>()).
	OpValues Operation = "values"
)

// Site is one reflection call site resolved by the type-resolution layer.
type Site struct {
	// ID identifies the call site, typically "file:line:column".
	ID   string    `json:"id"`
	Op   Operation `json:"op"`
	Type Metadata  `json:"type"`
}

// Document is the reflection input handed over by the type-resolution
// layer: a registry of named types plus the call sites to reflect.
type Document struct {
	Types map[string]*Metadata `json:"types,omitempty"`
	Sites []Site               `json:"sites"`
}

// Registry returns a TypeRegistry over the document's named types.
func (d *Document) Registry() *TypeRegistry {
	r := NewTypeRegistry()
	for name, t := range d.Types {
		r.Register(name, t)
	}
	return r
}

// Validate checks every named type and site.
func (d *Document) Validate() error {
	for name, t := range d.Types {
		if err := t.validate("types." + name); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(d.Sites))
	for i := range d.Sites {
		s := &d.Sites[i]
		if s.ID == "" {
			return fmt.Errorf("sites[%d]: id must not be empty", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("sites[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		if s.Op != OpProperties && s.Op != OpValues {
			return fmt.Errorf("site %q: unknown op %q", s.ID, s.Op)
		}
		if err := s.Type.validate("site " + s.ID); err != nil {
			return err
		}
	}
	return nil
}

// ReadDocument decodes and validates a reflection document.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.UnmarshalRead(r, &doc, json.RejectUnknownMembers(true)); err != nil {
		return nil, fmt.Errorf("decoding reflection document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reflection document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads a reflection document from a file.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reflection document %q: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
