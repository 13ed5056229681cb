// Package manifest reads declarative collection specs: the validator and the
// indexes each collection should have, written as MongoDB Extended JSON.
//
//	{
//	  "collections": [
//	    {
//	      "name": "users",
//	      "dropOldIndexes": true,
//	      "validator": {"bsonType": "object", "required": ["name"], "properties": {...}},
//	      "indexes": [{"key": {"name": "text"}}]
//	    },
//	    {"name": "admins", "mergeWith": ["users"], "validator": {...}}
//	  ]
//	}
package manifest

import (
	"errors"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"mongoschema/pkg/jsonschema"
	"mongoschema/pkg/schema"
)

var ErrInvalidManifest = errors.New("invalid manifest")

type Manifest struct {
	Collections []Collection `bson:"collections"`
}

type Collection struct {
	Name           string                 `bson:"name"`
	DropOldIndexes bool                   `bson:"dropOldIndexes,omitempty"`
	Validator      *jsonschema.JSONSchema `bson:"validator,omitempty"`
	MergeWith      []string               `bson:"mergeWith,omitempty"`
	Indexes        []Index                `bson:"indexes,omitempty"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a relaxed or canonical Extended JSON manifest and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := bson.UnmarshalExtJSON(data, false, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that names are set and unique, that every collection has a
// validator or merges one, that every index has keys and that mergeWith only
// refers to collections declared earlier.
func (m *Manifest) Validate() error {
	seen := map[string]bool{}
	for i, c := range m.Collections {
		if c.Name == "" {
			return fmt.Errorf("%w: collection #%d has no name", ErrInvalidManifest, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: collection %q is declared twice", ErrInvalidManifest, c.Name)
		}
		if c.Validator == nil && len(c.MergeWith) == 0 {
			return fmt.Errorf("%w: collection %q has neither a validator nor mergeWith", ErrInvalidManifest, c.Name)
		}
		for _, source := range c.MergeWith {
			if !seen[source] {
				return fmt.Errorf("%w: collection %q merges %q, which is not declared before it", ErrInvalidManifest, c.Name, source)
			}
		}
		for j, idx := range c.Indexes {
			if len(idx.Key) == 0 {
				return fmt.Errorf("%w: index #%d of %q has no key", ErrInvalidManifest, j, c.Name)
			}
		}
		seen[c.Name] = true
	}
	return nil
}

// Add appends c and validates the result. Go code uses it to sync schemas
// synthesized from struct types.
func (m *Manifest) Add(c Collection) error {
	m.Collections = append(m.Collections, c)
	if err := m.Validate(); err != nil {
		m.Collections = m.Collections[:len(m.Collections)-1]
		return err
	}
	return nil
}

func (m *Manifest) Collection(name string) (*Collection, bool) {
	for i := range m.Collections {
		if m.Collections[i].Name == name {
			return &m.Collections[i], true
		}
	}
	return nil, false
}

// Names lists the collections in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Collections))
	for i, c := range m.Collections {
		names[i] = c.Name
	}
	return names
}

// Schema resolves the $jsonSchema of the named collection: its own validator
// with every mergeWith source merged in, in order. A validator without a
// bsonType is an object.
func (m *Manifest) Schema(name string) (*jsonschema.JSONSchema, error) {
	c, ok := m.Collection(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", ErrInvalidManifest, name)
	}
	s := c.Validator.Clone()
	if s == nil {
		s = &jsonschema.JSONSchema{}
	}
	if len(s.BsonType) == 0 {
		s.BsonType = jsonschema.Types(jsonschema.Object)
	}
	for _, source := range c.MergeWith {
		resolved, err := m.Schema(source)
		if err != nil {
			return nil, err
		}
		s = schema.Merge(s, resolved)
	}
	return s, nil
}
