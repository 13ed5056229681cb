package schema

import (
	"mongoschema/pkg/jsonschema"
)

// ClassMetadata is attached to a struct type with Schema. Besides the object
// keywords it carries the options that shape how the type's schema is
// synthesized.
type ClassMetadata struct {
	Title                string
	Description          string
	Required             []string
	AdditionalProperties *jsonschema.BoolOrSchema
	MaxProperties        *int
	MinProperties        *int
	PatternProperties    map[string]*jsonschema.JSONSchema

	// IncludeDefaultIDProperty adds `_id: {bsonType: "objectId"}` unless the
	// type declares its own _id.
	IncludeDefaultIDProperty bool
	// MergeWith schemas are merged into the synthesized schema in order.
	MergeWith []*jsonschema.JSONSchema
	// RenameProperties, PickProperties and OmitProperties run after merging,
	// in that order.
	RenameProperties map[string]string
	PickProperties   []string
	OmitProperties   []string
}

func (m ClassMetadata) clone() ClassMetadata {
	c := m
	c.Required = append([]string(nil), m.Required...)
	c.AdditionalProperties = m.AdditionalProperties.Clone()
	c.PatternProperties = jsonschema.CloneProperties(m.PatternProperties)
	c.MergeWith = append([]*jsonschema.JSONSchema(nil), m.MergeWith...)
	if m.RenameProperties != nil {
		c.RenameProperties = make(map[string]string, len(m.RenameProperties))
		for k, v := range m.RenameProperties {
			c.RenameProperties[k] = v
		}
	}
	c.PickProperties = append([]string(nil), m.PickProperties...)
	c.OmitProperties = append([]string(nil), m.OmitProperties...)
	return c
}

// PropertyMetadata is the schema fragment collected for one field.
type PropertyMetadata struct {
	// Key is the document key, taken from the field's bson tag.
	Key string
	// Field is the Go field name.
	Field  string
	Schema *jsonschema.JSONSchema
}

type PropertyOptions struct {
	IsNullable bool
	// JSONSchema is copied as the property's fragment. When it has no
	// bsonType, one is inferred from the Go field type.
	JSONSchema *jsonschema.JSONSchema
}

type EnumPropertyOptions struct {
	IsNullable bool
	IsArray    bool
	// Values is a slice/array of allowed values, or a map whose values are
	// the allowed values.
	Values any
}

type ArrayPropertyOptions struct {
	// ItemsJSONSchema must carry a bsonType.
	ItemsJSONSchema *jsonschema.JSONSchema
	// ArrayJSONSchema keywords are laid over the array fragment. Its bsonType
	// is ignored.
	ArrayJSONSchema *jsonschema.JSONSchema
}
