// Package jsonschema holds the subset of JSON Schema (draft 4) keywords that
// MongoDB accepts inside a $jsonSchema validator, with bsonType in place of
// type.
package jsonschema

import (
	"reflect"
)

// BsonType is a BSON type alias as understood by the $jsonSchema bsonType keyword.
type BsonType string

const (
	Double     BsonType = "double"
	String     BsonType = "string"
	Object     BsonType = "object"
	Array      BsonType = "array"
	BinData    BsonType = "binData"
	ObjectID   BsonType = "objectId"
	Bool       BsonType = "bool"
	Boolean    BsonType = "boolean"
	Date       BsonType = "date"
	Null       BsonType = "null"
	Regex      BsonType = "regex"
	JavaScript BsonType = "javascript"
	Number     BsonType = "number"
	Int        BsonType = "int"
	Timestamp  BsonType = "timestamp"
	Long       BsonType = "long"
	Decimal    BsonType = "decimal"
)

var knownBsonTypes = map[BsonType]bool{
	Double: true, String: true, Object: true, Array: true, BinData: true,
	ObjectID: true, Bool: true, Boolean: true, Date: true, Null: true,
	Regex: true, JavaScript: true, Number: true, Int: true, Timestamp: true,
	Long: true, Decimal: true,
}

// Valid reports whether t is one of the aliases MongoDB recognises.
func (t BsonType) Valid() bool {
	return knownBsonTypes[t]
}

// JSONSchema is a MongoDB $jsonSchema document. Unset keywords are omitted
// from both the BSON and the JSON encoding.
type JSONSchema struct {
	// generic
	BsonType    BsonTypes     `bson:"bsonType,omitempty" json:"bsonType,omitempty"`
	Title       string        `bson:"title,omitempty" json:"title,omitempty"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Enum        []any         `bson:"enum,omitempty" json:"enum,omitempty"`
	AllOf       []*JSONSchema `bson:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf       []*JSONSchema `bson:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf       []*JSONSchema `bson:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not         *JSONSchema   `bson:"not,omitempty" json:"not,omitempty"`

	// number
	MultipleOf       *float64 `bson:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `bson:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum *bool    `bson:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `bson:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum *bool    `bson:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`

	// string
	MaxLength *int   `bson:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `bson:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `bson:"pattern,omitempty" json:"pattern,omitempty"`

	// object
	MaxProperties        *int                   `bson:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties        *int                   `bson:"minProperties,omitempty" json:"minProperties,omitempty"`
	Required             []string               `bson:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *BoolOrSchema          `bson:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`
	Properties           map[string]*JSONSchema `bson:"properties,omitempty" json:"properties,omitempty"`
	PatternProperties    map[string]*JSONSchema `bson:"patternProperties,omitempty" json:"patternProperties,omitempty"`

	// array
	AdditionalItems *BoolOrSchema `bson:"additionalItems,omitempty" json:"additionalItems,omitempty"`
	Items           *Items        `bson:"items,omitempty" json:"items,omitempty"`
	MaxItems        *int          `bson:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems        *int          `bson:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems     *bool         `bson:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`
}

// Clone returns a deep copy of s. Enum values are copied shallowly.
func (s *JSONSchema) Clone() *JSONSchema {
	if s == nil {
		return nil
	}
	c := *s
	if s.BsonType != nil {
		c.BsonType = append(BsonTypes{}, s.BsonType...)
	}
	if s.Enum != nil {
		c.Enum = append([]any(nil), s.Enum...)
	}
	c.AllOf = cloneList(s.AllOf)
	c.AnyOf = cloneList(s.AnyOf)
	c.OneOf = cloneList(s.OneOf)
	c.Not = s.Not.Clone()
	c.MultipleOf = clonePtr(s.MultipleOf)
	c.Maximum = clonePtr(s.Maximum)
	c.ExclusiveMaximum = clonePtr(s.ExclusiveMaximum)
	c.Minimum = clonePtr(s.Minimum)
	c.ExclusiveMinimum = clonePtr(s.ExclusiveMinimum)
	c.MaxLength = clonePtr(s.MaxLength)
	c.MinLength = clonePtr(s.MinLength)
	c.MaxProperties = clonePtr(s.MaxProperties)
	c.MinProperties = clonePtr(s.MinProperties)
	if s.Required != nil {
		c.Required = append([]string(nil), s.Required...)
	}
	c.AdditionalProperties = s.AdditionalProperties.Clone()
	c.Properties = CloneProperties(s.Properties)
	c.PatternProperties = CloneProperties(s.PatternProperties)
	c.AdditionalItems = s.AdditionalItems.Clone()
	c.Items = s.Items.Clone()
	c.MaxItems = clonePtr(s.MaxItems)
	c.MinItems = clonePtr(s.MinItems)
	c.UniqueItems = clonePtr(s.UniqueItems)
	return &c
}

// CloneProperties deep copies a property map. A nil map stays nil.
func CloneProperties(props map[string]*JSONSchema) map[string]*JSONSchema {
	if props == nil {
		return nil
	}
	out := make(map[string]*JSONSchema, len(props))
	for k, v := range props {
		out[k] = v.Clone()
	}
	return out
}

func cloneList(list []*JSONSchema) []*JSONSchema {
	if list == nil {
		return nil
	}
	out := make([]*JSONSchema, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Overlay returns a copy of base where every keyword set on top replaces the
// keyword of base. Either side may be nil.
func Overlay(base, top *JSONSchema) *JSONSchema {
	if base == nil {
		return top.Clone()
	}
	out := base.Clone()
	if top == nil {
		return out
	}
	src := reflect.ValueOf(top.Clone()).Elem()
	dst := reflect.ValueOf(out).Elem()
	for i := 0; i < src.NumField(); i++ {
		if f := src.Field(i); !f.IsZero() {
			dst.Field(i).Set(f)
		}
	}
	return out
}

// IsNullable reports whether null is one of the accepted bson types or enum values.
func (s *JSONSchema) IsNullable() bool {
	if s == nil {
		return false
	}
	if s.BsonType.Has(Null) {
		return true
	}
	for _, v := range s.Enum {
		if v == nil {
			return true
		}
	}
	return false
}

// Ptr is a small helper for the optional numeric and boolean keywords.
func Ptr[T any](v T) *T {
	return &v
}
