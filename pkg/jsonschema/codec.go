package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// BsonTypes is the value of the bsonType keyword. A single type is encoded as
// a plain string, several types as an array.
type BsonTypes []BsonType

// Types is shorthand for building a BsonTypes value.
func Types(types ...BsonType) BsonTypes {
	return BsonTypes(types)
}

// Has reports whether t is among the types.
func (ts BsonTypes) Has(t BsonType) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// WithNull returns the types with null appended unless it is already present.
func (ts BsonTypes) WithNull() BsonTypes {
	if ts.Has(Null) {
		return ts
	}
	out := make(BsonTypes, 0, len(ts)+1)
	out = append(out, ts...)
	return append(out, Null)
}

func (ts BsonTypes) strings() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func (ts BsonTypes) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if len(ts) == 1 {
		return bson.MarshalValue(string(ts[0]))
	}
	return bson.MarshalValue(ts.strings())
}

func (ts *BsonTypes) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*ts = BsonTypes{BsonType(raw.StringValue())}
	case bsontype.Array:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return fmt.Errorf("failed to decode bsonType list: %w", err)
		}
		out := make(BsonTypes, len(list))
		for i, s := range list {
			out[i] = BsonType(s)
		}
		*ts = out
	default:
		return fmt.Errorf("bsonType must be a string or an array, got %s", t)
	}
	return nil
}

func (ts BsonTypes) MarshalJSON() ([]byte, error) {
	if len(ts) == 1 {
		return json.Marshal(string(ts[0]))
	}
	return json.Marshal(ts.strings())
}

func (ts *BsonTypes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = BsonTypes{BsonType(s)}
		return nil
	}
	var list []BsonType
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("bsonType must be a string or an array: %w", err)
	}
	*ts = list
	return nil
}

// BoolOrSchema is the value of additionalProperties and additionalItems:
// either a boolean or a schema. When Schema is set, Allowed is ignored.
type BoolOrSchema struct {
	Allowed bool
	Schema  *JSONSchema
}

// Allow returns a boolean additionalProperties/additionalItems value.
func Allow(allowed bool) *BoolOrSchema {
	return &BoolOrSchema{Allowed: allowed}
}

// SchemaOf returns a schema-valued additionalProperties/additionalItems value.
func SchemaOf(s *JSONSchema) *BoolOrSchema {
	return &BoolOrSchema{Schema: s}
}

// IsTrue reports whether b is the literal true.
func (b *BoolOrSchema) IsTrue() bool {
	return b != nil && b.Schema == nil && b.Allowed
}

// IsFalse reports whether b is the literal false.
func (b *BoolOrSchema) IsFalse() bool {
	return b != nil && b.Schema == nil && !b.Allowed
}

// IsSchema reports whether b carries a schema.
func (b *BoolOrSchema) IsSchema() bool {
	return b != nil && b.Schema != nil
}

func (b *BoolOrSchema) Clone() *BoolOrSchema {
	if b == nil {
		return nil
	}
	return &BoolOrSchema{Allowed: b.Allowed, Schema: b.Schema.Clone()}
}

func (b BoolOrSchema) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if b.Schema != nil {
		return bson.MarshalValue(b.Schema)
	}
	return bson.MarshalValue(b.Allowed)
}

func (b *BoolOrSchema) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		*b = BoolOrSchema{Allowed: raw.Boolean()}
	case bsontype.EmbeddedDocument:
		var s JSONSchema
		if err := raw.Unmarshal(&s); err != nil {
			return err
		}
		*b = BoolOrSchema{Schema: &s}
	default:
		return fmt.Errorf("expected a boolean or a schema, got %s", t)
	}
	return nil
}

func (b BoolOrSchema) MarshalJSON() ([]byte, error) {
	if b.Schema != nil {
		return json.Marshal(b.Schema)
	}
	return json.Marshal(b.Allowed)
}

func (b *BoolOrSchema) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*b = BoolOrSchema{Allowed: data[0] == 't'}
		return nil
	}
	var s JSONSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = BoolOrSchema{Schema: &s}
	return nil
}

// Items is the value of the items keyword: one schema for every element, or a
// tuple of positional schemas.
type Items struct {
	Schema *JSONSchema
	Tuple  []*JSONSchema
}

// ItemsOf returns an items value that applies s to every element.
func ItemsOf(s *JSONSchema) *Items {
	return &Items{Schema: s}
}

func (it *Items) Clone() *Items {
	if it == nil {
		return nil
	}
	return &Items{Schema: it.Schema.Clone(), Tuple: cloneList(it.Tuple)}
}

func (it Items) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if it.Tuple != nil {
		return bson.MarshalValue(it.Tuple)
	}
	if it.Schema == nil {
		return bson.MarshalValue(bson.D{})
	}
	return bson.MarshalValue(it.Schema)
}

func (it *Items) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.EmbeddedDocument:
		var s JSONSchema
		if err := raw.Unmarshal(&s); err != nil {
			return err
		}
		*it = Items{Schema: &s}
	case bsontype.Array:
		var tuple []*JSONSchema
		if err := raw.Unmarshal(&tuple); err != nil {
			return err
		}
		*it = Items{Tuple: tuple}
	default:
		return fmt.Errorf("items must be a schema or an array of schemas, got %s", t)
	}
	return nil
}

func (it Items) MarshalJSON() ([]byte, error) {
	if it.Tuple != nil {
		return json.Marshal(it.Tuple)
	}
	if it.Schema == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(it.Schema)
}

func (it *Items) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tuple []*JSONSchema
		if err := json.Unmarshal(data, &tuple); err != nil {
			return err
		}
		*it = Items{Tuple: tuple}
		return nil
	}
	var s JSONSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*it = Items{Schema: &s}
	return nil
}

// plainSchema has the fields of JSONSchema without its methods.
type plainSchema JSONSchema

// keywords that follow properties and patternProperties in the encoding
var arrayKeywords = map[string]bool{
	"additionalItems": true,
	"items":           true,
	"maxItems":        true,
	"minItems":        true,
	"uniqueItems":     true,
}

// MarshalBSON encodes s with properties and patternProperties sorted by key,
// _id first, so that equal schemas always produce the same document.
func (s JSONSchema) MarshalBSON() ([]byte, error) {
	p := plainSchema(s)
	p.Properties, p.PatternProperties = nil, nil
	data, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	if len(s.Properties) == 0 && len(s.PatternProperties) == 0 {
		return data, nil
	}
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return nil, err
	}

	doc := make(bson.D, 0, len(elems)+2)
	inserted := false
	insert := func() {
		if len(s.Properties) > 0 {
			doc = append(doc, bson.E{Key: "properties", Value: orderedProperties(s.Properties)})
		}
		if len(s.PatternProperties) > 0 {
			doc = append(doc, bson.E{Key: "patternProperties", Value: orderedProperties(s.PatternProperties)})
		}
		inserted = true
	}
	for _, e := range elems {
		if !inserted && arrayKeywords[e.Key()] {
			insert()
		}
		doc = append(doc, bson.E{Key: e.Key(), Value: e.Value()})
	}
	if !inserted {
		insert()
	}
	return bson.Marshal(doc)
}

// propertyKeys returns the keys of props in encoding order: _id first, the
// rest sorted.
func propertyKeys(props map[string]*JSONSchema) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "_id" || keys[j] == "_id" {
			return keys[i] == "_id"
		}
		return keys[i] < keys[j]
	})
	return keys
}

func orderedProperties(props map[string]*JSONSchema) bson.D {
	doc := make(bson.D, 0, len(props))
	for _, k := range propertyKeys(props) {
		doc = append(doc, bson.E{Key: k, Value: props[k]})
	}
	return doc
}

// Canonical round-trips v through BSON into a bson.M so that two documents
// built differently (structs, bson.D, raw server replies) can be compared
// with reflect.DeepEqual.
func Canonical(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return m, nil
}
