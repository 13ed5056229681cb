package jsonschema

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func sample() *JSONSchema {
	return &JSONSchema{
		BsonType:             Types(Object),
		Required:             []string{"name"},
		AdditionalProperties: Allow(false),
		Properties: map[string]*JSONSchema{
			"name": {BsonType: Types(String, Null), MaxLength: Ptr(64)},
			"tags": {
				BsonType:    Types(Array),
				Items:       ItemsOf(&JSONSchema{BsonType: Types(String)}),
				UniqueItems: Ptr(true),
			},
			"pair": {
				BsonType: Types(Array),
				Items: &Items{Tuple: []*JSONSchema{
					{BsonType: Types(Int)},
					{Enum: []any{"left", "right"}},
				}},
			},
			"extra": {
				BsonType:             Types(Object),
				AdditionalProperties: SchemaOf(&JSONSchema{BsonType: Types(Date)}),
			},
		},
	}
}

func TestBsonTypeEncoding(t *testing.T) {
	tests := []struct {
		name  string
		types BsonTypes
		want  bsontype.Type
	}{
		{"single type is a string", Types(String), bsontype.String},
		{"several types are an array", Types(String, Null), bsontype.Array},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(&JSONSchema{BsonType: tc.types})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			v := bson.Raw(raw).Lookup("bsonType")
			if v.Type != tc.want {
				t.Errorf("bsonType encoded as %s, want %s", v.Type, tc.want)
			}
			var back JSONSchema
			if err := bson.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(back.BsonType, tc.types) {
				t.Errorf("decoded %v, want %v", back.BsonType, tc.types)
			}
		})
	}
}

func TestBSONRoundTrip(t *testing.T) {
	s := sample()
	raw, err := bson.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if v := bson.Raw(raw).Lookup("additionalProperties"); v.Type != bsontype.Boolean || v.Boolean() {
		t.Errorf("additionalProperties encoded as %s", v)
	}
	if v := bson.Raw(raw).Lookup("properties", "pair", "items"); v.Type != bsontype.Array {
		t.Errorf("tuple items encoded as %s", v.Type)
	}
	var back JSONSchema
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&back, s) {
		t.Errorf("round trip = %+v, want %+v", &back, s)
	}
}

func TestBSONDecodeErrors(t *testing.T) {
	docs := []bson.D{
		{{Key: "bsonType", Value: 5}},
		{{Key: "additionalProperties", Value: "yes"}},
		{{Key: "items", Value: true}},
	}
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var s JSONSchema
		if err := bson.Unmarshal(raw, &s); err == nil {
			t.Errorf("decoding %v succeeded", doc)
		}
	}
}

func TestJSONEncoding(t *testing.T) {
	s := &JSONSchema{
		BsonType:             Types(Object),
		Required:             []string{"a"},
		AdditionalProperties: Allow(false),
		Properties: map[string]*JSONSchema{
			"a": {BsonType: Types(String, Null)},
			"b": {BsonType: Types(Array), Items: ItemsOf(&JSONSchema{BsonType: Types(Int)})},
		},
	}
	want := `{"bsonType":"object","required":["a"],"additionalProperties":false,` +
		`"properties":{"a":{"bsonType":["string","null"]},"b":{"bsonType":"array","items":{"bsonType":"int"}}}}`
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
	var back JSONSchema
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&back, s) {
		t.Errorf("decoded %+v, want %+v", &back, s)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sample()
	c := s.Clone()
	c.Required[0] = "changed"
	c.Properties["name"].BsonType[0] = Int
	*c.Properties["name"].MaxLength = 1
	c.Properties["pair"].Items.Tuple[1].Enum[0] = "up"
	c.Properties["extra"].AdditionalProperties.Schema.Title = "changed"
	if !reflect.DeepEqual(s, sample()) {
		t.Errorf("modifying the clone changed the original: %+v", s)
	}
	if (*JSONSchema)(nil).Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestOverlay(t *testing.T) {
	base := &JSONSchema{BsonType: Types(String), MinLength: Ptr(1), Description: "base"}
	top := &JSONSchema{MaxLength: Ptr(5), Description: "top"}
	got := Overlay(base, top)
	want := &JSONSchema{BsonType: Types(String), MinLength: Ptr(1), MaxLength: Ptr(5), Description: "top"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("overlay = %+v, want %+v", got, want)
	}
	if base.MaxLength != nil || base.Description != "base" {
		t.Errorf("overlay modified its base: %+v", base)
	}
	if !reflect.DeepEqual(Overlay(nil, top), top) || !reflect.DeepEqual(Overlay(base, nil), base) {
		t.Error("overlay with a nil side should copy the other side")
	}
}

func TestNullable(t *testing.T) {
	if !Types(String, Null).WithNull().Has(Null) || len(Types(String, Null).WithNull()) != 2 {
		t.Error("WithNull should not add a second null")
	}
	tests := []struct {
		schema *JSONSchema
		want   bool
	}{
		{&JSONSchema{BsonType: Types(String)}, false},
		{&JSONSchema{BsonType: Types(String).WithNull()}, true},
		{&JSONSchema{Enum: []any{"a", nil}}, true},
		{nil, false},
	}
	for _, tc := range tests {
		if got := tc.schema.IsNullable(); got != tc.want {
			t.Errorf("IsNullable(%+v) = %v, want %v", tc.schema, got, tc.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	fromStruct, err := Canonical(bson.M{"$jsonSchema": &JSONSchema{
		BsonType:   Types(Object),
		Properties: map[string]*JSONSchema{"a": {BsonType: Types(String)}},
	}})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	fromDoc, err := Canonical(bson.D{{Key: "$jsonSchema", Value: bson.D{
		{Key: "properties", Value: bson.D{{Key: "a", Value: bson.D{{Key: "bsonType", Value: "string"}}}}},
		{Key: "bsonType", Value: "object"},
	}}})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if !reflect.DeepEqual(fromStruct, fromDoc) {
		t.Errorf("canonical forms differ:\n%v\n%v", fromStruct, fromDoc)
	}
	if _, err := Canonical(42); err == nil {
		t.Error("a non-document should not canonicalize")
	}
}

func TestValid(t *testing.T) {
	if !Decimal.Valid() || BsonType("text").Valid() {
		t.Error("Valid does not match the known aliases")
	}
}

func TestPropertiesEncodeInStableOrder(t *testing.T) {
	s := &JSONSchema{
		BsonType: Types(Object),
		Properties: map[string]*JSONSchema{
			"zeta":  {BsonType: Types(String)},
			"alpha": {BsonType: Types(Int)},
			"_id":   {BsonType: Types(ObjectID)},
			"mid": {
				BsonType: Types(Object),
				Properties: map[string]*JSONSchema{
					"b": {BsonType: Types(Bool)},
					"a": {BsonType: Types(Bool)},
				},
			},
		},
		PatternProperties: map[string]*JSONSchema{
			"^y_": {BsonType: Types(String)},
			"^x_": {BsonType: Types(String)},
		},
		MinItems: Ptr(1),
	}

	first, err := bson.MarshalExtJSON(s, false, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		again, err := bson.MarshalExtJSON(s, false, false)
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("encoding changed between runs:\n%s\n%s", first, again)
		}
	}

	data, err := bson.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	keysOf := func(raw bson.Raw) []string {
		elems, err := raw.Elements()
		if err != nil {
			t.Fatal(err)
		}
		keys := make([]string, len(elems))
		for i, e := range elems {
			keys[i] = e.Key()
		}
		return keys
	}
	doc := bson.Raw(data)
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"top level", keysOf(doc), []string{"bsonType", "properties", "patternProperties", "minItems"}},
		{"properties", keysOf(doc.Lookup("properties").Document()), []string{"_id", "alpha", "mid", "zeta"}},
		{"nested", keysOf(doc.Lookup("properties", "mid", "properties").Document()), []string{"a", "b"}},
		{"patternProperties", keysOf(doc.Lookup("patternProperties").Document()), []string{"^x_", "^y_"}},
	}
	for _, tc := range tests {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Errorf("%s: keys = %v, want %v", tc.name, tc.got, tc.want)
		}
	}

	var decoded JSONSchema
	if err := bson.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&decoded, s) {
		t.Errorf("round trip = %+v, want %+v", decoded, s)
	}
}
