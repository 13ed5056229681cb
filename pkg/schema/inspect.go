package schema

import (
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mongoschema/pkg/jsonschema"
)

var (
	timeType      = reflect.TypeOf(time.Time{})
	dateTimeType  = reflect.TypeOf(primitive.DateTime(0))
	objectIDType  = reflect.TypeOf(primitive.ObjectID{})
	decimalType   = reflect.TypeOf(primitive.Decimal128{})
	timestampType = reflect.TypeOf(primitive.Timestamp{})
	regexType     = reflect.TypeOf(primitive.Regex{})
	binaryType    = reflect.TypeOf(primitive.Binary{})
)

// scalarBsonType maps a Go type to the bsonType it is stored as. Pointers are
// dereferenced. Composite types (structs, slices, maps) are not scalars.
func scalarBsonType(t reflect.Type) (jsonschema.BsonType, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType, dateTimeType:
		return jsonschema.Date, true
	case objectIDType:
		return jsonschema.ObjectID, true
	case decimalType:
		return jsonschema.Decimal, true
	case timestampType:
		return jsonschema.Timestamp, true
	case regexType:
		return jsonschema.Regex, true
	case binaryType:
		return jsonschema.BinData, true
	}
	switch t.Kind() {
	case reflect.String:
		return jsonschema.String, true
	case reflect.Bool:
		return jsonschema.Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return jsonschema.Number, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return jsonschema.BinData, true
		}
	}
	return "", false
}

// documentKey returns the key the driver uses for f, and false when the field
// is never encoded.
func documentKey(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("bson")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	return name, true
}

func isInline(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("bson"), ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "inline" {
			return true
		}
	}
	return false
}

// documentField is a field as it appears in the encoded document, with inline
// structs flattened.
type documentField struct {
	reflect.StructField
	Key string
}

func documentFields(t reflect.Type) []documentField {
	var out []documentField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, ok := documentKey(f)
		if !ok {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if isInline(f) && ft.Kind() == reflect.Struct {
			out = append(out, documentFields(ft)...)
			continue
		}
		out = append(out, documentField{StructField: f, Key: key})
	}
	return out
}

// lookupField finds a field by Go name, falling back to its document key.
func lookupField(t reflect.Type, name string) (documentField, bool) {
	fields := documentFields(t)
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range fields {
		if f.Key == name {
			return f, true
		}
	}
	return documentField{}, false
}
