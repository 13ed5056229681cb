package schema

import (
	"fmt"
	"reflect"
	"sort"

	"mongoschema/pkg/jsonschema"
)

// Schema attaches class metadata to the struct type of target, replacing
// any earlier metadata. Keys tagged `schema:"required"` stay required.
func (r *Registry) Schema(target any, meta ClassMetadata) error {
	t, err := structType(target)
	if err != nil {
		return fmt.Errorf("Schema must be used on a struct type: %w", err)
	}
	r.setClassMetadata(t, meta)
	return nil
}

// Property declares field as a property of target's schema.
func (r *Registry) Property(target any, field string, opts PropertyOptions) error {
	t, f, err := resolveField(target, field, "Property")
	if err != nil {
		return err
	}
	fragment := opts.JSONSchema.Clone()
	if fragment == nil {
		fragment = &jsonschema.JSONSchema{}
	}
	if err := inspectBsonType(fragment, opts.IsNullable, f); err != nil {
		return err
	}
	r.addPropertyMetadata(t, PropertyMetadata{Key: f.Key, Field: f.Name, Schema: fragment})
	return nil
}

// inspectBsonType fills in the bsonType from the Go field type when the
// fragment has none, and adds null for nullable properties.
func inspectBsonType(fragment *jsonschema.JSONSchema, nullable bool, f documentField) error {
	if len(fragment.BsonType) == 0 {
		bt, ok := scalarBsonType(f.Type)
		if !ok {
			return fmt.Errorf("%w at property %q (%s)", ErrUnsupportedType, f.Key, f.Type)
		}
		fragment.BsonType = jsonschema.Types(bt)
	}
	if nullable {
		fragment.BsonType = fragment.BsonType.WithNull()
	}
	return nil
}

// EnumProperty declares field as a property restricted to a set of values.
func (r *Registry) EnumProperty(target any, field string, opts EnumPropertyOptions) error {
	t, f, err := resolveField(target, field, "EnumProperty")
	if err != nil {
		return err
	}
	values, err := enumValues(opts.Values)
	if err != nil {
		return fmt.Errorf("EnumProperty at property %q: %w", f.Key, err)
	}
	r.addPropertyMetadata(t, PropertyMetadata{
		Key:    f.Key,
		Field:  f.Name,
		Schema: enumFragment(values, opts.IsNullable, opts.IsArray),
	})
	return nil
}

func enumFragment(values []any, nullable, isArray bool) *jsonschema.JSONSchema {
	if nullable {
		values = append(values, nil)
	}
	fragment := &jsonschema.JSONSchema{Enum: values}
	if isArray {
		return &jsonschema.JSONSchema{
			BsonType: jsonschema.Types(jsonschema.Array),
			Items:    jsonschema.ItemsOf(fragment),
		}
	}
	return fragment
}

// enumValues flattens a slice, array or map into the list of enum values.
// Map values are ordered by their keys.
func enumValues(values any) ([]any, error) {
	if values == nil {
		return nil, ErrInvalidEnumValues
	}
	v := reflect.ValueOf(values)
	var out []any
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			out = append(out, v.Index(i).Interface())
		}
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return lessKey(keys[i], keys[j])
		})
		for _, k := range keys {
			out = append(out, v.MapIndex(k).Interface())
		}
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidEnumValues, values)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w, got an empty %T", ErrInvalidEnumValues, values)
	}
	return out, nil
}

// lessKey orders map keys numerically for numeric kinds and by their
// printed form otherwise.
func lessKey(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.String:
		return a.String() < b.String()
	}
	return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
}

// ArrayProperty declares field as an array whose items follow ItemsJSONSchema.
func (r *Registry) ArrayProperty(target any, field string, opts ArrayPropertyOptions) error {
	t, f, err := resolveField(target, field, "ArrayProperty")
	if err != nil {
		return err
	}
	if opts.ItemsJSONSchema == nil || len(opts.ItemsJSONSchema.BsonType) == 0 {
		return fmt.Errorf("ArrayProperty at property %q: %w", f.Key, ErrMissingItemsType)
	}
	r.addPropertyMetadata(t, PropertyMetadata{
		Key:    f.Key,
		Field:  f.Name,
		Schema: arrayFragment(opts.ItemsJSONSchema, opts.ArrayJSONSchema),
	})
	return nil
}

func arrayFragment(items, extra *jsonschema.JSONSchema) *jsonschema.JSONSchema {
	fragment := &jsonschema.JSONSchema{
		BsonType: jsonschema.Types(jsonschema.Array),
		Items:    jsonschema.ItemsOf(items.Clone()),
	}
	if extra != nil {
		extra = extra.Clone()
		extra.BsonType = nil
		fragment = jsonschema.Overlay(fragment, extra)
	}
	return fragment
}

func resolveField(target any, field, decorator string) (reflect.Type, documentField, error) {
	t, err := structType(target)
	if err != nil {
		return nil, documentField{}, fmt.Errorf("%s must be used in a struct type: %w", decorator, err)
	}
	f, ok := lookupField(t, field)
	if !ok {
		return nil, documentField{}, fmt.Errorf("%s: %w %q in %s", decorator, ErrUnknownField, field, t)
	}
	return t, f, nil
}
