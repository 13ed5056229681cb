package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"mongoschema/pkg/jsonschema"
)

// tagOptions is the parsed `schema:"..."` struct tag.
//
//	schema:"-"                          skip the field
//	schema:"nullable,required"
//	schema:"enum=admin|member"
//	schema:"bsonType=int,minimum=0"
//	schema:"minLength=1,maxLength=64,pattern=^[a-z]+$"
//	schema:"minItems=1,maxItems=10,uniqueItems"
//	schema:"description=shown to humans"
//
// Values cannot contain commas.
type tagOptions struct {
	skip     bool
	nullable bool
	required bool
	enum     []string
	keywords jsonschema.JSONSchema
}

func parseTag(tag string) (tagOptions, error) {
	var o tagOptions
	if tag == "-" {
		o.skip = true
		return o, nil
	}
	if tag == "" {
		return o, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		var err error
		switch key {
		case "":
		case "nullable":
			o.nullable = true
		case "required":
			o.required = true
		case "uniqueItems":
			o.keywords.UniqueItems = jsonschema.Ptr(true)
		case "enum":
			o.enum = strings.Split(value, "|")
		case "bsonType":
			for _, t := range strings.Split(value, "|") {
				bt := jsonschema.BsonType(t)
				if !bt.Valid() {
					return o, fmt.Errorf("%w: unknown bsonType %q", ErrInvalidTag, t)
				}
				o.keywords.BsonType = append(o.keywords.BsonType, bt)
			}
		case "description":
			o.keywords.Description = value
		case "pattern":
			o.keywords.Pattern = value
		case "minLength":
			o.keywords.MinLength, err = parseInt(value)
		case "maxLength":
			o.keywords.MaxLength, err = parseInt(value)
		case "minItems":
			o.keywords.MinItems, err = parseInt(value)
		case "maxItems":
			o.keywords.MaxItems, err = parseInt(value)
		case "minimum":
			o.keywords.Minimum, err = parseFloat(value)
		case "maximum":
			o.keywords.Maximum, err = parseFloat(value)
		default:
			return o, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
		if err != nil {
			return o, fmt.Errorf("%w: option %q: %v", ErrInvalidTag, key, err)
		}
		if hasValue && value == "" {
			return o, fmt.Errorf("%w: option %q needs a value", ErrInvalidTag, key)
		}
	}
	return o, nil
}

func parseInt(s string) (*int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseFloat(s string) (*float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Scan declares a property for every encoded field of target from its bson
// and schema struct tags. Nested struct types are scanned on demand unless
// they already have property metadata.
func (r *Registry) Scan(target any) error {
	t, err := structType(target)
	if err != nil {
		return fmt.Errorf("Scan must be used on a struct type: %w", err)
	}
	return r.scan(t, map[reflect.Type]bool{})
}

func (r *Registry) scan(t reflect.Type, visiting map[reflect.Type]bool) error {
	if visiting[t] {
		return fmt.Errorf("%w: %s", ErrRecursiveType, t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	// nothing is registered until every field has scanned cleanly
	var (
		props    []PropertyMetadata
		required []string
	)
	for _, f := range documentFields(t) {
		opts, err := parseTag(f.Tag.Get("schema"))
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t, f.Name, err)
		}
		if opts.skip {
			continue
		}
		fragment, err := r.fieldFragment(f, opts, visiting)
		if err != nil {
			return err
		}
		props = append(props, PropertyMetadata{Key: f.Key, Field: f.Name, Schema: fragment})
		if opts.required {
			required = append(required, f.Key)
		}
	}
	for _, p := range props {
		r.addPropertyMetadata(t, p)
	}
	if len(required) > 0 {
		r.addRequired(t, required...)
	}
	return nil
}

func (r *Registry) fieldFragment(f documentField, opts tagOptions, visiting map[reflect.Type]bool) (*jsonschema.JSONSchema, error) {
	ft := deref(f.Type)
	if opts.enum != nil {
		isArray := ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array
		elem := ft
		if isArray {
			elem = deref(ft.Elem())
		}
		values, err := typedEnum(opts.enum, elem)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		fragment := enumFragment(values, opts.nullable, isArray)
		return jsonschema.Overlay(fragment, &opts.keywords), nil
	}

	var fragment *jsonschema.JSONSchema
	if len(opts.keywords.BsonType) > 0 {
		fragment = &jsonschema.JSONSchema{}
	} else {
		var err error
		fragment, err = r.typeFragment(ft, f.Key, visiting)
		if err != nil {
			return nil, err
		}
	}
	fragment = jsonschema.Overlay(fragment, &opts.keywords)
	if opts.nullable {
		fragment.BsonType = fragment.BsonType.WithNull()
	}
	return fragment, nil
}

// typeFragment derives the schema of a Go type: scalars map to their bsonType,
// structs to their synthesized schema, slices to arrays and string-keyed maps
// to objects constrained through additionalProperties.
func (r *Registry) typeFragment(t reflect.Type, key string, visiting map[reflect.Type]bool) (*jsonschema.JSONSchema, error) {
	t = deref(t)
	if bt, ok := scalarBsonType(t); ok {
		return &jsonschema.JSONSchema{BsonType: jsonschema.Types(bt)}, nil
	}
	switch t.Kind() {
	case reflect.Struct:
		nested, err := r.nestedSchema(t, visiting)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		return nested.Clone(), nil
	case reflect.Slice, reflect.Array:
		items, err := r.typeFragment(t.Elem(), key, visiting)
		if err != nil {
			return nil, err
		}
		return arrayFragment(items, nil), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			break
		}
		values, err := r.typeFragment(t.Elem(), key, visiting)
		if err != nil {
			return nil, err
		}
		return &jsonschema.JSONSchema{
			BsonType:             jsonschema.Types(jsonschema.Object),
			AdditionalProperties: jsonschema.SchemaOf(values),
		}, nil
	}
	return nil, fmt.Errorf("%w at property %q (%s)", ErrUnsupportedType, key, t)
}

func (r *Registry) nestedSchema(t reflect.Type, visiting map[reflect.Type]bool) (*jsonschema.JSONSchema, error) {
	if visiting[t] {
		return nil, fmt.Errorf("%w: %s", ErrRecursiveType, t)
	}
	if s, ok := r.schemas.Load(t); ok {
		return s, nil
	}
	if len(r.propertyMetadata(t)) == 0 {
		if err := r.scan(t, visiting); err != nil {
			return nil, err
		}
	}
	return r.createJSONSchema(t)
}

func typedEnum(raw []string, t reflect.Type) ([]any, error) {
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		var (
			v   any
			err error
		)
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v, err = strconv.ParseInt(s, 10, 64)
		case reflect.Float32, reflect.Float64:
			v, err = strconv.ParseFloat(s, 64)
		case reflect.Bool:
			v, err = strconv.ParseBool(s)
		default:
			v = s
		}
		if err != nil {
			return nil, fmt.Errorf("%w: enum value %q: %v", ErrInvalidTag, s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
