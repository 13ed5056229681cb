package schema

import (
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"

	"mongoschema/pkg/jsonschema"
)

// Registry stores class and property metadata per struct type and memoizes
// the schemas synthesized from it. The zero value is not usable; use
// NewRegistry.
type Registry struct {
	classes    *xsync.MapOf[reflect.Type, ClassMetadata]
	properties *xsync.MapOf[reflect.Type, []PropertyMetadata]
	schemas    *xsync.MapOf[reflect.Type, *jsonschema.JSONSchema]

	// tagRequired holds the keys tagged `schema:"required"`. They stay
	// required when Schema replaces the class metadata.
	tagRequired *xsync.MapOf[reflect.Type, []string]
}

func NewRegistry() *Registry {
	return &Registry{
		classes:    xsync.NewMapOf[reflect.Type, ClassMetadata](),
		properties: xsync.NewMapOf[reflect.Type, []PropertyMetadata](),
		schemas:    xsync.NewMapOf[reflect.Type, *jsonschema.JSONSchema](),

		tagRequired: xsync.NewMapOf[reflect.Type, []string](),
	}
}

// Reset drops every registration and memoized schema.
func (r *Registry) Reset() {
	r.classes.Clear()
	r.properties.Clear()
	r.schemas.Clear()
	r.tagRequired.Clear()
}

// structType resolves target (a value, a pointer, or a reflect.Type) to a
// struct type.
func structType(target any) (reflect.Type, error) {
	var t reflect.Type
	switch v := target.(type) {
	case nil:
		return nil, ErrNotStruct
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(target)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	return t, nil
}

func (r *Registry) setClassMetadata(t reflect.Type, meta ClassMetadata) {
	meta = meta.clone()
	tagged, _ := r.tagRequired.Load(t)
	meta.Required = union(meta.Required, tagged)
	r.classes.Store(t, meta)
	r.schemas.Delete(t)
}

func (r *Registry) classMetadata(t reflect.Type) (ClassMetadata, bool) {
	return r.classes.Load(t)
}

// addRequired appends tagged keys to the class's required list, creating the
// class metadata when the type has none.
func (r *Registry) addRequired(t reflect.Type, keys ...string) {
	r.tagRequired.Compute(t, func(tagged []string, _ bool) ([]string, bool) {
		return union(tagged, keys), false
	})
	r.classes.Compute(t, func(meta ClassMetadata, _ bool) (ClassMetadata, bool) {
		meta = meta.clone()
		meta.Required = union(meta.Required, keys)
		return meta, false
	})
	r.schemas.Delete(t)
}

// addPropertyMetadata appends p to the type's properties. A property with the
// same key replaces the earlier one in place.
func (r *Registry) addPropertyMetadata(t reflect.Type, p PropertyMetadata) {
	r.properties.Compute(t, func(props []PropertyMetadata, _ bool) ([]PropertyMetadata, bool) {
		out := make([]PropertyMetadata, 0, len(props)+1)
		replaced := false
		for _, old := range props {
			if old.Key == p.Key {
				out = append(out, p)
				replaced = true
				continue
			}
			out = append(out, old)
		}
		if !replaced {
			out = append(out, p)
		}
		return out, false
	})
	r.schemas.Delete(t)
}

func (r *Registry) propertyMetadata(t reflect.Type) []PropertyMetadata {
	props, _ := r.properties.Load(t)
	return props
}

// ClassMetadataOf returns a copy of the class metadata registered for target.
func (r *Registry) ClassMetadataOf(target any) (ClassMetadata, bool, error) {
	t, err := structType(target)
	if err != nil {
		return ClassMetadata{}, false, err
	}
	meta, ok := r.classMetadata(t)
	return meta.clone(), ok, nil
}

// PropertyMetadataOf returns the property fragments registered for target in
// declaration order.
func (r *Registry) PropertyMetadataOf(target any) ([]PropertyMetadata, error) {
	t, err := structType(target)
	if err != nil {
		return nil, err
	}
	return append([]PropertyMetadata(nil), r.propertyMetadata(t)...), nil
}

// union returns a copy of list followed by the keys it does not contain yet.
func union(list, keys []string) []string {
	out := append([]string(nil), list...)
	for _, k := range keys {
		if !contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
