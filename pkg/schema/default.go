package schema

import (
	"reflect"

	"mongoschema/pkg/jsonschema"
)

// Default is the process-wide registry used by the package-level functions.
var Default = NewRegistry()

func Schema(target any, meta ClassMetadata) error {
	return Default.Schema(target, meta)
}

func Property(target any, field string, opts PropertyOptions) error {
	return Default.Property(target, field, opts)
}

func EnumProperty(target any, field string, opts EnumPropertyOptions) error {
	return Default.EnumProperty(target, field, opts)
}

func ArrayProperty(target any, field string, opts ArrayPropertyOptions) error {
	return Default.ArrayProperty(target, field, opts)
}

func Scan(target any) error {
	return Default.Scan(target)
}

// MustScan is like Scan but panics on error.
func MustScan(target any) {
	if err := Default.Scan(target); err != nil {
		panic(err)
	}
}

func CreateJSONSchema(target any) (*jsonschema.JSONSchema, error) {
	return Default.CreateJSONSchema(target)
}

func MustCreateJSONSchema(target any) *jsonschema.JSONSchema {
	return Default.MustCreateJSONSchema(target)
}

func ExistingJSONSchema(target any) (*jsonschema.JSONSchema, bool) {
	return Default.ExistingJSONSchema(target)
}

// For synthesizes the schema of T from the default registry.
func For[T any]() (*jsonschema.JSONSchema, error) {
	return Default.CreateJSONSchema(reflect.TypeOf((*T)(nil)).Elem())
}
