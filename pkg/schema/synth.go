package schema

import (
	"fmt"
	"reflect"

	"mongoschema/internal/timing"
	"mongoschema/pkg/jsonschema"
)

func defaultIDProperty() *jsonschema.JSONSchema {
	return &jsonschema.JSONSchema{BsonType: jsonschema.Types(jsonschema.ObjectID)}
}

// ExistingJSONSchema returns the schema already synthesized for target.
func (r *Registry) ExistingJSONSchema(target any) (*jsonschema.JSONSchema, bool) {
	t, err := structType(target)
	if err != nil {
		return nil, false
	}
	return r.schemas.Load(t)
}

// CreateJSONSchema synthesizes the $jsonSchema of target's struct type from
// its class and property metadata. The result is memoized per type and shared
// between callers, so it must not be modified.
func (r *Registry) CreateJSONSchema(target any) (*jsonschema.JSONSchema, error) {
	defer timing.Track(timing.CreateJSONSchema)()
	t, err := structType(target)
	if err != nil {
		return nil, err
	}
	return r.createJSONSchema(t)
}

// MustCreateJSONSchema is like CreateJSONSchema but panics on error. It is
// meant for package-level variable initialisation.
func (r *Registry) MustCreateJSONSchema(target any) *jsonschema.JSONSchema {
	s, err := r.CreateJSONSchema(target)
	if err != nil {
		panic(err)
	}
	return s
}

func (r *Registry) createJSONSchema(t reflect.Type) (*jsonschema.JSONSchema, error) {
	if existing, ok := r.schemas.Load(t); ok {
		return existing, nil
	}
	meta, _ := r.classMetadata(t)
	s := &jsonschema.JSONSchema{
		BsonType:          jsonschema.Types(jsonschema.Object),
		Title:             meta.Title,
		Description:       meta.Description,
		MaxProperties:     meta.MaxProperties,
		MinProperties:     meta.MinProperties,
		PatternProperties: jsonschema.CloneProperties(meta.PatternProperties),
	}
	if meta.Required != nil {
		s.Required = append([]string(nil), meta.Required...)
	}
	if meta.AdditionalProperties != nil {
		s.AdditionalProperties = meta.AdditionalProperties.Clone()
	}

	props := r.propertyMetadata(t)
	if len(props) == 0 && len(meta.MergeWith) == 0 {
		return nil, fmt.Errorf("%w: type %q does not have any property metadata", ErrNoPropertyMetadata, t)
	}
	properties := make(map[string]*jsonschema.JSONSchema, len(props)+1)
	for _, p := range props {
		properties[p.Key] = p.Schema.Clone()
	}
	if meta.IncludeDefaultIDProperty {
		if _, ok := properties["_id"]; !ok {
			properties["_id"] = defaultIDProperty()
		}
	}
	s.Properties = properties

	for _, source := range meta.MergeWith {
		mergeJSONSchema(s, source)
	}
	reshape(s, meta)

	actual, _ := r.schemas.LoadOrStore(t, s)
	return actual, nil
}

// Merge returns a copy of target with the object keywords of source merged
// in, the same way MergeWith sources are applied during synthesis.
func Merge(target, source *jsonschema.JSONSchema) *jsonschema.JSONSchema {
	out := target.Clone()
	if out == nil {
		out = &jsonschema.JSONSchema{}
	}
	mergeJSONSchema(out, source)
	return out
}

// mergeJSONSchema merges the object keywords of source into target:
//   - required is the union, target entries first;
//   - properties of target win over those of source;
//   - patternProperties of source win over those of target;
//   - additionalProperties is only touched when source is not true and target
//     is not false. An unset or true target takes source; a schema target is
//     laid over a schema source.
func mergeJSONSchema(target, source *jsonschema.JSONSchema) {
	if source == nil {
		return
	}
	if source.Required != nil {
		if target.Required != nil {
			for _, key := range source.Required {
				if !contains(target.Required, key) {
					target.Required = append(target.Required, key)
				}
			}
		} else {
			target.Required = append([]string(nil), source.Required...)
		}
	}
	if source.Properties != nil {
		merged := jsonschema.CloneProperties(source.Properties)
		for k, v := range target.Properties {
			merged[k] = v
		}
		target.Properties = merged
	}
	if source.PatternProperties != nil {
		if target.PatternProperties == nil {
			target.PatternProperties = jsonschema.CloneProperties(source.PatternProperties)
		} else {
			for k, v := range source.PatternProperties {
				target.PatternProperties[k] = v.Clone()
			}
		}
	}
	if !source.AdditionalProperties.IsTrue() && !target.AdditionalProperties.IsFalse() {
		switch {
		case target.AdditionalProperties == nil || target.AdditionalProperties.IsTrue():
			target.AdditionalProperties = source.AdditionalProperties.Clone()
		case source.AdditionalProperties.IsSchema():
			target.AdditionalProperties = jsonschema.SchemaOf(
				jsonschema.Overlay(source.AdditionalProperties.Schema, target.AdditionalProperties.Schema))
		}
	}
}

// reshape applies the rename, pick and omit class options, in that order.
// Required keys follow renames and are dropped with their property.
func reshape(s *jsonschema.JSONSchema, meta ClassMetadata) {
	if len(meta.RenameProperties) == 0 && len(meta.PickProperties) == 0 && len(meta.OmitProperties) == 0 {
		return
	}
	if len(meta.RenameProperties) > 0 {
		renamed := make(map[string]*jsonschema.JSONSchema, len(s.Properties))
		for k, v := range s.Properties {
			if _, moved := meta.RenameProperties[k]; !moved {
				renamed[k] = v
			}
		}
		for from, to := range meta.RenameProperties {
			if v, ok := s.Properties[from]; ok {
				renamed[to] = v
			}
		}
		s.Properties = renamed
		for i, key := range s.Required {
			if to, ok := meta.RenameProperties[key]; ok {
				s.Required[i] = to
			}
		}
	}
	if len(meta.PickProperties) > 0 {
		for k := range s.Properties {
			if !contains(meta.PickProperties, k) {
				delete(s.Properties, k)
			}
		}
	}
	for _, k := range meta.OmitProperties {
		delete(s.Properties, k)
	}

	var required []string
	for _, key := range s.Required {
		if _, ok := s.Properties[key]; ok && !contains(required, key) {
			required = append(required, key)
		}
	}
	s.Required = required
}
