package mongodb

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongoschema/internal/timing"
	"mongoschema/pkg/jsonschema"
)

// ValidatorAction tells what EnsureJSONSchema had to do.
type ValidatorAction string

const (
	ValidatorCreated   ValidatorAction = "created"
	ValidatorUpdated   ValidatorAction = "updated"
	ValidatorUnchanged ValidatorAction = "unchanged"
)

// Validator wraps schema as a collection validator document.
func Validator(schema *jsonschema.JSONSchema) bson.D {
	return bson.D{{Key: "$jsonSchema", Value: schema}}
}

// EnsureJSONSchema makes schema the validator of the named collection. The
// collection is created when missing; an existing validator is only replaced
// when it differs structurally from the desired one.
func EnsureJSONSchema(ctx context.Context, db Database, collectionName string, schema *jsonschema.JSONSchema) (ValidatorAction, error) {
	defer timing.Track(timing.EnsureJSONSchema)()

	validator := Validator(schema)
	specs, err := db.ListCollectionSpecifications(ctx, bson.D{{Key: "name", Value: collectionName}})
	if err != nil {
		return "", fmt.Errorf("failed to list collections: %w", err)
	}

	if len(specs) == 0 {
		log.Printf("MongoDB -> EnsureJSONSchema -> Creating collection %q in %s", collectionName, db.Name())
		if err := db.CreateCollection(ctx, collectionName, options.CreateCollection().SetValidator(validator)); err != nil {
			return "", fmt.Errorf("failed to create collection %q: %w", collectionName, err)
		}
		return ValidatorCreated, nil
	}

	equal, err := sameValidator(specs[0].Options, validator)
	if err != nil {
		return "", err
	}
	if equal {
		return ValidatorUnchanged, nil
	}

	log.Printf("MongoDB -> EnsureJSONSchema -> Updating validator for %s.%s", db.Name(), collectionName)
	cmd := bson.D{{Key: "collMod", Value: collectionName}, {Key: "validator", Value: validator}}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return "", fmt.Errorf("failed to update validator of %q: %w", collectionName, err)
	}
	return ValidatorUpdated, nil
}

// InstalledValidator returns the validator document from a collection's
// options, or nil when it has none.
func InstalledValidator(collectionOptions bson.Raw) (bson.Raw, error) {
	if len(collectionOptions) == 0 {
		return nil, nil
	}
	v, err := collectionOptions.LookupErr("validator")
	if err != nil {
		return nil, nil
	}
	if v.Type != bsontype.EmbeddedDocument {
		return nil, fmt.Errorf("unexpected validator type %s", v.Type)
	}
	return v.Document(), nil
}

func sameValidator(collectionOptions bson.Raw, desired bson.D) (bool, error) {
	installed, err := InstalledValidator(collectionOptions)
	if err != nil || installed == nil {
		return false, err
	}
	have, err := jsonschema.Canonical(installed)
	if err != nil {
		return false, fmt.Errorf("failed to read installed validator: %w", err)
	}
	want, err := jsonschema.Canonical(desired)
	if err != nil {
		return false, fmt.Errorf("failed to encode validator: %w", err)
	}
	return reflect.DeepEqual(have, want), nil
}
