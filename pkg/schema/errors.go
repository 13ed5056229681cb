package schema

import "errors"

var (
	ErrNotStruct          = errors.New("schema: target is not a struct type")
	ErrUnknownField       = errors.New("schema: unknown field")
	ErrUnsupportedType    = errors.New("schema: unsupported data type")
	ErrNoPropertyMetadata = errors.New("schema: no property metadata")
	ErrInvalidEnumValues  = errors.New("schema: enum values must be a map or a slice")
	ErrMissingItemsType   = errors.New(`schema: "itemsJsonSchema" must have a "bsonType"`)
	ErrRecursiveType      = errors.New("schema: recursive type")
	ErrInvalidTag         = errors.New("schema: invalid struct tag")
)
