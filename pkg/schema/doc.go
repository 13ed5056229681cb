// Package schema derives MongoDB $jsonSchema validators from Go struct types.
//
// Metadata is attached to a struct type the way decorators annotate a class:
// Schema sets the class-level options, Property, EnumProperty and
// ArrayProperty declare one field each, and Scan declares every field from
// its struct tags. CreateJSONSchema then synthesizes the schema once per type:
//
//	type Friend struct {
//		Name string `bson:"name"`
//		Age  *int   `bson:"age,omitempty" schema:"nullable"`
//	}
//
//	func init() {
//		schema.MustScan(Friend{})
//	}
//
//	var FriendSchema = schema.MustCreateJSONSchema(Friend{})
//
// The package-level functions operate on Default.
package schema
