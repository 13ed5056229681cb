package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongoschema/pkg/update"
)

// FindOneAndUpdate builds the update document and runs it against coll. A
// malformed or empty update is reported through the result's Err.
func FindOneAndUpdate(ctx context.Context, coll Updater, filter interface{}, builder *update.Builder, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	doc, err := builder.Build()
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return coll.FindOneAndUpdate(ctx, filter, doc, opts...)
}
