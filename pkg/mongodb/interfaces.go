package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexManager is the part of mongo.IndexView used by EnsureIndexes.
type IndexManager interface {
	DropAll(ctx context.Context, opts ...*options.DropIndexesOptions) (bson.Raw, error)
	CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error)
}

// Database is the part of *mongo.Database used by EnsureJSONSchema.
type Database interface {
	Name() string
	ListCollectionSpecifications(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]*mongo.CollectionSpecification, error)
	CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error
	RunCommand(ctx context.Context, runCommand interface{}, opts ...*options.RunCmdOptions) *mongo.SingleResult
}

// Updater is the part of *mongo.Collection used by FindOneAndUpdate.
type Updater interface {
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

var (
	_ IndexManager = mongo.IndexView{}
	_ Database     = (*mongo.Database)(nil)
	_ Updater      = (*mongo.Collection)(nil)
)
