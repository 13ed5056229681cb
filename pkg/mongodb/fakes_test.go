package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeIndexes struct {
	calls   []string
	created []mongo.IndexModel
	dropErr error
	err     error
}

func (f *fakeIndexes) DropAll(ctx context.Context, opts ...*options.DropIndexesOptions) (bson.Raw, error) {
	f.calls = append(f.calls, "dropIndexes")
	return nil, f.dropErr
}

func (f *fakeIndexes) CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error) {
	f.calls = append(f.calls, "createIndexes")
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, models...)
	names := make([]string, len(models))
	for i, m := range models {
		if m.Options != nil && m.Options.Name != nil {
			names[i] = *m.Options.Name
		} else {
			names[i] = "generated"
		}
	}
	return names, nil
}

type fakeDatabase struct {
	specs      []*mongo.CollectionSpecification
	listFilter interface{}
	created    map[string]interface{}
	commands   []interface{}
	commandErr error
}

func (f *fakeDatabase) Name() string { return "test" }

func (f *fakeDatabase) ListCollectionSpecifications(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]*mongo.CollectionSpecification, error) {
	f.listFilter = filter
	return f.specs, nil
}

func (f *fakeDatabase) CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error {
	if f.created == nil {
		f.created = map[string]interface{}{}
	}
	var validator interface{}
	for _, o := range opts {
		if o.Validator != nil {
			validator = o.Validator
		}
	}
	f.created[name] = validator
	return nil
}

func (f *fakeDatabase) RunCommand(ctx context.Context, runCommand interface{}, opts ...*options.RunCmdOptions) *mongo.SingleResult {
	f.commands = append(f.commands, runCommand)
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "ok", Value: 1}}, f.commandErr, nil)
}

type fakeCollection struct {
	filter interface{}
	update interface{}
}

func (f *fakeCollection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	f.filter = filter
	f.update = update
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "name", Value: "John"}}, nil, nil)
}
