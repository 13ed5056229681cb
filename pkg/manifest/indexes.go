package manifest

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index mirrors an entry of the createIndexes command.
type Index struct {
	Key                     bson.D `bson:"key"`
	Name                    string `bson:"name,omitempty"`
	Unique                  bool   `bson:"unique,omitempty"`
	Sparse                  bool   `bson:"sparse,omitempty"`
	ExpireAfterSeconds      *int32 `bson:"expireAfterSeconds,omitempty"`
	PartialFilterExpression bson.D `bson:"partialFilterExpression,omitempty"`
	DefaultLanguage         string `bson:"defaultLanguage,omitempty"`
	Weights                 bson.D `bson:"weights,omitempty"`
}

func (idx Index) Model() mongo.IndexModel {
	opts := options.Index()
	set := false
	if idx.Name != "" {
		opts.SetName(idx.Name)
		set = true
	}
	if idx.Unique {
		opts.SetUnique(true)
		set = true
	}
	if idx.Sparse {
		opts.SetSparse(true)
		set = true
	}
	if idx.ExpireAfterSeconds != nil {
		opts.SetExpireAfterSeconds(*idx.ExpireAfterSeconds)
		set = true
	}
	if idx.PartialFilterExpression != nil {
		opts.SetPartialFilterExpression(idx.PartialFilterExpression)
		set = true
	}
	if idx.DefaultLanguage != "" {
		opts.SetDefaultLanguage(idx.DefaultLanguage)
		set = true
	}
	if idx.Weights != nil {
		opts.SetWeights(idx.Weights)
		set = true
	}
	model := mongo.IndexModel{Keys: idx.Key}
	if set {
		model.Options = opts
	}
	return model
}

// IndexModels converts the collection's indexes for EnsureIndexes.
func (c Collection) IndexModels() []mongo.IndexModel {
	if len(c.Indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, len(c.Indexes))
	for i, idx := range c.Indexes {
		models[i] = idx.Model()
	}
	return models
}
