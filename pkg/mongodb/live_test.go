package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongoschema/pkg/jsonschema"
	"mongoschema/pkg/update"
)

// TestLiveServer runs against a real server when MONGOSCHEMA_TEST_MONGODB_URI is set.
func TestLiveServer(t *testing.T) {
	uri := os.Getenv("MONGOSCHEMA_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("MONGOSCHEMA_TEST_MONGODB_URI not set")
	}
	client, err := InitializeDatabaseConnection(MongoDbConfigModel{
		ConnectionUrl:  uri,
		DatabaseName:   fmt.Sprintf("mongoschema_test_%d", time.Now().UnixNano()),
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	ctx := context.Background()
	db := client.Database()
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	schema := userSchema()
	for _, want := range []ValidatorAction{ValidatorCreated, ValidatorUnchanged} {
		action, err := EnsureJSONSchema(ctx, db, "users", schema)
		if err != nil {
			t.Fatalf("EnsureJSONSchema: %v", err)
		}
		if action != want {
			t.Errorf("action = %s, want %s", action, want)
		}
	}

	withDate := schema.Clone()
	withDate.Properties["createdAt"] = &jsonschema.JSONSchema{BsonType: jsonschema.Types(jsonschema.Date)}
	if action, err := EnsureJSONSchema(ctx, db, "users", withDate); err != nil || action != ValidatorUpdated {
		t.Fatalf("EnsureJSONSchema = %s, %v", action, err)
	}

	coll := client.GetCollectionByName("users")
	names, err := EnsureIndexes(ctx, coll.Indexes(), true, []mongo.IndexModel{{Keys: bson.D{{Key: "name", Value: "text"}}}})
	if err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	if len(names) != 1 || names[0] != "name_text" {
		t.Errorf("index names = %v", names)
	}

	if _, err := coll.InsertOne(ctx, bson.M{"name": "John", "age": 22}); err != nil {
		t.Fatalf("insert valid document: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"name": "John"}); err == nil {
		t.Error("document without age passed validation")
	}

	var got struct {
		Age int `bson:"age"`
	}
	res := FindOneAndUpdate(ctx, coll, bson.M{"age": 22}, update.New().Inc(bson.M{"age": 1}),
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&got); err != nil {
		t.Fatalf("FindOneAndUpdate: %v", err)
	}
	if got.Age != 23 {
		t.Errorf("age = %d, want 23", got.Age)
	}
}
