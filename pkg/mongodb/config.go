package mongodb

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDbConfigModel struct {
	ConnectionUrl  string
	DatabaseName   string
	ConnectTimeout time.Duration
}

type MongoDBClient struct {
	Client *mongo.Client
	Config MongoDbConfigModel
}

// InitializeDatabaseConnection connects to the server and pings it before
// handing the client out.
func InitializeDatabaseConnection(config MongoDbConfigModel) (*MongoDBClient, error) {
	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clientOptions := options.Client().ApplyURI(config.ConnectionUrl)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("MongoDB connection error: %w", err)
	}

	// Ping the database to verify connection
	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping error: %w", err)
	}

	log.Println("✨ Connected to MongoDB.")

	return &MongoDBClient{
		Client: mongoClient,
		Config: config,
	}, nil
}

func (client *MongoDBClient) Database() *mongo.Database {
	return client.Client.Database(client.Config.DatabaseName)
}

func (client *MongoDBClient) GetCollectionByName(collectionName string) *mongo.Collection {
	return client.Database().Collection(collectionName)
}

func (client *MongoDBClient) Disconnect(ctx context.Context) error {
	if err := client.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("MongoDB disconnect error: %w", err)
	}
	log.Println("🔻 Disconnected from MongoDB.")
	return nil
}

// Indexes returns the index view of a collection of the configured database.
func (client *MongoDBClient) Indexes(collectionName string) IndexManager {
	return client.GetCollectionByName(collectionName).Indexes()
}
