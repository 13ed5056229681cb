package di

import (
	"log"

	"go.uber.org/dig"

	"mongoschema/config"
	"mongoschema/internal/apis/handlers"
	"mongoschema/internal/services"
	"mongoschema/pkg/manifest"
	"mongoschema/pkg/mongodb"
)

var DiContainer *dig.Container

// Initialize registers the constructors. Nothing connects to MongoDB until a
// dependency that needs the client is requested.
func Initialize() {
	DiContainer = dig.New()

	if err := DiContainer.Provide(func() (*manifest.Manifest, error) {
		return manifest.Load(config.Env.ManifestPath)
	}); err != nil {
		log.Fatalf("Failed to provide manifest: %v", err)
	}

	// Initialize MongoDB
	if err := DiContainer.Provide(func() (*mongodb.MongoDBClient, error) {
		dbConfig := mongodb.MongoDbConfigModel{
			ConnectionUrl:  config.Env.MongoURI,
			DatabaseName:   config.Env.MongoDatabaseName,
			ConnectTimeout: config.Env.MongoConnectTimeout,
		}
		return mongodb.InitializeDatabaseConnection(dbConfig)
	}); err != nil {
		log.Fatalf("Failed to provide MongoDB client: %v", err)
	}

	// Provide services
	if err := DiContainer.Provide(func(m *manifest.Manifest, db *mongodb.MongoDBClient) services.SchemaSyncService {
		return services.NewSchemaSyncService(m, db.Database(), db.Indexes)
	}); err != nil {
		log.Fatalf("Failed to provide schema sync service: %v", err)
	}

	// Provide handlers
	if err := DiContainer.Provide(func(schemaService services.SchemaSyncService) *handlers.SchemaHandler {
		return handlers.NewSchemaHandler(schemaService)
	}); err != nil {
		log.Fatalf("Failed to provide schema handler: %v", err)
	}
}

// GetManifest retrieves the collection manifest from the DI container
func GetManifest() (*manifest.Manifest, error) {
	var m *manifest.Manifest
	err := DiContainer.Invoke(func(loaded *manifest.Manifest) {
		m = loaded
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMongoDBClient retrieves the connected MongoDB client from the DI container
func GetMongoDBClient() (*mongodb.MongoDBClient, error) {
	var client *mongodb.MongoDBClient
	err := DiContainer.Invoke(func(c *mongodb.MongoDBClient) {
		client = c
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetSchemaSyncService retrieves the SchemaSyncService from the DI container
func GetSchemaSyncService() (services.SchemaSyncService, error) {
	var service services.SchemaSyncService
	err := DiContainer.Invoke(func(s services.SchemaSyncService) {
		service = s
	})
	if err != nil {
		return nil, err
	}
	return service, nil
}

// GetSchemaHandler retrieves the SchemaHandler from the DI container
func GetSchemaHandler() (*handlers.SchemaHandler, error) {
	var handler *handlers.SchemaHandler
	err := DiContainer.Invoke(func(h *handlers.SchemaHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
