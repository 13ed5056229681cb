package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"mongoschema/internal/apis/dtos"
	"mongoschema/pkg/manifest"
	"mongoschema/pkg/mongodb"
)

// SyncResult is the outcome of synchronizing one collection.
type SyncResult struct {
	Collection      string
	ValidatorAction mongodb.ValidatorAction
	Indexes         []string
	Error           error
}

type SchemaSyncService interface {
	// Sync applies the validator then the indexes of the named collections,
	// or of every collection when names is empty. Failures are reported per
	// collection; the first one is also returned.
	Sync(ctx context.Context, names ...string) ([]SyncResult, error)
	SyncRequest(ctx context.Context, req *dtos.SyncRequest) (*dtos.SyncResponse, uint32, error)
	List() *dtos.CollectionListResponse
	Describe(name string) (*dtos.CollectionSchemaResponse, uint32, error)
}

// IndexManagers returns the index view of a collection.
type IndexManagers func(collection string) mongodb.IndexManager

type schemaSyncService struct {
	manifest *manifest.Manifest
	db       mongodb.Database
	indexes  IndexManagers
}

func NewSchemaSyncService(m *manifest.Manifest, db mongodb.Database, indexes IndexManagers) SchemaSyncService {
	return &schemaSyncService{
		manifest: m,
		db:       db,
		indexes:  indexes,
	}
}

func (s *schemaSyncService) Sync(ctx context.Context, names ...string) ([]SyncResult, error) {
	if len(names) == 0 {
		names = s.manifest.Names()
	}
	results := make([]SyncResult, 0, len(names))
	var firstErr error
	for _, name := range names {
		result := s.syncCollection(ctx, name)
		if result.Error != nil {
			log.Printf("SchemaSyncService -> Sync -> %s: %v", name, result.Error)
			if firstErr == nil {
				firstErr = result.Error
			}
		} else {
			log.Printf("SchemaSyncService -> Sync -> %s: validator %s, %d indexes", name, result.ValidatorAction, len(result.Indexes))
		}
		results = append(results, result)
	}
	return results, firstErr
}

func (s *schemaSyncService) syncCollection(ctx context.Context, name string) SyncResult {
	result := SyncResult{Collection: name}
	c, ok := s.manifest.Collection(name)
	if !ok {
		result.Error = fmt.Errorf("%w: unknown collection %q", manifest.ErrInvalidManifest, name)
		return result
	}
	schema, err := s.manifest.Schema(name)
	if err != nil {
		result.Error = err
		return result
	}
	action, err := mongodb.EnsureJSONSchema(ctx, s.db, name, schema)
	if err != nil {
		result.Error = fmt.Errorf("%s: %w", name, err)
		return result
	}
	result.ValidatorAction = action

	indexes, err := mongodb.EnsureIndexes(ctx, s.indexes(name), c.DropOldIndexes, c.IndexModels())
	if err != nil {
		result.Error = fmt.Errorf("%s: %w", name, err)
		return result
	}
	result.Indexes = indexes
	return result
}

func (s *schemaSyncService) SyncRequest(ctx context.Context, req *dtos.SyncRequest) (*dtos.SyncResponse, uint32, error) {
	for _, name := range req.Collections {
		if _, ok := s.manifest.Collection(name); !ok {
			return nil, http.StatusNotFound, fmt.Errorf("collection %q is not in the manifest", name)
		}
	}
	results, err := s.Sync(ctx, req.Collections...)
	response := &dtos.SyncResponse{Results: make([]dtos.SyncResultResponse, len(results))}
	for i, r := range results {
		response.Results[i] = dtos.SyncResultResponse{
			Collection:      r.Collection,
			ValidatorAction: string(r.ValidatorAction),
			Indexes:         r.Indexes,
		}
		if r.Error != nil {
			response.Results[i].Error = r.Error.Error()
		}
	}
	if err != nil {
		return response, http.StatusBadGateway, err
	}
	return response, http.StatusOK, nil
}

func (s *schemaSyncService) List() *dtos.CollectionListResponse {
	return &dtos.CollectionListResponse{Collections: s.manifest.Names()}
}

func (s *schemaSyncService) Describe(name string) (*dtos.CollectionSchemaResponse, uint32, error) {
	c, ok := s.manifest.Collection(name)
	if !ok {
		return nil, http.StatusNotFound, fmt.Errorf("collection %q is not in the manifest", name)
	}
	schema, err := s.manifest.Schema(name)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	indexes := make([]dtos.IndexResponse, len(c.Indexes))
	for i, idx := range c.Indexes {
		response := dtos.IndexResponse{
			Name:               idx.Name,
			Unique:             idx.Unique,
			Sparse:             idx.Sparse,
			ExpireAfterSeconds: idx.ExpireAfterSeconds,
			DefaultLanguage:    idx.DefaultLanguage,
		}
		for _, doc := range []struct {
			src bson.D
			dst *json.RawMessage
		}{
			{idx.Key, &response.Key},
			{idx.PartialFilterExpression, &response.PartialFilterExpression},
			{idx.Weights, &response.Weights},
		} {
			if doc.src == nil {
				continue
			}
			data, err := bson.MarshalExtJSON(doc.src, false, false)
			if err != nil {
				return nil, http.StatusInternalServerError, fmt.Errorf("failed to encode index of %q: %w", name, err)
			}
			*doc.dst = data
		}
		indexes[i] = response
	}
	return &dtos.CollectionSchemaResponse{
		Name:           c.Name,
		DropOldIndexes: c.DropOldIndexes,
		MergeWith:      c.MergeWith,
		Schema:         schema,
		Indexes:        indexes,
	}, http.StatusOK, nil
}
