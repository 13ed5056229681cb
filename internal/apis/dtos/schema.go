package dtos

import (
	"encoding/json"

	"mongoschema/pkg/jsonschema"
)

type IndexResponse struct {
	// documents are relaxed Extended JSON so that key order survives
	Key                     json.RawMessage `json:"key"`
	Name                    string          `json:"name,omitempty"`
	Unique                  bool            `json:"unique,omitempty"`
	Sparse                  bool            `json:"sparse,omitempty"`
	ExpireAfterSeconds      *int32          `json:"expire_after_seconds,omitempty"`
	PartialFilterExpression json.RawMessage `json:"partial_filter_expression,omitempty"`
	DefaultLanguage         string          `json:"default_language,omitempty"`
	Weights                 json.RawMessage `json:"weights,omitempty"`
}

type CollectionSchemaResponse struct {
	Name           string                 `json:"name"`
	DropOldIndexes bool                   `json:"drop_old_indexes"`
	MergeWith      []string               `json:"merge_with,omitempty"`
	Schema         *jsonschema.JSONSchema `json:"schema"`
	Indexes        []IndexResponse        `json:"indexes"`
}

type CollectionListResponse struct {
	Collections []string `json:"collections"`
}

type SyncRequest struct {
	Collections []string `json:"collections"`
}

type SyncResultResponse struct {
	Collection      string   `json:"collection"`
	ValidatorAction string   `json:"validator_action,omitempty"`
	Indexes         []string `json:"indexes,omitempty"`
	Error           string   `json:"error,omitempty"`
}

type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
}
