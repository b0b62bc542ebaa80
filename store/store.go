// Package store defines the contract this library consumes from the remote
// document database, plus adapters for the backends it runs against.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by GetDoc when no document exists at the given
// path.
var ErrNotFound = errors.New("store: document not found")

// Filter is one field-equality predicate. Query combines filters
// conjunctively; no ordering or range predicates are supported.
type Filter struct {
	Field string
	Value any
}

// Document is a fetched document: its id plus the raw field map.
type Document struct {
	ID   string
	Data map[string]any
}

// DataTo decodes the document's fields into dest, matching fields by their
// wire names (json tags).
func (d Document) DataTo(dest any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Store is the consumed remote-store contract. All operations require an
// authenticated principal at the transport level; any call may fail with a
// connectivity or permission error, which callers must tolerate without
// crashing.
type Store interface {
	// GetDoc fetches a single document, returning ErrNotFound when absent.
	GetDoc(ctx context.Context, collection, id string) (Document, error)
	// SetDoc writes a full document at the given id, overwriting any
	// existing content.
	SetDoc(ctx context.Context, collection, id string, data any) error
	// AddDoc creates a document under a server-generated id and returns it.
	AddDoc(ctx context.Context, collection string, data any) (string, error)
	// UpdateDoc merges the given fields into an existing document.
	UpdateDoc(ctx context.Context, collection, id string, fields map[string]any) error
	// AppendToArray adds elem to an array field without rewriting the rest
	// of the document.
	AppendToArray(ctx context.Context, collection, id, field string, elem any) error
	// Query returns every document matching all filters. No filters means
	// the whole collection.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// Probe verifies the store is actually reachable end to end.
	Probe(ctx context.Context) error
	Close() error
}

// ToMap converts a typed document into the generic field map the adapters
// write, using the wire names from json tags.
func ToMap(data any) (map[string]any, error) {
	if m, ok := data.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
