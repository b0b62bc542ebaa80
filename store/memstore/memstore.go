// Package memstore is an in-memory store.Store used by tests in place of a
// live document database.
package memstore

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/bergwerk/iceberg-data/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	calls       []string

	// Err, when set, is returned by every operation; ProbeErr only fails
	// Probe. Both are for fault injection in tests.
	Err      error
	ProbeErr error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string]map[string]map[string]any)}
}

// Calls returns the operations performed so far, as "op collection" strings.
func (s *Store) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.calls...)
}

// Len reports how many documents a collection holds.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) record(op, collection string) {
	s.calls = append(s.calls, op+" "+collection)
}

func (s *Store) GetDoc(_ context.Context, collection, id string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get", collection)
	if s.Err != nil {
		return store.Document{}, s.Err
	}
	doc, ok := s.collections[collection][id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Data: copyMap(doc)}, nil
}

func (s *Store) SetDoc(_ context.Context, collection, id string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("set", collection)
	if s.Err != nil {
		return s.Err
	}
	doc, err := store.ToMap(data)
	if err != nil {
		return err
	}
	s.ensure(collection)[id] = normalizeMap(doc)
	return nil
}

func (s *Store) AddDoc(_ context.Context, collection string, data any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("add", collection)
	if s.Err != nil {
		return "", s.Err
	}
	doc, err := store.ToMap(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.ensure(collection)[id] = normalizeMap(doc)
	return id, nil
}

func (s *Store) UpdateDoc(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update", collection)
	if s.Err != nil {
		return s.Err
	}
	doc, ok := s.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range normalizeMap(fields) {
		doc[k] = v
	}
	return nil
}

func (s *Store) AppendToArray(_ context.Context, collection, id, field string, elem any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("append", collection)
	if s.Err != nil {
		return s.Err
	}
	doc, ok := s.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	arr, _ := doc[field].([]any)
	doc[field] = append(arr, normalize(elem))
	return nil
}

func (s *Store) Query(_ context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("query", collection)
	if s.Err != nil {
		return nil, s.Err
	}
	var docs []store.Document
	for id, doc := range s.collections[collection] {
		if matches(doc, filters) {
			docs = append(docs, store.Document{ID: id, Data: copyMap(doc)})
		}
	}
	return docs, nil
}

func (s *Store) Probe(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("probe", "")
	if s.ProbeErr != nil {
		return s.ProbeErr
	}
	return s.Err
}

func (s *Store) Close() error { return nil }

func (s *Store) ensure(collection string) map[string]map[string]any {
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]map[string]any)
		s.collections[collection] = col
	}
	return col
}

func matches(doc map[string]any, filters []store.Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(doc[f.Field], normalize(f.Value)) {
			return false
		}
	}
	return true
}

// normalize round-trips a value through JSON so stored documents and filter
// values compare with the same dynamic types a real wire decode would
// produce.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func normalizeMap(m map[string]any) map[string]any {
	out, _ := normalize(m).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out, _ := normalize(m).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}
