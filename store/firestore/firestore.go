// Package firestore adapts Cloud Firestore to the store contract.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bergwerk/iceberg-data/store"
)

// probeCollection holds the throwaway document written by Probe.
const probeCollection = "_connection_test_"

type Store struct {
	// App is the initialized Firebase app, shared with the auth adapter.
	App    *firebase.App
	client *fs.Client
}

var _ store.Store = (*Store)(nil)

// Connect initializes the Firebase app and opens a Firestore client.
// credentialsFile may be empty, in which case ambient credentials apply.
func Connect(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{App: app, client: client}, nil
}

func (s *Store) GetDoc(ctx context.Context, collection, id string) (store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.Document{}, store.ErrNotFound
		}
		return store.Document{}, err
	}
	return store.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) SetDoc(ctx context.Context, collection, id string, data any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *Store) AddDoc(ctx context.Context, collection string, data any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *Store) UpdateDoc(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]fs.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, fs.Update{Path: path, Value: value})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	return err
}

func (s *Store) AppendToArray(ctx context.Context, collection, id, field string, elem any) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, []fs.Update{
		{Path: field, Value: fs.ArrayUnion(elem)},
	})
	return err
}

func (s *Store) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []store.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, store.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// Probe writes and deletes a throwaway document so reachability is checked
// end to end, permissions included.
func (s *Store) Probe(ctx context.Context) error {
	ref := s.client.Collection(probeCollection).Doc("test")
	if _, err := ref.Set(ctx, map[string]any{"timestamp": fs.ServerTimestamp}); err != nil {
		return err
	}
	_, err := ref.Delete(ctx)
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}
