// Package mongodb adapts MongoDB to the store contract. Documents are keyed
// by a caller-supplied or generated string _id so paths stay interchangeable
// with the Firestore backend.
package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bergwerk/iceberg-data/store"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Connect opens a MongoDB client and pings it before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) GetDoc(ctx context.Context, collection, id string) (store.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Document{}, store.ErrNotFound
		}
		return store.Document{}, err
	}
	return toDocument(id, raw), nil
}

func (s *Store) SetDoc(ctx context.Context, collection, id string, data any) error {
	doc, err := store.ToMap(data)
	if err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (s *Store) AddDoc(ctx context.Context, collection string, data any) (string, error) {
	doc, err := store.ToMap(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	insert := bson.M{"_id": id}
	for k, v := range doc {
		insert[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, insert); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateDoc(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (s *Store) AppendToArray(ctx context.Context, collection, id, field string, elem any) error {
	value, err := store.ToMap(elem)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{field: value}})
	return err
}

func (s *Store) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	match := bson.M{}
	for _, f := range filters {
		match[f.Field] = f.Value
	}

	cur, err := s.db.Collection(collection).Find(ctx, match)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []store.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		id, _ := raw["_id"].(string)
		docs = append(docs, toDocument(id, raw))
	}
	return docs, cur.Err()
}

func (s *Store) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(id string, raw bson.M) store.Document {
	delete(raw, "_id")
	return store.Document{ID: id, Data: map[string]any(raw)}
}
