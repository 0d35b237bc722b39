// internal/repository/mongo/store.go
package mongo

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/sports-library/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Each entity document is wrapped as {_id, seq, doc}. seq is set once on
// insert so All can return insertion order and replacements keep their place.
const (
	seqField = "seq"
	docField = "doc"
)

// Store implements repository.DocumentStore with one MongoDB collection per entity type.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.DocumentStore = (*Store)(nil)

// NewStore connects and returns a store on database dbName.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := ConnectDB(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Database exposes the underlying database, e.g. to drop it in tests.
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Insert(ctx context.Context, collection, id string, doc bson.Raw) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: seqField, Value: primitive.NewObjectID()},
		{Key: docField, Value: doc},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, collection, id string, doc bson.Raw) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set":         bson.M{docField: doc},
		"$setOnInsert": bson.M{seqField: primitive.NewObjectID()},
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return unwrap(raw)
}

func (s *Store) All(ctx context.Context, collection string) ([]bson.Raw, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: seqField, Value: 1}})
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.Raw{}
	for cursor.Next(ctx) {
		doc, err := unwrap(cursor.Current)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Store) Clear(ctx context.Context, collection string) error {
	_, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{})
	return err
}

func (s *Store) Close(_ context.Context) error {
	return DisconnectDB(s.client)
}

// EnsureIndexes creates the insertion-order index on every collection. Call during startup.
func (s *Store) EnsureIndexes(ctx context.Context, collections []string) error {
	for _, name := range collections {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: seqField, Value: 1}},
			Options: options.Index(),
		})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

// unwrap returns a copy of the embedded entity document; cursor buffers are reused.
func unwrap(wrapper bson.Raw) (bson.Raw, error) {
	doc, ok := wrapper.Lookup(docField).DocumentOK()
	if !ok {
		return nil, fmt.Errorf("mongo: document without %q field", docField)
	}
	out := make(bson.Raw, len(doc))
	copy(out, doc)
	return out, nil
}
