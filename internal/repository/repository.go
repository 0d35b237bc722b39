package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	ErrClosed    = RepositoryError("store closed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DocumentStore is a set of named collections of BSON documents keyed by
// identity. Implementations must keep insertion order for All, and must keep
// a document's position when it is replaced.
type DocumentStore interface {
	// Insert adds a new document; ErrDuplicate if the key exists.
	Insert(ctx context.Context, collection, id string, doc bson.Raw) error
	// Upsert replaces the document in place, or appends it if absent.
	Upsert(ctx context.Context, collection, id string, doc bson.Raw) error
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, collection, id string) (bson.Raw, error)
	// All returns every document in insertion order.
	All(ctx context.Context, collection string) ([]bson.Raw, error)
	// Delete removes the document; deleting an absent key is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Clear removes every document of the collection.
	Clear(ctx context.Context, collection string) error
	Close(ctx context.Context) error
}
