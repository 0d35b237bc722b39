// Package memory is an in-process DocumentStore, used by tests and by the
// "memory" backend for throwaway libraries.
package memory

import (
	"context"
	"slices"
	"sync"

	"alcyxob/sports-library/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type collection struct {
	order []string
	docs  map[string]bson.Raw
}

// Store keeps every collection in maps guarded by one mutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	closed      bool
}

var _ repository.DocumentStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{collections: map[string]*collection{}}
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: map[string]bson.Raw{}}
		s.collections[name] = c
	}
	return c
}

func clone(doc bson.Raw) bson.Raw {
	return slices.Clone(doc)
}

func (s *Store) Insert(_ context.Context, collection, id string, doc bson.Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	c := s.coll(collection)
	if _, exists := c.docs[id]; exists {
		return repository.ErrDuplicate
	}
	c.order = append(c.order, id)
	c.docs[id] = clone(doc)
	return nil
}

func (s *Store) Upsert(_ context.Context, collection, id string, doc bson.Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	c := s.coll(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = clone(doc)
	return nil
}

func (s *Store) Get(_ context.Context, collection, id string) (bson.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	c, ok := s.collections[collection]
	if !ok {
		return nil, repository.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) All(_ context.Context, collection string) ([]bson.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrClosed
	}
	c, ok := s.collections[collection]
	if !ok {
		return []bson.Raw{}, nil
	}
	out := make([]bson.Raw, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.docs[id]))
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	if _, exists := c.docs[id]; !exists {
		return nil
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == id })
	return nil
}

func (s *Store) Clear(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrClosed
	}
	delete(s.collections, collection)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
