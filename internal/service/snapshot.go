package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/sports-library/internal/codec"
	"alcyxob/sports-library/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SnapshotVersion is written into every archive; Restore rejects others.
const SnapshotVersion = 1

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot serializes every collection into a single BSON archive:
//
//	{version: 1, createdAt: <datetime>, collections: {<kind>: [<doc>, ...]}}
//
// Documents keep their insertion order.
func (l *Library) Snapshot(ctx context.Context) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	collections := bson.D{}
	for _, kind := range domain.Kinds {
		docs, err := l.store.All(ctx, string(kind))
		if err != nil {
			return nil, opError("snapshot", kind, "", err)
		}
		arr := make(bson.A, 0, len(docs))
		for _, doc := range docs {
			arr = append(arr, doc)
		}
		collections = append(collections, bson.E{Key: string(kind), Value: arr})
	}
	archive, err := bson.Marshal(bson.D{
		{Key: "version", Value: SnapshotVersion},
		{Key: "createdAt", Value: time.Now().UTC()},
		{Key: "collections", Value: collections},
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return archive, nil
}

// Restore replaces the whole library with the contents of an archive made by
// Snapshot. The archive is validated completely before anything is cleared.
func (l *Library) Restore(ctx context.Context, archive []byte) error {
	contents, err := l.readSnapshot(archive)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.clearAll(ctx); err != nil {
		return err
	}
	restored := 0
	for _, kind := range domain.Kinds {
		for _, doc := range contents[kind] {
			id := doc.Lookup(codec.IDField).StringValue()
			if err := l.store.Insert(ctx, string(kind), id, doc); err != nil {
				return opError("restore", kind, id, err)
			}
			restored++
		}
	}
	l.logger.Info("library restored from snapshot", zap.Int("documents", restored))
	return nil
}

func (l *Library) readSnapshot(archive []byte) (map[domain.Kind][]bson.Raw, error) {
	raw := bson.Raw(archive)
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	version, ok := raw.Lookup("version").AsInt64OK()
	if !ok || version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version", ErrInvalidSnapshot)
	}
	colls, ok := raw.Lookup("collections").DocumentOK()
	if !ok {
		return nil, fmt.Errorf("%w: no collections", ErrInvalidSnapshot)
	}
	elems, err := colls.Elements()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	contents := map[domain.Kind][]bson.Raw{}
	for _, elem := range elems {
		kind := domain.Kind(elem.Key())
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidSnapshot, ErrUnknownKind, elem.Key())
		}
		arr, ok := elem.Value().ArrayOK()
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidSnapshot, kind)
		}
		values, err := arr.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		for _, v := range values {
			doc, ok := v.DocumentOK()
			if !ok {
				return nil, fmt.Errorf("%w: %s holds a non-document", ErrInvalidSnapshot, kind)
			}
			if _, ok := doc.Lookup(codec.IDField).StringValueOK(); !ok {
				return nil, fmt.Errorf("%w: %s document without %s", ErrInvalidSnapshot, kind, codec.IDField)
			}
			if _, err := l.codec.Unmarshal(kind, doc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
			}
			contents[kind] = append(contents[kind], doc)
		}
	}
	return contents, nil
}
