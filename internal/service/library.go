package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"alcyxob/sports-library/internal/codec"
	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/ownership"
	"alcyxob/sports-library/internal/repository"

	"go.uber.org/zap"
)

// Library persists entity graphs with cascading semantics that follow the
// ownership table. Every operation holds the library lock, so a cascade
// spanning several collections is observed as one step.
type Library struct {
	store  repository.DocumentStore
	codec  *codec.Codec
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewLibrary wraps an open document store.
func NewLibrary(store repository.DocumentStore, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		store:  store,
		codec:  codec.New(logger.Named("codec")),
		logger: logger,
	}
}

// Add persists a new entity and its owned descendants. Descendants are
// written first and are retrievable from their own collections as well as
// embedded in the parent. A catalog entity whose key exists is replaced.
func (l *Library) Add(ctx context.Context, e domain.Entity) error {
	if e == nil {
		return opError("add", "", "", ErrNilEntity)
	}
	kind, id := e.Kind(), e.ID().String()

	l.mu.Lock()
	defer l.mu.Unlock()

	if kind.IsCatalog() {
		return l.upsert(ctx, "add", e)
	}
	if _, err := l.store.Get(ctx, string(kind), id); err == nil {
		return opError("add", kind, id, ErrCollision)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return opError("add", kind, id, err)
	}

	for _, child := range ownership.ChildrenFirst(e) {
		if err := l.upsert(ctx, "add", child); err != nil {
			return err
		}
	}
	raw, err := l.codec.Marshal(e)
	if err != nil {
		return opError("add", kind, id, err)
	}
	if err := l.store.Insert(ctx, string(kind), id, raw); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = ErrCollision
		}
		return opError("add", kind, id, err)
	}
	fields := []zap.Field{zap.String("kind", kind.String()), zap.String("id", id)}
	for name, ref := range ownership.References(e) {
		fields = append(fields, zap.String(name, ref.String()))
	}
	l.logger.Debug("entity added", fields...)
	return nil
}

// Update rewrites the whole document and cascades to owned children:
// children with a known identity are replaced in place, new ones are added
// and children no longer present are deleted. Updating an owned entity also
// rewrites the copy embedded in its owners.
func (l *Library) Update(ctx context.Context, e domain.Entity) error {
	if e == nil {
		return opError("update", "", "", ErrNilEntity)
	}
	kind, id := e.Kind(), e.ID().String()

	l.mu.Lock()
	defer l.mu.Unlock()

	if kind.IsCatalog() {
		return l.upsert(ctx, "update", e)
	}
	old, found, err := l.load(ctx, kind, id)
	if err != nil {
		return opError("update", kind, id, err)
	}
	if !found {
		return opError("update", kind, id, repository.ErrNotFound)
	}
	previous, err := l.descendants(ctx, old)
	if err != nil {
		return opError("update", kind, id, err)
	}

	keep := map[string]bool{}
	for _, child := range ownership.ChildrenFirst(e) {
		keep[entityKey(child)] = true
		if err := l.upsert(ctx, "update", child); err != nil {
			return err
		}
	}
	if err := l.upsert(ctx, "update", e); err != nil {
		return err
	}
	for _, stale := range previous {
		if keep[entityKey(stale)] {
			continue
		}
		if err := l.store.Delete(ctx, string(stale.Kind()), stale.ID().String()); err != nil {
			return opError("update", kind, id, fmt.Errorf("remove %s %s: %w", stale.Kind(), stale.ID(), err))
		}
	}
	if err := l.syncOwners(ctx, kind, id, e); err != nil {
		return opError("update", kind, id, err)
	}
	l.logger.Debug("entity updated", zap.String("kind", kind.String()), zap.String("id", id))
	return nil
}

// Delete removes the entity first, then every owned descendant, whether it
// is listed in the given version, the stored one, or the stored documents of
// the descendants themselves. Referenced entities are never touched. An owned
// entity is also dropped from its owners. If a descendant cannot be removed
// the parent stays deleted and the error wraps ErrPartialCascade.
func (l *Library) Delete(ctx context.Context, e domain.Entity) error {
	if e == nil {
		return opError("delete", "", "", ErrNilEntity)
	}
	kind, id := e.Kind(), e.ID().String()

	l.mu.Lock()
	defer l.mu.Unlock()

	stored, _, err := l.load(ctx, kind, id)
	if err != nil {
		return opError("delete", kind, id, err)
	}
	targets, err := l.descendants(ctx, stored, e)
	if err != nil {
		return opError("delete", kind, id, err)
	}

	if err := l.store.Delete(ctx, string(kind), id); err != nil {
		return opError("delete", kind, id, err)
	}
	if err := l.syncOwners(ctx, kind, id, nil); err != nil {
		return opError("delete", kind, id, err)
	}

	var failed []error
	for _, d := range targets {
		if err := l.store.Delete(ctx, string(d.Kind()), d.ID().String()); err != nil {
			failed = append(failed, fmt.Errorf("%s %s: %w", d.Kind(), d.ID(), err))
		}
	}
	if len(failed) > 0 {
		l.logger.Warn("cascade delete left owned children behind",
			zap.String("kind", kind.String()),
			zap.String("id", id),
			zap.Int("remaining", len(failed)))
		return opError("delete", kind, id, fmt.Errorf("%w: %w", ErrPartialCascade, errors.Join(failed...)))
	}
	l.logger.Debug("entity deleted",
		zap.String("kind", kind.String()),
		zap.String("id", id),
		zap.Int("cascaded", len(targets)))
	return nil
}

// descendants returns every owned descendant of the roots, parents first.
// Each descendant is also read from its own collection so children recorded
// only there are found too. Nil roots are skipped.
func (l *Library) descendants(ctx context.Context, roots ...domain.Entity) ([]domain.Entity, error) {
	var out []domain.Entity
	seen := map[string]bool{}
	var walk func(domain.Entity) error
	walk = func(n domain.Entity) error {
		for _, c := range ownership.Children(n) {
			key := entityKey(c)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
			if err := walk(c); err != nil {
				return err
			}
			stored, found, err := l.load(ctx, c.Kind(), c.ID().String())
			if err != nil {
				return err
			}
			if found {
				if err := walk(stored); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		if err := walk(root); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// syncOwners rewrites every stored owner that embeds the entity kind/id,
// replacing the embedded copy or dropping it when replacement is nil, and
// repeats up the ownership chain.
func (l *Library) syncOwners(ctx context.Context, kind domain.Kind, id string, replacement domain.Entity) error {
	for _, ownerKind := range ownership.OwnerKinds(kind) {
		owners, err := l.findAll(ctx, ownerKind)
		if err != nil {
			return err
		}
		for _, owner := range owners {
			if !ownership.SetChild(owner, kind, id, replacement) {
				continue
			}
			if err := l.upsert(ctx, "sync", owner); err != nil {
				return err
			}
			if err := l.syncOwners(ctx, ownerKind, owner.ID().String(), owner); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearAll empties every collection.
func (l *Library) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clearAll(ctx)
}

func (l *Library) clearAll(ctx context.Context) error {
	var errs []error
	for _, kind := range domain.Kinds {
		if err := l.store.Clear(ctx, string(kind)); err != nil {
			errs = append(errs, opError("clear", kind, "", err))
		}
	}
	return errors.Join(errs...)
}

// FindByID returns the entity or found=false. Absence is not an error.
func (l *Library) FindByID(ctx context.Context, kind domain.Kind, id string) (domain.Entity, bool, error) {
	if !kind.Valid() {
		return nil, false, opError("find", kind, id, ErrUnknownKind)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, found, err := l.load(ctx, kind, id)
	if err != nil {
		return nil, false, opError("find", kind, id, err)
	}
	return e, found, nil
}

// FindAll returns every entity of a kind in insertion order.
func (l *Library) FindAll(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	if !kind.Valid() {
		return nil, opError("find", kind, "", ErrUnknownKind)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findAll(ctx, kind)
}

func (l *Library) findAll(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	docs, err := l.store.All(ctx, string(kind))
	if err != nil {
		return nil, opError("find", kind, "", err)
	}
	out := make([]domain.Entity, 0, len(docs))
	for _, raw := range docs {
		e, err := l.codec.Unmarshal(kind, raw)
		if err != nil {
			return nil, opError("find", kind, "", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// AppUser returns the single app user, creating it with defaults on first access.
func (l *Library) AppUser(ctx context.Context) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.findAll(ctx, domain.KindUser)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users[0].(*domain.User), nil
	}
	user := domain.NewUser()
	raw, err := l.codec.Marshal(user)
	if err != nil {
		return nil, opError("add", domain.KindUser, user.ID().String(), err)
	}
	if err := l.store.Insert(ctx, string(domain.KindUser), user.ID().String(), raw); err != nil {
		return nil, opError("add", domain.KindUser, user.ID().String(), err)
	}
	l.logger.Info("app user created", zap.String("id", user.ID().String()))
	return user, nil
}

// ResolveCatalogID returns the identity of the stored catalog entry for an enum value.
func (l *Library) ResolveCatalogID(ctx context.Context, ref domain.CatalogRef) (domain.Identity, bool, error) {
	kind := ref.CatalogKind()
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, err := l.store.Get(ctx, string(kind), ref.CatalogKey())
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, opError("resolve", kind, ref.CatalogKey(), err)
	}
	return domain.IdentityFor(kind, ref.CatalogKey()), true, nil
}

// Close releases the underlying store.
func (l *Library) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close(ctx)
}

func (l *Library) upsert(ctx context.Context, op string, e domain.Entity) error {
	kind, id := e.Kind(), e.ID().String()
	raw, err := l.codec.Marshal(e)
	if err != nil {
		return opError(op, kind, id, err)
	}
	if err := l.store.Upsert(ctx, string(kind), id, raw); err != nil {
		return opError(op, kind, id, err)
	}
	return nil
}

func entityKey(e domain.Entity) string {
	return string(e.Kind()) + "/" + e.ID().String()
}

// load reads and decodes one entity; callers hold the lock.
func (l *Library) load(ctx context.Context, kind domain.Kind, id string) (domain.Entity, bool, error) {
	raw, err := l.store.Get(ctx, string(kind), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	e, err := l.codec.Unmarshal(kind, raw)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
