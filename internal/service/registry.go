package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"alcyxob/sports-library/internal/config"
	"alcyxob/sports-library/internal/domain"
	"alcyxob/sports-library/internal/repository"
	"alcyxob/sports-library/internal/repository/memory"
	mongorepo "alcyxob/sports-library/internal/repository/mongo"
	"alcyxob/sports-library/internal/repository/sqlite"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Open opens the configured store and returns a library on it. Any failure
// is returned as *InitializationError.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, &InitializationError{Backend: cfg.Backend, Target: target(cfg), Err: err}
	}
	lib := NewLibrary(store, logger)
	if cfg.SeedCatalog {
		if _, err := lib.SeedCatalog(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, &InitializationError{Backend: cfg.Backend, Target: target(cfg), Err: err}
		}
	}
	logger.Info("library opened",
		zap.String("backend", cfg.Backend),
		zap.String("target", target(cfg)))
	return lib, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (repository.DocumentStore, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return sqlite.Open(ctx, cfg.Path)
	case config.BackendMongo:
		store, err := mongorepo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		collections := make([]string, 0, len(domain.Kinds))
		for _, kind := range domain.Kinds {
			collections = append(collections, string(kind))
		}
		if err := store.EnsureIndexes(ctx, collections); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func target(cfg config.StoreConfig) string {
	switch cfg.Backend {
	case config.BackendMongo:
		return cfg.MongoURI + "/" + cfg.MongoDatabase
	default:
		return cfg.Path
	}
}

// Registry hands out one Library per store target. Concurrent first opens of
// the same target share a single initialization.
type Registry struct {
	mu     sync.Mutex
	libs   map[string]*Library
	group  singleflight.Group
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{libs: map[string]*Library{}, logger: logger}
}

// Open returns the library for cfg, opening it on first use.
func (r *Registry) Open(ctx context.Context, cfg config.StoreConfig) (*Library, error) {
	key := cfg.Backend + ":" + target(cfg)
	if lib := r.lookup(key); lib != nil {
		return lib, nil
	}
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		if lib := r.lookup(key); lib != nil {
			return lib, nil
		}
		lib, err := Open(ctx, cfg, r.logger)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.libs[key] = lib
		r.mu.Unlock()
		return lib, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Library), nil
}

func (r *Registry) lookup(key string) *Library {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.libs[key]
}

// CloseAll closes every library. A later Open reopens from storage.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	libs := r.libs
	r.libs = map[string]*Library{}
	r.mu.Unlock()

	var errs []error
	for key, lib := range libs {
		if err := lib.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
