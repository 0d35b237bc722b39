package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"alcyxob/sports-library/internal/config"
	"alcyxob/sports-library/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sqliteConfig(path string) config.StoreConfig {
	return config.StoreConfig{
		Backend:     config.BackendSQLite,
		Path:        path,
		Timeout:     5 * time.Second,
		SeedCatalog: true,
	}
}

func TestRegistry_ConcurrentOpenReturnsSameLibrary(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(zaptest.NewLogger(t))
	defer registry.CloseAll(ctx)
	cfg := sqliteConfig(filepath.Join(t.TempDir(), "library.db"))

	libs := make([]*Library, 16)
	var wg sync.WaitGroup
	for i := range libs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lib, err := registry.Open(ctx, cfg)
			assert.NoError(t, err)
			libs[i] = lib
		}(i)
	}
	wg.Wait()

	require.NotNil(t, libs[0])
	for _, lib := range libs {
		assert.Same(t, libs[0], lib)
	}
	assert.Equal(t, 3, count(t, libs[0], domain.KindMovementType))
}

func TestRegistry_ReopenLoadsPersistedData(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(nil)
	cfg := sqliteConfig(filepath.Join(t.TempDir(), "nested", "library.db"))

	lib, err := registry.Open(ctx, cfg)
	require.NoError(t, err)
	plan := testPlan()
	require.NoError(t, lib.Add(ctx, plan))
	user, err := lib.AppUser(ctx)
	require.NoError(t, err)
	require.NoError(t, registry.CloseAll(ctx))

	reopened, err := registry.Open(ctx, cfg)
	require.NoError(t, err)
	defer registry.CloseAll(ctx)
	assert.NotSame(t, lib, reopened)

	stored, found, err := Find[*domain.RunningPlan](ctx, reopened, plan.ID().String())
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, stored.Entries, 2)
	assert.Equal(t, 3, count(t, reopened, domain.KindRunningUnit))

	again, err := reopened.AppUser(ctx)
	require.NoError(t, err)
	assert.True(t, user.ID().Equal(again.ID()))
	// seeding on reopen does not duplicate the catalog
	assert.Equal(t, 3, count(t, reopened, domain.KindTrainingType))
}

func TestRegistry_SeparateTargets(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(nil)
	defer registry.CloseAll(ctx)
	dir := t.TempDir()

	a, err := registry.Open(ctx, sqliteConfig(filepath.Join(dir, "a.db")))
	require.NoError(t, err)
	b, err := registry.Open(ctx, sqliteConfig(filepath.Join(dir, "b.db")))
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	require.NoError(t, a.Add(ctx, testTrack()))
	assert.Zero(t, count(t, b, domain.KindTrack))
}

func TestOpen_InitializationErrors(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cases := map[string]config.StoreConfig{
		"unknown backend": {Backend: "cassandra"},
		"empty path":      {Backend: config.BackendSQLite},
		"unwritable path": sqliteConfig(filepath.Join(blocker, "library.db")),
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			lib, err := Open(ctx, cfg, nil)
			require.Error(t, err)
			assert.Nil(t, lib)

			var initErr *InitializationError
			require.ErrorAs(t, err, &initErr)
			assert.Equal(t, cfg.Backend, initErr.Backend)
		})
	}
}

func TestOpen_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	lib, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	defer lib.Close(ctx)

	assert.Zero(t, count(t, lib, domain.KindMovementType))
}
