package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"alcyxob/sports-library/internal/repository"
	"alcyxob/sports-library/internal/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.DocumentStore {
		return openTemp(t)
	})
}

func TestStore_InMemory(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.DocumentStore {
		s, err := Open(context.Background(), MemoryPath)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}

func TestOpen_CreatesDirectoriesAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "library.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close(context.Background())

	_, err = s.All(context.Background(), "tracks")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_ReopenKeepsDocuments(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library.db")
	raw, err := bson.Marshal(bson.D{{Key: "_id", Value: "a"}, {Key: "name", Value: "Track"}})
	require.NoError(t, err)

	s1, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.Insert(ctx, "tracks", "a", raw))
	require.NoError(t, s1.Close(ctx))

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close(ctx)
	got, err := s2.Get(ctx, "tracks", "a")
	require.NoError(t, err)
	assert.Equal(t, "Track", got.Lookup("name").StringValue())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestStore_RejectsInvalidCollectionName(t *testing.T) {
	s := openTemp(t)
	_, err := s.All(context.Background(), `tracks"; DROP TABLE users; --`)
	assert.Error(t, err)
}

func TestStore_ClosedStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))

	_, err = s.Get(ctx, "tracks", "a")
	assert.ErrorIs(t, err, repository.ErrClosed)
}
