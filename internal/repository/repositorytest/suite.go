// Package repositorytest holds the behaviour every DocumentStore backend must share.
package repositorytest

import (
	"context"
	"testing"

	"alcyxob/sports-library/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func doc(t *testing.T, id string, value int) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(bson.D{{Key: "_id", Value: id}, {Key: "value", Value: value}})
	require.NoError(t, err)
	return raw
}

func value(t *testing.T, raw bson.Raw) int32 {
	t.Helper()
	v, ok := raw.Lookup("value").Int32OK()
	require.True(t, ok)
	return v
}

func ids(t *testing.T, docs []bson.Raw) []string {
	t.Helper()
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Lookup("_id").StringValue())
	}
	return out
}

// Run exercises a fresh, empty store returned by open.
func Run(t *testing.T, open func(t *testing.T) repository.DocumentStore) {
	ctx := context.Background()

	t.Run("InsertGet", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Insert(ctx, "tracks", "a", doc(t, "a", 1)))
		got, err := s.Get(ctx, "tracks", "a")
		require.NoError(t, err)
		assert.Equal(t, int32(1), value(t, got))

		_, err = s.Get(ctx, "tracks", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = s.Get(ctx, "never_written", "a")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("InsertDuplicate", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Insert(ctx, "tracks", "a", doc(t, "a", 1)))
		err := s.Insert(ctx, "tracks", "a", doc(t, "a", 2))
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := s.Get(ctx, "tracks", "a")
		require.NoError(t, err)
		assert.Equal(t, int32(1), value(t, got))
	})

	t.Run("CollectionsAreSeparate", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Insert(ctx, "tracks", "a", doc(t, "a", 1)))
		require.NoError(t, s.Insert(ctx, "users", "a", doc(t, "a", 2)))
		all, err := s.All(ctx, "tracks")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("UpsertKeepsPosition", func(t *testing.T) {
		s := open(t)
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, s.Insert(ctx, "plans", id, doc(t, id, i)))
		}
		require.NoError(t, s.Upsert(ctx, "plans", "a", doc(t, "a", 10)))
		require.NoError(t, s.Upsert(ctx, "plans", "d", doc(t, "d", 4)))

		all, err := s.All(ctx, "plans")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(t, all))
		assert.Equal(t, int32(10), value(t, all[0]))
	})

	t.Run("DeleteAndClear", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Insert(ctx, "units", "a", doc(t, "a", 1)))
		require.NoError(t, s.Insert(ctx, "units", "b", doc(t, "b", 2)))

		require.NoError(t, s.Delete(ctx, "units", "a"))
		require.NoError(t, s.Delete(ctx, "units", "a"), "deleting twice is not an error")
		require.NoError(t, s.Delete(ctx, "never_written", "a"))

		all, err := s.All(ctx, "units")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, ids(t, all))

		require.NoError(t, s.Clear(ctx, "units"))
		require.NoError(t, s.Clear(ctx, "never_written"))
		all, err = s.All(ctx, "units")
		require.NoError(t, err)
		assert.Empty(t, all)

		require.NoError(t, s.Insert(ctx, "units", "a", doc(t, "a", 3)), "cleared collection is usable")
	})

	t.Run("AllEmpty", func(t *testing.T) {
		s := open(t)
		all, err := s.All(ctx, "nothing_here")
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})
}
