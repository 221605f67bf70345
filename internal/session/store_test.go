package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"backoffice/internal/cache"
	"backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) IStore{
		"file": func(t *testing.T) IStore {
			return NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
		},
		"cache": func(t *testing.T) IStore {
			return NewCacheStore(cache.NewMemoryCache())
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			empty, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, empty.Authenticated())

			want := models.Session{Token: "tok", IsAdmin: true}
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))

			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.Session{}, got)
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), models.Session{Token: "tok", IsAdmin: true}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}
