package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ICache = (*MemoryCache)(nil)
var _ ICache = (*RueidisCache)(nil)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "token", "abc", 0))
	value, ok, err := c.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, c.Delete(ctx, "token", "admin"))
	_, ok, err = c.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "permission", "granted", time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, "permission")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "permission")
	assert.False(t, ok)
}
