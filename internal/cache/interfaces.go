package cache

import (
	"context"
	"time"
)

// ICache is the durable key-value store behind client state.
type ICache interface {
	// Get returns ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value; a zero ttl keeps it until deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	Close() error
}
