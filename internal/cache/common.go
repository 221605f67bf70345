package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/redis/rueidis"
)

type RueidisCache struct {
	client rueidis.Client
	prefix string
}

func newRueidisCache(
	hosts []string,
	password string,
	tlsEnabled bool,
	tlsServerName,
	prefix string,
) (*RueidisCache, error) {
	clientOption := rueidis.ClientOption{
		InitAddress: hosts,
		Password:    password,
	}

	if tlsEnabled {
		clientOption.TLSConfig = &tls.Config{
			ServerName: tlsServerName,
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := rueidis.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RueidisCache{client: client, prefix: prefix}, nil
}

func NewRedisCache(config models.RedisCacheConfiguration, prefix string) (*RueidisCache, error) {
	return newRueidisCache(config.Hosts, config.Password, config.TLSEnabled, config.TLSServerName, prefix)
}

func (r *RueidisCache) key(k string) string {
	return r.prefix + k
}

func (r *RueidisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Do(ctx, r.client.B().Get().Key(r.key(key)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *RueidisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl > 0 {
		return r.client.Do(ctx, r.client.B().Set().Key(r.key(key)).Value(value).Ex(ttl).Build()).Error()
	}
	return r.client.Do(ctx, r.client.B().Set().Key(r.key(key)).Value(value).Build()).Error()
}

func (r *RueidisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}
	return r.client.Do(ctx, r.client.B().Del().Key(prefixed...).Build()).Error()
}

func (r *RueidisCache) Close() error {
	r.client.Close()
	return nil
}
