package core

import (
	"backoffice/internal/activity"
	"backoffice/internal/cache"
	"backoffice/internal/configuration"
	"backoffice/internal/models"
	"backoffice/internal/push"
	"backoffice/internal/session"

	"go.uber.org/zap"
)

func NewCache(config models.CacheConfiguration) cache.ICache {
	switch config.Type {
	case configuration.ProviderRedis:
		redisCache, err := cache.NewRedisCache(*config.Redis, configuration.StoreKeyPrefix)
		if err != nil {
			zap.L().Fatal("Failed to connect to redis cache", zap.Error(err))
		}
		return redisCache
	default:
		return cache.NewMemoryCache()
	}
}

func NewSessionStore(config models.SessionConfiguration, kv cache.ICache) session.IStore {
	switch config.Type {
	case configuration.ProviderCache:
		return session.NewCacheStore(kv)
	default:
		return session.NewFileStore(config.Filesystem.Path)
	}
}

func NewActivityLogger(config models.ActivityConfiguration) activity.IActivityLogger {
	switch config.Type {
	case configuration.ProviderFilesystem:
		return activity.NewFilesystemClient(config)
	default:
		return activity.NewMemoryClient()
	}
}

// NewPushTransports builds the transports in configured fallback order.
func NewPushTransports(config models.PushConfiguration) []push.ITransport {
	transports := make([]push.ITransport, 0, len(config.Transports))

	for _, name := range config.Transports {
		switch name {
		case configuration.ProviderNATS:
			transports = append(transports, push.NewNATSTransport(config.NATS, config.SubjectPrefix))
		case configuration.ProviderJetstream:
			transports = append(transports, push.NewJetStreamTransport(
				config.JetStream, config.SubjectPrefix, config.NATS.ReconnectWaitSeconds))
		case configuration.ProviderMemory:
			transports = append(transports, push.NewMemoryTransport(config.SubjectPrefix))
		}
	}

	return transports
}
