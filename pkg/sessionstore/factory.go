package sessionstore

import (
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

const (
	defaultKeyPrefix = "lexruntime:session:"
	defaultTTL       = 24 * time.Hour
)

// NewStore creates a new Store based on the given type.
// For Redis, requires WithRedisClient option.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{
		keyPrefix: defaultKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(config.now), nil
	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig.Msg("redis store requires a client")
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = defaultTTL
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
			prefix: config.keyPrefix,
			now:    config.now,
		}, nil
	default:
		return nil, ErrInvalidStoreType.Msg("unknown session store type " + string(storeType))
	}
}

// Open creates a store from a URL: "memory://" or a redis:// or rediss://
// URL as accepted by redis.ParseURL.
func Open(rawURL string, opts ...StoreOption) (Store, error) {
	if rawURL == "" || strings.HasPrefix(rawURL, "memory:") {
		return NewStore(StoreTypeMemory, opts...)
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return nil, ErrInvalidStoreType.Msg("unsupported session store url " + rawURL)
	}
	redisOpts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, ErrInvalidConfig.MsgErr("invalid redis url", err)
	}
	return NewStore(StoreTypeRedis, append([]StoreOption{WithRedisClient(redis.NewClient(redisOpts))}, opts...)...)
}
