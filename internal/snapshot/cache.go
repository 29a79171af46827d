package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/wavelit/creatorhub/internal/monitoring"
)

// Cache stores short-lived per-creator snapshots in Redis. Decisions are
// never cached, only the snapshot data they are computed from; every
// mutating call invalidates the creator's entry so the next evaluation runs
// against a fresh snapshot.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a snapshot cache from a Redis URL
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Msg("Redis connection established")

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the underlying Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}

// CreatorContextKey returns the cache key for a creator's context snapshot
func CreatorContextKey(userID uuid.UUID) string {
	return fmt.Sprintf("snapshot:creator:%s", userID)
}

// Get loads a cached snapshot into dest. Returns false on a miss. Cache
// errors are reported as misses so callers fall through to the database.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", key).Msg("Snapshot cache read failed")
		}
		monitoring.RecordCacheMiss("snapshot")
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Snapshot cache entry malformed")
		monitoring.RecordCacheMiss("snapshot")
		return false
	}

	monitoring.RecordCacheHit("snapshot")
	return true
}

// Set stores a snapshot with the configured TTL. Failures are logged and
// swallowed: the cache is an optimization, never a source of truth.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Snapshot cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Snapshot cache write failed")
	}
}

// Invalidate removes cached snapshots after a mutating call
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Snapshot cache invalidation failed")
	}
}
