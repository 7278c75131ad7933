package cache

import (
	"context"
	"time"

	"github.com/ZaguanLabs/moodletl"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps translations for one language pair in a Redis hash.
// The hash key is <prefix><source>:<target>; fields are source fragments.
// Insertion order is kept in a companion list at <hash key>:order.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL        string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix  string // Prefix for the hash key (default: "moodletl:")
	SourceLang string
	TargetLang string
}

const defaultKeyPrefix = "moodletl:"

// NewRedisStore connects to Redis and returns a store for the configured
// language pair.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, cacheError("parsing redis url", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, cacheError("connecting to redis", err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.SourceLang, cfg.TargetLang), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix, sourceLang, targetLang string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		key:    RedisKey(keyPrefix, sourceLang, targetLang),
	}
}

// RedisKey returns the hash key used for a language pair.
func RedisKey(prefix, sourceLang, targetLang string) string {
	return prefix + moodletl.NormalizeProviderCode(sourceLang) + ":" + moodletl.NormalizeProviderCode(targetLang)
}

// Get retrieves a translation. Redis errors are reported as a miss.
func (s *RedisStore) Get(source string) (string, bool) {
	val, err := s.client.HGet(context.Background(), s.key, source).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a translation. A new field is appended to the insertion order.
func (s *RedisStore) Set(source, translation string) error {
	ctx := context.Background()

	added, err := s.client.HSetNX(ctx, s.key, source, translation).Result()
	if err != nil {
		return cacheError("storing translation", err)
	}
	if added {
		if err := s.client.RPush(ctx, s.key+":order", source).Err(); err != nil {
			return cacheError("recording insertion order", err)
		}
		return nil
	}

	if err := s.client.HSet(ctx, s.key, source, translation).Err(); err != nil {
		return cacheError("storing translation", err)
	}
	return nil
}

// Flush is a no-op: every Set is written immediately.
func (s *RedisStore) Flush() error { return nil }

// Entries returns all translations in insertion order.
func (s *RedisStore) Entries() ([]moodletl.Entry, error) {
	ctx := context.Background()

	order, err := s.client.LRange(ctx, s.key+":order", 0, -1).Result()
	if err != nil {
		return nil, cacheError("listing insertion order", err)
	}
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, cacheError("listing translations", err)
	}

	entries := make([]moodletl.Entry, 0, len(values))
	for _, source := range order {
		if tr, ok := values[source]; ok {
			entries = append(entries, moodletl.Entry{Source: source, Translation: tr})
		}
	}
	return entries, nil
}

// Key returns the hash key of the store.
func (s *RedisStore) Key() string {
	return s.key
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	return s.client.Ping(context.Background()).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
