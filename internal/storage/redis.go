package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKey = "snkrdunk:session"
	// The session has no explicit expiry upstream; the TTL just keeps a
	// dead cookie from lingering forever if the service stops crawling.
	sessionTTL = 30 * 24 * time.Hour

	crawlLockKey = "crawl:bulk:lock"
	// Generous upper bound on a full catalog pass. The lock is released
	// explicitly; the TTL only guards against a crashed run holding it.
	crawlLockTTL = 2 * time.Hour
)

// RedisStore handles the cached snkrdunk session and the bulk-crawl lock.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// CachedSession returns the cached session cookie, or "" when none is set.
func (s *RedisStore) CachedSession(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) CacheSession(ctx context.Context, cookie string) error {
	return s.client.Set(ctx, sessionKey, cookie, sessionTTL).Err()
}

func (s *RedisStore) DropSession(ctx context.Context) error {
	return s.client.Del(ctx, sessionKey).Err()
}

// AcquireCrawlLock takes the bulk-crawl mutex. Returns false when another
// bulk crawl already holds it.
func (s *RedisStore) AcquireCrawlLock(ctx context.Context) (bool, error) {
	return s.client.SetNX(ctx, crawlLockKey, "1", crawlLockTTL).Result()
}

func (s *RedisStore) ReleaseCrawlLock(ctx context.Context) error {
	return s.client.Del(ctx, crawlLockKey).Err()
}
