package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/redis/go-redis/v9"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

const scanBatchSize = 200

// Store is a ResultCache shared across processes. Redis expires entries itself, so
// expired entries are never observed and always report as zero. The clock only stamps
// CachedAt; expiry follows the server's clock, not a fake one.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	clock  domain.Clock
}

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// New creates a Redis-backed result cache. Keys are namespaced by prefix.
func New(client *redis.Client, prefix string, ttl time.Duration, clock domain.Clock) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	if clock == nil {
		clock = time.Now
	}

	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		clock:  clock,
	}, nil
}

func (s *Store) entryKey(fp domain.Fingerprint) string {
	return s.prefix + "entry:" + fp.String()
}

func (s *Store) counterKey(name string) string {
	return s.prefix + "stats:" + name
}

// Get returns the cached entry for fp, if present.
func (s *Store) Get(ctx context.Context, fp domain.Fingerprint) (fn.Option[domain.CachedResult], error) {
	data, err := s.client.Get(ctx, s.entryKey(fp)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.incr(ctx, "misses")
		return fn.None[domain.CachedResult](), nil
	}
	if err != nil {
		return fn.None[domain.CachedResult](), fmt.Errorf("failed to get cache entry: %w", err)
	}

	var entry domain.CachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is dropped and reported as a miss.
		observability.FromContext(ctx).Warn("failed to decode cache entry, evicting",
			observability.Error(err))
		s.client.Del(ctx, s.entryKey(fp))
		s.incr(ctx, "misses")
		return fn.None[domain.CachedResult](), nil
	}

	s.incr(ctx, "hits")
	return fn.Some(entry), nil
}

// Put stores result under fp with the store TTL.
func (s *Store) Put(ctx context.Context, fp domain.Fingerprint, result *domain.GenerationResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	data, err := json.Marshal(domain.CachedResult{Result: *result, CachedAt: s.clock()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.entryKey(fp), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	observability.FromContext(ctx).Debug("cache entry stored",
		observability.String("key", s.entryKey(fp)),
		observability.Duration("ttl", s.ttl))
	return nil
}

// Clear deletes every entry under the prefix and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	keys, err := s.scanEntries(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		n, err := s.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete cache entries: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

// Stats reports the shared hit/miss counters and the number of live entries.
func (s *Store) Stats(ctx context.Context) (*domain.CacheStats, error) {
	keys, err := s.scanEntries(ctx)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	hits := pipe.Get(ctx, s.counterKey("hits"))
	misses := pipe.Get(ctx, s.counterKey("misses"))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read cache counters: %w", err)
	}

	return &domain.CacheStats{
		HitCount:     counterValue(hits),
		MissCount:    counterValue(misses),
		ValidEntries: int64(len(keys)),
		TTLHours:     s.ttl.Hours(),
	}, nil
}

func (s *Store) scanEntries(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"entry:*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache entries: %w", err)
	}
	return keys, nil
}

// incr bumps a counter. Counter failures never fail a lookup.
func (s *Store) incr(ctx context.Context, name string) {
	if err := s.client.Incr(ctx, s.counterKey(name)).Err(); err != nil {
		observability.FromContext(ctx).Debug("failed to bump cache counter",
			observability.String("counter", name),
			observability.Error(err))
	}
}

func counterValue(cmd *redis.StringCmd) int64 {
	n, err := cmd.Int64()
	if err != nil {
		return 0
	}
	return n
}
