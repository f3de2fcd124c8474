package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/davidbz/atelier/internal/domain"
)

// Store is an in-process ResultCache. Expired entries are evicted lazily on read.
type Store struct {
	mu      sync.Mutex
	entries map[domain.Fingerprint]domain.CachedResult
	ttl     time.Duration
	clock   domain.Clock

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Store whose entries live for ttl. A nil clock uses time.Now.
func New(ttl time.Duration, clock domain.Clock) (*Store, error) {
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	if clock == nil {
		clock = time.Now
	}

	return &Store{
		entries: make(map[domain.Fingerprint]domain.CachedResult),
		ttl:     ttl,
		clock:   clock,
	}, nil
}

// Get returns the entry for fp while it is younger than the TTL.
func (s *Store) Get(_ context.Context, fp domain.Fingerprint) (fn.Option[domain.CachedResult], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[fp]
	if !ok {
		s.misses.Add(1)
		return fn.None[domain.CachedResult](), nil
	}

	if !s.fresh(entry) {
		delete(s.entries, fp)
		s.misses.Add(1)
		return fn.None[domain.CachedResult](), nil
	}

	s.hits.Add(1)
	return fn.Some(entry), nil
}

// Put stores a copy of result under fp.
func (s *Store) Put(_ context.Context, fp domain.Fingerprint, result *domain.GenerationResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[fp] = domain.CachedResult{Result: *result, CachedAt: s.clock()}
	return nil
}

// Clear removes every entry and returns the number removed.
func (s *Store) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[domain.Fingerprint]domain.CachedResult)
	return n, nil
}

// Stats reports counters and the split of live and expired entries.
func (s *Store) Stats(_ context.Context) (*domain.CacheStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.CacheStats{
		HitCount:  s.hits.Load(),
		MissCount: s.misses.Load(),
		TTLHours:  s.ttl.Hours(),
	}
	for _, entry := range s.entries {
		if s.fresh(entry) {
			stats.ValidEntries++
		} else {
			stats.ExpiredEntries++
		}
	}
	return stats, nil
}

func (s *Store) fresh(entry domain.CachedResult) bool {
	return s.clock().Sub(entry.CachedAt) < s.ttl
}
