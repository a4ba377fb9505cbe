package memory

import (
	"context"
	"sync"
	"time"

	"quiz-scoring-service/internal/domain"
)

// StatsCache is an in-memory implementation of app.StatsCache.
type StatsCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu          sync.RWMutex
	stats       map[string]cachedStats
	generations map[string]int64
}

type cachedStats struct {
	stats     domain.UserStats
	expiresAt time.Time
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{
		ttl:         ttl,
		clock:       time.Now,
		stats:       make(map[string]cachedStats),
		generations: make(map[string]int64),
	}
}

func (c *StatsCache) GetStats(_ context.Context, userID string) (domain.UserStats, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.stats[userID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.UserStats{}, false, nil
	}
	return entry.stats, true, nil
}

func (c *StatsCache) StatsGeneration(_ context.Context, userID string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[userID], nil
}

// SetStats stores stats only if no invalidation happened since generation
// was read.
func (c *StatsCache) SetStats(_ context.Context, userID string, generation int64, stats domain.UserStats) error {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[userID] != generation {
		return nil
	}
	c.stats[userID] = cachedStats{stats: stats, expiresAt: c.clock().Add(c.ttl)}
	return nil
}

func (c *StatsCache) InvalidateStats(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	delete(c.stats, userID)
	return nil
}
