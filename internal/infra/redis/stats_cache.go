package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-scoring-service/internal/domain"
)

// StatsCache stores derived user stats as JSON under quiz:stats:{userID}.
// Every invalidation bumps quiz:stats:gen:{userID}; a write is dropped when
// the generation moved since the caller read it, so a hit is never older
// than the user's latest attempt.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) GetStats(ctx context.Context, userID string) (domain.UserStats, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserStats{}, false, nil
	}
	if err != nil {
		return domain.UserStats{}, false, fmt.Errorf("get stats: %w", err)
	}
	var stats domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.UserStats{}, false, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stats, true, nil
}

func (c *StatsCache) StatsGeneration(ctx context.Context, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get stats generation: %w", err)
	}
	return gen, nil
}

func (c *StatsCache) SetStats(ctx context.Context, userID string, generation int64, stats domain.UserStats) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	genKey := c.genKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(userID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated between WATCH and EXEC
		return nil
	}
	if err != nil {
		return fmt.Errorf("set stats: %w", err)
	}
	return nil
}

func (c *StatsCache) InvalidateStats(ctx context.Context, userID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(userID))
		pipe.Del(ctx, c.key(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}

func (c *StatsCache) key(userID string) string {
	return "quiz:stats:" + userID
}

func (c *StatsCache) genKey(userID string) string {
	return "quiz:stats:gen:" + userID
}
