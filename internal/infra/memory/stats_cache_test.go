package memory

import (
	"context"
	"testing"
	"time"

	"quiz-scoring-service/internal/domain"
)

func TestStatsCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cache := NewStatsCache(time.Minute)
	cache.clock = func() time.Time { return now }

	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected empty cache")
	}

	gen, _ := cache.StatsGeneration(ctx, "u1")
	want := domain.UserStats{TotalAttempts: 2, AverageScore: 75, BestScore: 90, QuizzesCompleted: 1}
	if err := cache.SetStats(ctx, "u1", gen, want); err != nil {
		t.Fatalf("set stats: %v", err)
	}
	got, ok, _ := cache.GetStats(ctx, "u1")
	if !ok || got != want {
		t.Fatalf("expected cached stats %+v, got %+v (ok=%v)", want, got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected entry to expire")
	}

	_ = cache.SetStats(ctx, "u1", gen, want)
	_ = cache.InvalidateStats(ctx, "u1")
	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected entry removed on invalidate")
	}
}

func TestStatsCacheDropsWriteAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(time.Minute)

	gen, _ := cache.StatsGeneration(ctx, "u1")
	_ = cache.InvalidateStats(ctx, "u1")
	_ = cache.SetStats(ctx, "u1", gen, domain.UserStats{})
	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected write with an old generation to be dropped")
	}

	gen, _ = cache.StatsGeneration(ctx, "u1")
	_ = cache.SetStats(ctx, "u1", gen, domain.UserStats{TotalAttempts: 1})
	if got, ok, _ := cache.GetStats(ctx, "u1"); !ok || got.TotalAttempts != 1 {
		t.Fatalf("expected current generation write to land, got %+v ok=%v", got, ok)
	}
}

func TestStatsCacheDisabledWithZeroTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(0)
	_ = cache.SetStats(ctx, "u1", 0, domain.UserStats{TotalAttempts: 1})
	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected zero ttl to disable caching")
	}
}
