package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-scoring-service/internal/domain"
)

func TestStatsCacheSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache := NewStatsCache(newClient(mr), time.Minute)

	if _, ok, err := cache.GetStats(ctx, "u1"); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	gen, err := cache.StatsGeneration(ctx, "u1")
	if err != nil || gen != 0 {
		t.Fatalf("expected generation 0, got %d err=%v", gen, err)
	}

	want := domain.UserStats{TotalAttempts: 3, AverageScore: 80, BestScore: 100, QuizzesCompleted: 2}
	if err := cache.SetStats(ctx, "u1", gen, want); err != nil {
		t.Fatalf("set stats: %v", err)
	}
	if !mr.Exists("quiz:stats:u1") {
		t.Fatalf("expected redis key to be set")
	}
	got, ok, err := cache.GetStats(ctx, "u1")
	if err != nil || !ok || got != want {
		t.Fatalf("expected %+v, got %+v ok=%v err=%v", want, got, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.GetStats(ctx, "u1"); ok {
		t.Fatalf("expected key to expire")
	}

	_ = cache.SetStats(ctx, "u1", gen, want)
	if err := cache.InvalidateStats(ctx, "u1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:stats:u1") {
		t.Fatalf("expected redis key to be removed")
	}
	if next, _ := cache.StatsGeneration(ctx, "u1"); next != gen+1 {
		t.Fatalf("expected generation %d after invalidate, got %d", gen+1, next)
	}
}

func TestStatsCacheDropsWriteAfterInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache := NewStatsCache(newClient(mr), time.Minute)

	gen, err := cache.StatsGeneration(ctx, "u1")
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if err := cache.InvalidateStats(ctx, "u1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if err := cache.SetStats(ctx, "u1", gen, domain.UserStats{}); err != nil {
		t.Fatalf("set stats: %v", err)
	}
	if mr.Exists("quiz:stats:u1") {
		t.Fatalf("expected write with an old generation to be dropped")
	}

	current, _ := cache.StatsGeneration(ctx, "u1")
	if err := cache.SetStats(ctx, "u1", current, domain.UserStats{TotalAttempts: 1}); err != nil {
		t.Fatalf("set stats: %v", err)
	}
	got, ok, _ := cache.GetStats(ctx, "u1")
	if !ok || got.TotalAttempts != 1 {
		t.Fatalf("expected current generation write to land, got %+v ok=%v", got, ok)
	}
}
