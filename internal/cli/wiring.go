package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/config"
	"quiz-scoring-service/internal/infra/memory"
	"quiz-scoring-service/internal/infra/postgres"
	redisinfra "quiz-scoring-service/internal/infra/redis"
	"quiz-scoring-service/internal/infra/sqlite"
)

// services holds the wired use cases and the resources they borrow.
type services struct {
	quizzes  *app.QuizService
	attempts *app.AttemptService
	closers  []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildServices selects storage and caches from config.
func buildServices(ctx context.Context, cfg config.Config) (*services, error) {
	svc := &services{}

	var (
		quizStore    app.QuizStore
		attemptStore app.AttemptRepository
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := runMigrations(ctx, cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		svc.closers = append(svc.closers, pool.Close)
		quizStore = postgres.NewQuizStore(pool)
		attemptStore = postgres.NewAttemptStore(pool)
	case config.DriverSQLite:
		store, err := sqlite.NewStore(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		svc.closers = append(svc.closers, func() { _ = store.Close() })
		quizStore = store
		attemptStore = store
	case config.DriverMemory:
		quizStore = memory.NewQuizStore()
		attemptStore = memory.NewAttemptStore()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	slog.Info("storage selected", "driver", cfg.Storage.Driver)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		svc.closers = append(svc.closers, func() { _ = redisClient.Close() })
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	statsTTL := config.TTLDuration(cfg.Stats.TTL, 5*time.Minute)

	var (
		quizzes app.QuizStore = quizStore
		stats   app.StatsCache
	)
	switch {
	case redisClient != nil:
		quizzes = redisinfra.NewQuizCache(redisClient, quizStore, quizTTL)
		stats = redisinfra.NewStatsCache(redisClient, statsTTL)
	case cfg.Storage.Driver != config.DriverMemory:
		quizzes = memory.NewQuizCache(quizStore, quizTTL)
		stats = memory.NewStatsCache(statsTTL)
	}

	svc.attempts = app.NewAttemptService(attemptStore, quizzes, stats)
	svc.quizzes = app.NewQuizService(quizzes, svc.attempts, app.NewFeedbackClassifier())

	if cfg.Storage.Driver == config.DriverMemory && cfg.Seed.Path != "" {
		n, err := seedQuizzes(ctx, svc.quizzes, cfg.Seed.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("seed file not found, starting with an empty catalog", "path", cfg.Seed.Path)
		case err != nil:
			svc.Close()
			return nil, err
		default:
			slog.Info("seeded in-memory catalog", "quizzes", n)
		}
	}
	return svc, nil
}
