package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-scoring-service/internal/domain"
)

const attemptSummaryColumns = `id, user_id, quiz_id, quiz_title, score, total_questions, percentage,
	feedback_level, feedback_message, time_spent_seconds, created_at`

// AttemptStore is the append-only attempt log in Postgres. Each attempt is a
// single row written by one INSERT.
type AttemptStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool, now: time.Now}
}

func (s *AttemptStore) Create(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	attempt.ID = uuid.NewString()
	// Postgres keeps microseconds; truncate so the returned value matches a re-read.
	attempt.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, quiz_title, score, total_questions, percentage,
			feedback_level, feedback_message, time_spent_seconds, answers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12)`,
		attempt.ID, attempt.UserID, attempt.QuizID, attempt.QuizTitle, attempt.Score, attempt.TotalQuestions,
		attempt.Percentage, string(attempt.FeedbackLevel), attempt.FeedbackMessage, attempt.TimeSpentSeconds,
		string(answers), attempt.CreatedAt,
	)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	return attempt, nil
}

func (s *AttemptStore) FindByUser(ctx context.Context, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	return s.findPage(ctx, `user_id = $1`, []any{userID}, page)
}

func (s *AttemptStore) FindByQuiz(ctx context.Context, quizID, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	return s.findPage(ctx, `user_id = $1 AND quiz_id = $2`, []any{userID, quizID}, page)
}

func (s *AttemptStore) findPage(ctx context.Context, where string, args []any, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	page = page.WithDefaults()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_attempts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attempts: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM quiz_attempts WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		attemptSummaryColumns, where, len(args)-1, len(args))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.AttemptSummary, 0, page.Limit)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, rows.Err()
}

func (s *AttemptStore) FindByID(ctx context.Context, attemptID string) (domain.Attempt, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+attemptSummaryColumns+`, answers FROM quiz_attempts WHERE id = $1`, attemptID)

	var (
		a     domain.Attempt
		level string
		raw   []byte
	)
	err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.QuizTitle, &a.Score, &a.TotalQuestions, &a.Percentage,
		&level, &a.FeedbackMessage, &a.TimeSpentSeconds, &a.CreatedAt, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("load attempt: %w", err)
	}
	a.FeedbackLevel = domain.FeedbackLevel(level)
	a.CreatedAt = a.CreatedAt.UTC()
	if err := json.Unmarshal(raw, &a.Answers); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return a, nil
}

func (s *AttemptStore) ScoresByUser(ctx context.Context, userID string) ([]domain.AttemptScore, error) {
	rows, err := s.pool.Query(ctx, `SELECT quiz_id, percentage FROM quiz_attempts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()

	scores := make([]domain.AttemptScore, 0)
	for rows.Next() {
		var score domain.AttemptScore
		if err := rows.Scan(&score.QuizID, &score.Percentage); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func scanSummary(rows pgx.Rows) (domain.AttemptSummary, error) {
	var (
		a     domain.AttemptSummary
		level string
	)
	err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.QuizTitle, &a.Score, &a.TotalQuestions, &a.Percentage,
		&level, &a.FeedbackMessage, &a.TimeSpentSeconds, &a.CreatedAt)
	if err != nil {
		return domain.AttemptSummary{}, err
	}
	a.FeedbackLevel = domain.FeedbackLevel(level)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
