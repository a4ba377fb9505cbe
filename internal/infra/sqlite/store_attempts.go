package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quiz-scoring-service/internal/domain"
)

const summaryColumns = `id, user_id, quiz_id, quiz_title, score, total_questions, percentage,
	feedback_level, feedback_message, time_spent_seconds, created_at_unix`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create writes the attempt as one row; there is no update path.
func (s *Store) Create(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	attempt.ID = s.newID()
	attempt.CreatedAt = s.now().UTC()

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return domain.Attempt{}, err
	}

	var timeSpent sql.NullInt64
	if attempt.TimeSpentSeconds != nil {
		timeSpent = sql.NullInt64{Int64: int64(*attempt.TimeSpentSeconds), Valid: true}
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO quiz_attempts (id, user_id, quiz_id, quiz_title, score, total_questions, percentage,
			feedback_level, feedback_message, time_spent_seconds, answers_json, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.UserID,
		attempt.QuizID,
		attempt.QuizTitle,
		attempt.Score,
		attempt.TotalQuestions,
		attempt.Percentage,
		string(attempt.FeedbackLevel),
		attempt.FeedbackMessage,
		timeSpent,
		string(answers),
		attempt.CreatedAt.UnixNano(),
	)
	if err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

func (s *Store) FindByUser(ctx context.Context, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	return s.findPage(ctx, `user_id = ?`, []any{userID}, page)
}

func (s *Store) FindByQuiz(ctx context.Context, quizID, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	return s.findPage(ctx, `user_id = ? AND quiz_id = ?`, []any{userID, quizID}, page)
}

func (s *Store) findPage(ctx context.Context, where string, args []any, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	page = page.WithDefaults()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_attempts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+summaryColumns+` FROM quiz_attempts WHERE `+where+`
		 ORDER BY created_at_unix DESC, id DESC
		 LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]domain.AttemptSummary, 0, page.Limit)
	for rows.Next() {
		summary, _, err := scanAttempt(rows, false)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, attemptID string) (domain.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, answers_json FROM quiz_attempts WHERE id = ?`, attemptID)
	summary, answers, err := scanAttempt(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}

	return domain.Attempt{
		ID:               summary.ID,
		UserID:           summary.UserID,
		QuizID:           summary.QuizID,
		QuizTitle:        summary.QuizTitle,
		Score:            summary.Score,
		TotalQuestions:   summary.TotalQuestions,
		Percentage:       summary.Percentage,
		FeedbackLevel:    summary.FeedbackLevel,
		FeedbackMessage:  summary.FeedbackMessage,
		TimeSpentSeconds: summary.TimeSpentSeconds,
		Answers:          answers,
		CreatedAt:        summary.CreatedAt,
	}, nil
}

func (s *Store) ScoresByUser(ctx context.Context, userID string) ([]domain.AttemptScore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT quiz_id, percentage FROM quiz_attempts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
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

func scanAttempt(row rowScanner, withAnswers bool) (domain.AttemptSummary, []domain.QuestionResult, error) {
	var (
		summary    domain.AttemptSummary
		level      string
		timeSpent  sql.NullInt64
		createdAt  int64
		rawAnswers string
	)
	dest := []any{
		&summary.ID,
		&summary.UserID,
		&summary.QuizID,
		&summary.QuizTitle,
		&summary.Score,
		&summary.TotalQuestions,
		&summary.Percentage,
		&level,
		&summary.FeedbackMessage,
		&timeSpent,
		&createdAt,
	}
	if withAnswers {
		dest = append(dest, &rawAnswers)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.AttemptSummary{}, nil, err
	}

	summary.FeedbackLevel = domain.FeedbackLevel(level)
	summary.CreatedAt = time.Unix(0, createdAt).UTC()
	if timeSpent.Valid {
		v := int(timeSpent.Int64)
		summary.TimeSpentSeconds = &v
	}

	var answers []domain.QuestionResult
	if withAnswers {
		if err := json.Unmarshal([]byte(rawAnswers), &answers); err != nil {
			return domain.AttemptSummary{}, nil, err
		}
	}
	return summary, answers, nil
}
