package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quiz-scoring-service/internal/domain"
)

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM quizzes WHERE id = ?`, quizID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	return decodeQuiz(raw)
}

func (s *Store) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (id, title, category, difficulty, is_active, data_json, created_at_unix, updated_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			difficulty = excluded.difficulty,
			is_active = excluded.is_active,
			data_json = excluded.data_json,
			updated_at_unix = excluded.updated_at_unix`,
		quiz.ID,
		quiz.Title,
		quiz.Category,
		string(quiz.Difficulty),
		boolToInt(quiz.IsActive),
		string(data),
		quiz.CreatedAt.UnixNano(),
		quiz.UpdatedAt.UnixNano(),
	)
	return err
}

func (s *Store) ListQuizzes(ctx context.Context, filter domain.QuizFilter, page domain.PageRequest) ([]domain.Quiz, int, error) {
	page = page.WithDefaults()

	clauses := []string{"is_active = ?"}
	args := []any{boolToInt(filter.ActiveOnly())}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT data_json FROM quizzes WHERE `+where+`
		 ORDER BY created_at_unix DESC, id DESC
		 LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0, page.Limit)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, err
		}
		quiz, err := decodeQuiz(raw)
		if err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, total, rows.Err()
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM quizzes WHERE is_active = 1 ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func decodeQuiz(raw string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	return quiz, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
