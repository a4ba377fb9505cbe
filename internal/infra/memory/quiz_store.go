package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-scoring-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore (useful for tests/demos).
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore(quizzes ...domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz, len(quizzes))}
	for _, quiz := range quizzes {
		s.quizzes[quiz.ID] = quiz
	}
	return s
}

func (s *QuizStore) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) ListQuizzes(_ context.Context, filter domain.QuizFilter, page domain.PageRequest) ([]domain.Quiz, int, error) {
	s.mu.RLock()
	matched := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		if quiz.IsActive != filter.ActiveOnly() {
			continue
		}
		if filter.Category != "" && quiz.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && quiz.Difficulty != filter.Difficulty {
			continue
		}
		matched = append(matched, quiz)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, page), len(matched), nil
}

func (s *QuizStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, quiz := range s.quizzes {
		if !quiz.IsActive {
			continue
		}
		if _, ok := seen[quiz.Category]; ok {
			continue
		}
		seen[quiz.Category] = struct{}{}
		categories = append(categories, quiz.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func paginate[T any](items []T, page domain.PageRequest) []T {
	page = page.WithDefaults()
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
