package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-scoring-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts []domain.Attempt
	now      func() time.Time
	newID    func() string
}

func NewAttemptStore() *AttemptStore {
	return NewAttemptStoreWithClock(time.Now)
}

// NewAttemptStoreWithClock allows deterministic creation timestamps in tests.
func NewAttemptStoreWithClock(now func() time.Time) *AttemptStore {
	return &AttemptStore{now: now, newID: uuid.NewString}
}

func (s *AttemptStore) Create(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	attempt = cloneAttempt(attempt)

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.ID = s.newID()
	attempt.CreatedAt = s.now().UTC()
	s.attempts = append(s.attempts, attempt)
	return cloneAttempt(attempt), nil
}

func (s *AttemptStore) FindByUser(_ context.Context, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	matched := s.filter(func(a domain.Attempt) bool { return a.UserID == userID })
	return summaries(paginate(matched, page)), len(matched), nil
}

func (s *AttemptStore) FindByQuiz(_ context.Context, quizID, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error) {
	matched := s.filter(func(a domain.Attempt) bool { return a.UserID == userID && a.QuizID == quizID })
	return summaries(paginate(matched, page)), len(matched), nil
}

func (s *AttemptStore) FindByID(_ context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.ID == attemptID {
			return cloneAttempt(a), nil
		}
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

func (s *AttemptStore) ScoresByUser(_ context.Context, userID string) ([]domain.AttemptScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scores := make([]domain.AttemptScore, 0)
	for _, a := range s.attempts {
		if a.UserID == userID {
			scores = append(scores, domain.AttemptScore{QuizID: a.QuizID, Percentage: a.Percentage})
		}
	}
	return scores, nil
}

// filter returns matching attempts newest first.
func (s *AttemptStore) filter(match func(domain.Attempt) bool) []domain.Attempt {
	s.mu.RLock()
	matched := make([]domain.Attempt, 0)
	for _, a := range s.attempts {
		if match(a) {
			matched = append(matched, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

func summaries(attempts []domain.Attempt) []domain.AttemptSummary {
	out := make([]domain.AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, a.Summary())
	}
	return out
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	if a.Answers != nil {
		a.Answers = append([]domain.QuestionResult(nil), a.Answers...)
	}
	if a.TimeSpentSeconds != nil {
		v := *a.TimeSpentSeconds
		a.TimeSpentSeconds = &v
	}
	return a
}
