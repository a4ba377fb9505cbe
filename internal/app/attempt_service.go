package app

import (
	"context"
	"errors"
	"log/slog"

	"quiz-scoring-service/internal/domain"
)

// AttemptRepository persists attempts. Create assigns the id and creation
// timestamp and must write the record atomically. Listings are newest first.
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
	FindByUser(ctx context.Context, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error)
	FindByQuiz(ctx context.Context, quizID, userID string, page domain.PageRequest) ([]domain.AttemptSummary, int, error)
	FindByID(ctx context.Context, attemptID string) (domain.Attempt, error)
	ScoresByUser(ctx context.Context, userID string) ([]domain.AttemptScore, error)
}

// StatsCache memoizes per-user stats between attempt writes. InvalidateStats
// advances the user's generation; SetStats must drop the write when the
// generation differs from the one passed in.
type StatsCache interface {
	GetStats(ctx context.Context, userID string) (domain.UserStats, bool, error)
	StatsGeneration(ctx context.Context, userID string) (int64, error)
	SetStats(ctx context.Context, userID string, generation int64, stats domain.UserStats) error
	InvalidateStats(ctx context.Context, userID string) error
}

// Feedback is the classified outcome attached to an attempt.
type Feedback struct {
	Level   domain.FeedbackLevel
	Message string
}

// AttemptService is the append-only attempt log plus its read models.
type AttemptService struct {
	attempts AttemptRepository
	quizzes  QuizRepository
	cache    StatsCache
}

// NewAttemptService wires the attempt log. cache may be nil.
func NewAttemptService(attempts AttemptRepository, quizzes QuizRepository, cache StatsCache) *AttemptService {
	return &AttemptService{attempts: attempts, quizzes: quizzes, cache: cache}
}

// Create appends a new attempt. Only the user's selections and their
// correctness are stored; correct answers and explanations are resolved from
// the live quiz when the attempt is read back.
func (s *AttemptService) Create(ctx context.Context, result domain.ScoringResult, feedback Feedback, userID, quizID, quizTitle string, timeSpent *int) (domain.Attempt, error) {
	answers := make([]domain.QuestionResult, 0, len(result.Results))
	for _, r := range result.Results {
		answers = append(answers, domain.QuestionResult{
			QuestionID:       r.QuestionID,
			SelectedAnswerID: r.SelectedAnswerID,
			IsCorrect:        r.IsCorrect,
		})
	}

	attempt, err := s.attempts.Create(ctx, domain.Attempt{
		UserID:           userID,
		QuizID:           quizID,
		QuizTitle:        quizTitle,
		Score:            result.Score,
		TotalQuestions:   result.TotalQuestions,
		Percentage:       result.Percentage,
		FeedbackLevel:    feedback.Level,
		FeedbackMessage:  feedback.Message,
		TimeSpentSeconds: timeSpent,
		Answers:          answers,
	})
	if err != nil {
		return domain.Attempt{}, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateStats(ctx, userID); err != nil {
			slog.Warn("invalidate stats cache", "user_id", userID, "err", err)
		}
	}
	return attempt, nil
}

// FindByUser pages through a user's attempts.
func (s *AttemptService) FindByUser(ctx context.Context, userID string, page domain.PageRequest) (domain.AttemptPage, error) {
	page = page.WithDefaults()
	items, total, err := s.attempts.FindByUser(ctx, userID, page)
	if err != nil {
		return domain.AttemptPage{}, err
	}
	return domain.NewAttemptPage(items, total, page), nil
}

// FindByQuiz pages through a user's attempts on one quiz.
func (s *AttemptService) FindByQuiz(ctx context.Context, quizID, userID string, page domain.PageRequest) (domain.AttemptPage, error) {
	page = page.WithDefaults()
	items, total, err := s.attempts.FindByQuiz(ctx, quizID, userID, page)
	if err != nil {
		return domain.AttemptPage{}, err
	}
	return domain.NewAttemptPage(items, total, page), nil
}

// FindByID returns one attempt. A non-empty requestingUserID must own it.
// Answers are enriched from the quiz as it is now, so later quiz edits show
// up in old attempts.
func (s *AttemptService) FindByID(ctx context.Context, attemptID, requestingUserID string) (domain.Attempt, error) {
	attempt, err := s.attempts.FindByID(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if requestingUserID != "" && attempt.UserID != requestingUserID {
		return domain.Attempt{}, domain.ErrForbidden
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return attempt, nil
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	attempt.Answers = enrichAnswers(quiz, attempt.Answers)
	return attempt, nil
}

func enrichAnswers(quiz domain.Quiz, answers []domain.QuestionResult) []domain.QuestionResult {
	enriched := make([]domain.QuestionResult, 0, len(answers))
	for _, a := range answers {
		if question, ok := quiz.Question(a.QuestionID); ok {
			if correct, ok := question.CorrectAnswer(); ok {
				a.CorrectAnswerID = correct.ID
			}
			a.Explanation = question.Explanation
		}
		enriched = append(enriched, a)
	}
	return enriched
}

// Stats aggregates a user's attempts.
func (s *AttemptService) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	cacheable := false
	var generation int64
	if s.cache != nil {
		stats, ok, err := s.cache.GetStats(ctx, userID)
		if err != nil {
			slog.Warn("read stats cache", "user_id", userID, "err", err)
		} else if ok {
			return stats, nil
		}

		// read before the scores so an attempt written in between voids the write
		generation, err = s.cache.StatsGeneration(ctx, userID)
		if err != nil {
			slog.Warn("read stats generation", "user_id", userID, "err", err)
		} else {
			cacheable = true
		}
	}

	scores, err := s.attempts.ScoresByUser(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	stats := ComputeStats(scores)

	if cacheable {
		if err := s.cache.SetStats(ctx, userID, generation, stats); err != nil {
			slog.Warn("write stats cache", "user_id", userID, "err", err)
		}
	}
	return stats, nil
}

// ComputeStats derives UserStats. The average is rounded half up; an empty
// input yields all zeros.
func ComputeStats(scores []domain.AttemptScore) domain.UserStats {
	if len(scores) == 0 {
		return domain.UserStats{}
	}
	sum, best := 0, 0
	quizzes := make(map[string]struct{}, len(scores))
	for i, s := range scores {
		sum += s.Percentage
		if i == 0 || s.Percentage > best {
			best = s.Percentage
		}
		quizzes[s.QuizID] = struct{}{}
	}
	n := len(scores)
	return domain.UserStats{
		TotalAttempts:    n,
		AverageScore:     (sum*2 + n) / (2 * n),
		BestScore:        best,
		QuizzesCompleted: len(quizzes),
	}
}
