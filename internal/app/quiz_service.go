package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quiz-scoring-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store). Quizzes it
// returns are assumed to satisfy ValidateQuiz already.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context, filter domain.QuizFilter, page domain.PageRequest) ([]domain.Quiz, int, error)
	Categories(ctx context.Context) ([]string, error)
}

// QuizStore is a QuizRepository that also accepts writes.
type QuizStore interface {
	QuizRepository
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// QuizService contains the quiz-taking use cases.
type QuizService struct {
	quizzes  QuizStore
	attempts *AttemptService
	feedback *FeedbackClassifier
	now      func() time.Time
}

func NewQuizService(quizzes QuizStore, attempts *AttemptService, feedback *FeedbackClassifier) *QuizService {
	return NewQuizServiceWithClock(quizzes, attempts, feedback, time.Now)
}

// NewQuizServiceWithClock is used by tests for deterministic timestamps.
func NewQuizServiceWithClock(quizzes QuizStore, attempts *AttemptService, feedback *FeedbackClassifier, now func() time.Time) *QuizService {
	if feedback == nil {
		feedback = NewFeedbackClassifier()
	}
	return &QuizService{quizzes: quizzes, attempts: attempts, feedback: feedback, now: now}
}

// SubmitQuiz validates, scores and records a submission. Nothing is persisted
// unless every check passes.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID, userID string, submission domain.Submission) (domain.QuizResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if !quiz.IsActive {
		return domain.QuizResult{}, fmt.Errorf("%w: %q", domain.ErrQuizInactive, quiz.Title)
	}

	if err := ValidateSubmission(quiz, submission); err != nil {
		return domain.QuizResult{}, err
	}
	result, err := Score(quiz, submission)
	if err != nil {
		return domain.QuizResult{}, err
	}

	level := s.feedback.Classify(result.Percentage)
	feedback := Feedback{Level: level, Message: s.feedback.Message(result.Percentage, level)}

	attempt, err := s.attempts.Create(ctx, result, feedback, userID, quiz.ID, quiz.Title, submission.TimeSpentSeconds)
	if err != nil {
		return domain.QuizResult{}, err
	}

	return domain.QuizResult{
		AttemptID:      attempt.ID,
		QuizID:         quiz.ID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Feedback:       feedback.Message,
		FeedbackLevel:  feedback.Level,
		Results:        result.Results,
		CompletedAt:    s.now().UTC(),
	}, nil
}

// GetPublicQuiz returns the quiz-taker view. Inactive quizzes read as not found.
func (s *QuizService) GetPublicQuiz(ctx context.Context, quizID string) (domain.PublicQuiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	if !quiz.IsActive {
		return domain.PublicQuiz{}, domain.ErrQuizNotFound
	}
	return quiz.Public(), nil
}

// ListQuizzes returns catalog summaries, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context, filter domain.QuizFilter, page domain.PageRequest) (domain.QuizList, error) {
	quizzes, total, err := s.quizzes.ListQuizzes(ctx, filter, page.WithDefaults())
	if err != nil {
		return domain.QuizList{}, err
	}
	summaries := make([]domain.QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, quiz.Summary())
	}
	return domain.QuizList{Quizzes: summaries, Total: total}, nil
}

// Categories lists the distinct categories of active quizzes.
func (s *QuizService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.quizzes.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// SaveQuiz is the only write path for quizzes: a quiz that fails validation
// never reaches the store. Missing ids are generated; re-saving an existing id
// keeps its original creation time.
func (s *QuizService) SaveQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if err := ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := validateQuizMetadata(quiz); err != nil {
		return domain.Quiz{}, err
	}

	now := s.now().UTC()
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	} else {
		existing, err := s.quizzes.GetQuiz(ctx, quiz.ID)
		switch {
		case err == nil:
			quiz.CreatedAt = existing.CreatedAt
		case !errors.Is(err, domain.ErrQuizNotFound):
			return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
		}
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now

	questions := make([]domain.Question, len(quiz.Questions))
	for i, question := range quiz.Questions {
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		answers := make([]domain.Answer, len(question.Answers))
		for j, a := range question.Answers {
			if a.ID == "" {
				a.ID = uuid.NewString()
			}
			answers[j] = a
		}
		question.Answers = answers
		questions[i] = question
	}
	quiz.Questions = questions

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	return quiz, nil
}
