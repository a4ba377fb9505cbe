package app

import (
	"fmt"
	"strings"

	"quiz-scoring-service/internal/domain"
)

const excerptLength = 30

// ValidateQuiz enforces the structural invariants every stored quiz must hold.
// Questions are checked in order and the first violation is returned.
func ValidateQuiz(quiz domain.Quiz) error {
	for i, question := range quiz.Questions {
		correct := 0
		for _, a := range question.Answers {
			if a.IsCorrect {
				correct++
			}
		}

		var kind domain.StructureErrorKind
		switch {
		case correct == 0:
			kind = domain.NoCorrectAnswer
		case correct > 1:
			kind = domain.MultipleCorrectAnswers
		case len(question.Answers) < 2:
			kind = domain.TooFewAnswers
		default:
			continue
		}
		return &domain.StructureError{
			Kind:          kind,
			QuestionIndex: i + 1,
			Excerpt:       excerpt(question.Text),
		}
	}
	return nil
}

// validateQuizMetadata checks the fields a quiz needs before it can be listed.
func validateQuizMetadata(quiz domain.Quiz) error {
	if strings.TrimSpace(quiz.Title) == "" {
		return fmt.Errorf("%w: missing title", domain.ErrInvalidQuiz)
	}
	if strings.TrimSpace(quiz.Category) == "" {
		return fmt.Errorf("%w: missing category", domain.ErrInvalidQuiz)
	}
	if !quiz.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidQuiz, quiz.Difficulty)
	}
	if quiz.EstimatedMinutes <= 0 {
		return fmt.Errorf("%w: estimated minutes must be positive", domain.ErrInvalidQuiz)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", domain.ErrInvalidQuiz)
	}

	// empty ids are generated on save and never collide
	questionIDs := make(map[string]struct{}, len(quiz.Questions))
	for i, question := range quiz.Questions {
		if question.Order < 1 {
			return fmt.Errorf("%w: question %d order must be positive", domain.ErrInvalidQuiz, i+1)
		}
		if question.ID != "" {
			if _, dup := questionIDs[question.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", domain.ErrInvalidQuiz, question.ID)
			}
			questionIDs[question.ID] = struct{}{}
		}
		answerIDs := make(map[string]struct{}, len(question.Answers))
		for _, a := range question.Answers {
			if a.ID == "" {
				continue
			}
			if _, dup := answerIDs[a.ID]; dup {
				return fmt.Errorf("%w: question %d has duplicate answer id %q", domain.ErrInvalidQuiz, i+1, a.ID)
			}
			answerIDs[a.ID] = struct{}{}
		}
	}
	return nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength])
}
