package app

import (
	"fmt"

	"quiz-scoring-service/internal/domain"
)

// Score grades a submission that passed ValidateSubmission. It walks the quiz
// questions rather than the submission so results always follow quiz order,
// and compares answer ids, never text.
func Score(quiz domain.Quiz, submission domain.Submission) (domain.ScoringResult, error) {
	selected := make(map[string]string, len(submission.Answers))
	for _, a := range submission.Answers {
		selected[a.QuestionID] = a.AnswerID
	}

	correctCount := 0
	results := make([]domain.QuestionResult, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		answerID, ok := selected[question.ID]
		if !ok {
			return domain.ScoringResult{}, fmt.Errorf("%w: question %s unanswered", domain.ErrPreconditionFailed, question.ID)
		}
		correct, ok := question.CorrectAnswer()
		if !ok {
			return domain.ScoringResult{}, fmt.Errorf("%w: question %s has no correct answer", domain.ErrPreconditionFailed, question.ID)
		}

		isCorrect := answerID == correct.ID
		if isCorrect {
			correctCount++
		}
		results = append(results, domain.QuestionResult{
			QuestionID:       question.ID,
			SelectedAnswerID: answerID,
			CorrectAnswerID:  correct.ID,
			IsCorrect:        isCorrect,
			Explanation:      question.Explanation,
		})
	}

	return domain.ScoringResult{
		Score:          correctCount,
		TotalQuestions: len(quiz.Questions),
		Percentage:     Percentage(correctCount, len(quiz.Questions)),
		Results:        results,
	}, nil
}

// Percentage returns round(score/total*100) with halves rounded up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}
