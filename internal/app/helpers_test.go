package app_test

import (
	"time"

	"quiz-scoring-service/internal/domain"
)

var fixedNow = time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

// sampleQuiz has three questions with four answers each; the correct answer
// ids end in "-c".
func sampleQuiz() domain.Quiz {
	question := func(id, text, explanation string, order int) domain.Question {
		return domain.Question{
			ID:          id,
			Text:        text,
			Explanation: explanation,
			Order:       order,
			Answers: []domain.Answer{
				{ID: id + "-a", Text: "first"},
				{ID: id + "-b", Text: "second"},
				{ID: id + "-c", Text: "third", IsCorrect: true},
				{ID: id + "-d", Text: "fourth"},
			},
		}
	}
	return domain.Quiz{
		ID:               "quiz-1",
		Title:            "Go Fundamentals",
		Description:      "Goroutines, channels and interfaces",
		Category:         "programming",
		Difficulty:       domain.DifficultyBeginner,
		EstimatedMinutes: 5,
		IsActive:         true,
		CreatedAt:        fixedNow,
		UpdatedAt:        fixedNow,
		Questions: []domain.Question{
			question("q1", "Which keyword starts a goroutine?", "The go statement starts a goroutine.", 1),
			question("q2", "What does a nil channel do on send?", "Sends on a nil channel block forever.", 2),
			question("q3", "How are interfaces satisfied?", "Interfaces are satisfied implicitly.", 3),
		},
	}
}

func answers(pairs ...string) []domain.AnswerSubmission {
	out := make([]domain.AnswerSubmission, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.AnswerSubmission{QuestionID: pairs[i], AnswerID: pairs[i+1]})
	}
	return out
}
