package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/domain"
)

func TestValidateQuizAcceptsWellFormedQuiz(t *testing.T) {
	require.NoError(t, app.ValidateQuiz(sampleQuiz()))
}

func TestValidateQuizStructureErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(q *domain.Quiz)
		kind    domain.StructureErrorKind
		index   int
		excerpt string
	}{
		{
			name: "no correct answer",
			mutate: func(q *domain.Quiz) {
				q.Questions[1].Answers[2].IsCorrect = false
			},
			kind:    domain.NoCorrectAnswer,
			index:   2,
			excerpt: "What does a nil channel do on ",
		},
		{
			name: "multiple correct answers",
			mutate: func(q *domain.Quiz) {
				q.Questions[0].Answers[0].IsCorrect = true
			},
			kind:    domain.MultipleCorrectAnswers,
			index:   1,
			excerpt: "Which keyword starts a gorouti",
		},
		{
			name: "single answer",
			mutate: func(q *domain.Quiz) {
				q.Questions[2].Answers = []domain.Answer{{ID: "only", Text: "yes", IsCorrect: true}}
			},
			kind:    domain.TooFewAnswers,
			index:   3,
			excerpt: "How are interfaces satisfied?",
		},
		{
			name: "no answers reports missing correct answer first",
			mutate: func(q *domain.Quiz) {
				q.Questions[0].Answers = nil
			},
			kind:    domain.NoCorrectAnswer,
			index:   1,
			excerpt: "Which keyword starts a gorouti",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := sampleQuiz()
			tc.mutate(&quiz)

			err := app.ValidateQuiz(quiz)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidQuiz))

			var structErr *domain.StructureError
			require.True(t, errors.As(err, &structErr))
			assert.Equal(t, tc.kind, structErr.Kind)
			assert.Equal(t, tc.index, structErr.QuestionIndex)
			assert.Equal(t, tc.excerpt, structErr.Excerpt)
		})
	}
}

func TestValidateQuizReportsFirstViolation(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions[1].Answers[0].IsCorrect = true
	quiz.Questions[2].Answers[2].IsCorrect = false

	var structErr *domain.StructureError
	require.True(t, errors.As(app.ValidateQuiz(quiz), &structErr))
	assert.Equal(t, 2, structErr.QuestionIndex)
	assert.Equal(t, domain.MultipleCorrectAnswers, structErr.Kind)
}

// Accepts iff every question has exactly one correct answer and at least two answers.
func TestValidateQuizCorrectCountGrid(t *testing.T) {
	for correctA := 0; correctA <= 3; correctA++ {
		for correctB := 0; correctB <= 3; correctB++ {
			quiz := sampleQuiz()
			quiz.Questions = quiz.Questions[:2]
			for i := range quiz.Questions[0].Answers {
				quiz.Questions[0].Answers[i].IsCorrect = i < correctA
			}
			for i := range quiz.Questions[1].Answers {
				quiz.Questions[1].Answers[i].IsCorrect = i < correctB
			}

			err := app.ValidateQuiz(quiz)
			if correctA == 1 && correctB == 1 {
				assert.NoError(t, err, "correct counts %d/%d", correctA, correctB)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidQuiz, "correct counts %d/%d", correctA, correctB)
			}
		}
	}
}

func TestValidateQuizExcerptCountsRunes(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions[0].Text = "¿Qué palabra clave inicia una gorrutina en Go?"
	quiz.Questions[0].Answers[2].IsCorrect = false

	var structErr *domain.StructureError
	require.True(t, errors.As(app.ValidateQuiz(quiz), &structErr))
	assert.Equal(t, 30, len([]rune(structErr.Excerpt)))
	assert.Equal(t, "¿Qué palabra clave inicia una ", structErr.Excerpt)
}

func TestSaveQuizRejectsMalformedIdentifiersAndEmptyQuiz(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(q *domain.Quiz)
	}{
		{
			name:   "no questions",
			mutate: func(q *domain.Quiz) { q.Questions = nil },
		},
		{
			name:   "duplicate question id",
			mutate: func(q *domain.Quiz) { q.Questions[1].ID = "q1" },
		},
		{
			name:   "duplicate answer id within a question",
			mutate: func(q *domain.Quiz) { q.Questions[2].Answers[3].ID = "q3-a" },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv()
			quiz := sampleQuiz()
			tc.mutate(&quiz)

			_, err := env.service.SaveQuiz(ctx, quiz)
			require.ErrorIs(t, err, domain.ErrInvalidQuiz)
			var structErr *domain.StructureError
			assert.False(t, errors.As(err, &structErr))

			_, err = env.quizzes.GetQuiz(ctx, quiz.ID)
			assert.ErrorIs(t, err, domain.ErrQuizNotFound)
		})
	}
}

func TestSaveQuizAllowsRepeatedAnswerIDsAcrossQuestions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	quiz := sampleQuiz()
	for i := range quiz.Questions {
		for j := range quiz.Questions[i].Answers {
			quiz.Questions[i].Answers[j].ID = string(rune('a' + j))
		}
	}

	_, err := env.service.SaveQuiz(ctx, quiz)
	require.NoError(t, err)
}
