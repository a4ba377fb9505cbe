package http

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/domain"
	"quiz-scoring-service/internal/infra/memory"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	quizzes := memory.NewQuizStore(sampleQuiz(), inactiveQuiz())
	attempts := app.NewAttemptService(memory.NewAttemptStore(), quizzes, memory.NewStatsCache(time.Minute))
	service := app.NewQuizService(quizzes, attempts, app.NewFeedbackClassifierWithRand(rand.New(rand.NewSource(3))))
	api := NewAPI(service, attempts, NewTokenVerifier(testSecret), 50)

	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return server
}

func signToken(t *testing.T, secret []byte, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func authHeader(t *testing.T, userID string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+signToken(t, testSecret, userID))
	return h
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:               "quiz-1",
		Title:            "Arithmetic",
		Description:      "Warm-up sums",
		Category:         "math",
		Difficulty:       domain.DifficultyBeginner,
		EstimatedMinutes: 2,
		IsActive:         true,
		CreatedAt:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Questions: []domain.Question{
			{
				ID:          "q1",
				Text:        "What is 2 + 2?",
				Explanation: "Two pairs make four.",
				Order:       1,
				Answers: []domain.Answer{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
				},
			},
			{
				ID:          "q2",
				Text:        "What is 3 + 3?",
				Explanation: "Three pairs make six.",
				Order:       2,
				Answers: []domain.Answer{
					{ID: "o3", Text: "6", IsCorrect: true},
					{ID: "o4", Text: "9"},
				},
			},
		},
	}
}

func inactiveQuiz() domain.Quiz {
	quiz := sampleQuiz()
	quiz.ID = "quiz-old"
	quiz.Category = "retired"
	quiz.IsActive = false
	return quiz
}
