package http

import (
	"net/http"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/domain"
)

// API exposes the quiz and attempt use cases over HTTP.
type API struct {
	quizzes  *app.QuizService
	attempts *app.AttemptService
	verifier *TokenVerifier
	maxLimit int
	ws       *WSHandler
}

func NewAPI(quizzes *app.QuizService, attempts *app.AttemptService, verifier *TokenVerifier, maxLimit int) *API {
	if maxLimit <= 0 {
		maxLimit = domain.MaxLimit
	}
	return &API{
		quizzes:  quizzes,
		attempts: attempts,
		verifier: verifier,
		maxLimit: maxLimit,
		ws:       NewWSHandler(quizzes, verifier),
	}
}

// Routes registers every endpoint on a fresh mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /quizzes", a.HandleListQuizzes)
	mux.HandleFunc("GET /quizzes/categories", a.HandleCategories)
	mux.HandleFunc("GET /quizzes/{id}", a.HandleGetQuiz)
	mux.HandleFunc("POST /quizzes/{id}/submit", a.requireUser(a.HandleSubmit))

	mux.HandleFunc("GET /attempts/me", a.requireUser(a.HandleMyAttempts))
	mux.HandleFunc("GET /attempts/me/stats", a.requireUser(a.HandleMyStats))
	mux.HandleFunc("GET /attempts/me/{attemptId}", a.requireUser(a.HandleMyAttempt))
	mux.HandleFunc("GET /attempts/quiz/{quizId}", a.requireUser(a.HandleMyQuizAttempts))

	mux.HandleFunc("GET /ws", a.ws.ServeWS)
	return logRequests(mux)
}
