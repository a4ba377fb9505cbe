package http

import (
	"encoding/json"
	"net/http"

	"quiz-scoring-service/internal/domain"
)

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type submitRequest struct {
	Answers          []domain.AnswerSubmission `json:"answers"`
	TimeSpentSeconds *int                      `json:"timeSpentSeconds"`
}

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, a.maxLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	filter := domain.QuizFilter{
		Category:   r.URL.Query().Get("category"),
		Difficulty: domain.Difficulty(r.URL.Query().Get("difficulty")),
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		writeBadRequest(w, "difficulty must be one of beginner, intermediate, advanced")
		return
	}

	list, err := a.quizzes.ListQuizzes(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.quizzes.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.quizzes.GetPublicQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeBadRequest(w, "answers must contain at least one entry")
		return
	}
	if req.TimeSpentSeconds != nil && *req.TimeSpentSeconds < 0 {
		writeBadRequest(w, "timeSpentSeconds must not be negative")
		return
	}

	result, err := a.quizzes.SubmitQuiz(r.Context(), r.PathValue("id"), userID, domain.Submission{
		Answers:          req.Answers,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleMyAttempts(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	page, err := parsePage(r, a.maxLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	attempts, err := a.attempts.FindByUser(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (a *API) HandleMyStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	stats, err := a.attempts.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) HandleMyAttempt(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	attempt, err := a.attempts.FindByID(r.Context(), r.PathValue("attemptId"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (a *API) HandleMyQuizAttempts(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	page, err := parsePage(r, a.maxLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	attempts, err := a.attempts.FindByQuiz(r.Context(), r.PathValue("quizId"), userID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}
