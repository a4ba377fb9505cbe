package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"quiz-scoring-service/internal/domain"
)

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	QuestionID string `json:"questionId,omitempty"`
	AnswerID   string `json:"answerId,omitempty"`
	Expected   int    `json:"expected,omitempty"`
	Got        int    `json:"got,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("write response failed", "err", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// errorBody maps a service error to a status code and client-facing body.
func errorBody(err error) (int, errorResponse) {
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) {
		return http.StatusBadRequest, errorResponse{
			Error:      subErr.Error(),
			Code:       string(subErr.Kind),
			QuestionID: subErr.QuestionID,
			AnswerID:   subErr.AnswerID,
			Expected:   subErr.Expected,
			Got:        subErr.Got,
		}
	}
	var structErr *domain.StructureError
	if errors.As(err, &structErr) {
		return http.StatusBadRequest, errorResponse{Error: structErr.Error(), Code: string(structErr.Kind)}
	}

	switch {
	case errors.Is(err, domain.ErrQuizInactive), errors.Is(err, domain.ErrInvalidQuiz), errors.Is(err, domain.ErrInvalidSubmission):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access denied"}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

// parsePage reads page and limit query params. Limits above maxLimit are clamped.
func parsePage(r *http.Request, maxLimit int) (domain.PageRequest, error) {
	page := domain.PageRequest{Page: domain.DefaultPage, Limit: domain.DefaultLimit}
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return page, errors.New("page must be a positive integer")
		}
		page.Page = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return page, errors.New("limit must be a positive integer")
		}
		page.Limit = v
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			// The upgrader needs the raw writer for hijacking.
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
