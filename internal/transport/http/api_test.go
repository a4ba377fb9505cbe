package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-scoring-service/internal/domain"
)

func doRequest(t *testing.T, method, url string, header http.Header, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func submitBody(pairs ...string) map[string]any {
	answers := make([]map[string]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		answers = append(answers, map[string]string{"questionId": pairs[i], "answerId": pairs[i+1]})
	}
	return map[string]any{"answers": answers}
}

func TestCatalogEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, raw := doRequest(t, http.MethodGet, server.URL+"/quizzes?limit=500", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list domain.QuizList
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 2, list.Quizzes[0].QuestionCount)

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/quizzes/categories", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"categories":["math"]}`, string(raw))

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/quizzes/quiz-1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "isCorrect")
	assert.NotContains(t, string(raw), "explanation")

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/quizzes/quiz-old", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/quizzes?difficulty=expert", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/quizzes?page=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRequiresToken(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/quizzes/quiz-1/submit", nil, submitBody("q1", "o2", "q2", "o3"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	forged := http.Header{}
	forged.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), "u1"))
	resp, _ = doRequest(t, http.MethodPost, server.URL+"/quizzes/quiz-1/submit", forged, submitBody("q1", "o2", "q2", "o3"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitAndReadBack(t *testing.T) {
	server := newTestServer(t)
	alice := authHeader(t, "alice")

	resp, raw := doRequest(t, http.MethodPost, server.URL+"/quizzes/quiz-1/submit", alice, submitBody("q2", "o4", "q1", "o2"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var result domain.QuizResult
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 50, result.Percentage)
	assert.Equal(t, domain.FeedbackNeedsImprovement, result.FeedbackLevel)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "q1", result.Results[0].QuestionID)
	assert.Equal(t, "o3", result.Results[1].CorrectAnswerID)

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/attempts/me/"+result.AttemptID, alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var attempt domain.Attempt
	require.NoError(t, json.Unmarshal(raw, &attempt))
	assert.Equal(t, "alice", attempt.UserID)
	assert.Equal(t, "Three pairs make six.", attempt.Answers[1].Explanation)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/attempts/me/"+result.AttemptID, authHeader(t, "bob"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/attempts/me/does-not-exist", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/attempts/me?limit=1", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page domain.AttemptPage
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotContains(t, string(raw), "answers\":[")

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/attempts/quiz/quiz-1", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 1, page.Total)

	resp, raw = doRequest(t, http.MethodGet, server.URL+"/attempts/me/stats", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"totalAttempts":1,"averageScore":50,"bestScore":50,"quizzesCompleted":1}`, string(raw))
}

func TestSubmitErrors(t *testing.T) {
	server := newTestServer(t)
	alice := authHeader(t, "alice")

	cases := []struct {
		name   string
		url    string
		body   any
		status int
		code   string
	}{
		{"empty answers", "/quizzes/quiz-1/submit", submitBody(), http.StatusBadRequest, ""},
		{"negative time", "/quizzes/quiz-1/submit", map[string]any{"answers": submitBody("q1", "o2")["answers"], "timeSpentSeconds": -1}, http.StatusBadRequest, ""},
		{"incomplete", "/quizzes/quiz-1/submit", submitBody("q1", "o2"), http.StatusBadRequest, "incomplete_submission"},
		{"duplicate", "/quizzes/quiz-1/submit", submitBody("q1", "o2", "q1", "o1"), http.StatusBadRequest, "duplicate_answer"},
		{"unknown answer", "/quizzes/quiz-1/submit", submitBody("q1", "o3", "q2", "o3"), http.StatusBadRequest, "unknown_answer"},
		{"inactive quiz", "/quizzes/quiz-old/submit", submitBody("q1", "o2", "q2", "o3"), http.StatusBadRequest, ""},
		{"unknown quiz", "/quizzes/nope/submit", submitBody("q1", "o2"), http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doRequest(t, http.MethodPost, server.URL+tc.url, alice, tc.body)
			require.Equal(t, tc.status, resp.StatusCode, string(raw))
			var body errorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tc.code, body.Code)
		})
	}

	resp, raw := doRequest(t, http.MethodGet, server.URL+"/attempts/me", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page domain.AttemptPage
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 0, page.Total)
}

func TestErrorBodyPinpointsSubmissionEntry(t *testing.T) {
	status, body := errorBody(&domain.SubmissionError{Kind: domain.UnknownAnswer, QuestionID: "q1", AnswerID: "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "q1", body.QuestionID)
	assert.Equal(t, "x", body.AnswerID)

	status, body = errorBody(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body.Error)
}
