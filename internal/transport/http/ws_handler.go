package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/domain"
)

const wsWriteWait = 10 * time.Second

// wsWriter is the part of *websocket.Conn the writer goroutine uses.
type wsWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	Close() error
}

// WSHandler lets a client load a quiz and submit it over one connection.
// Each "submit" message is handled exactly like POST /quizzes/{id}/submit.
type WSHandler struct {
	service  *app.QuizService
	verifier *TokenVerifier
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, verifier *TokenVerifier) *WSHandler {
	return &WSHandler{
		service:  service,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS authenticates and upgrades the request, sends the public quiz and
// then answers submit messages until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		writeBadRequest(w, "missing quizId")
		return
	}
	userID, err := h.verifier.authenticate(r, true)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	quiz, err := h.service.GetPublicQuiz(r.Context(), quizID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	out := newWSOutbox(16)
	go out.run(conn)

	if !out.push("quiz", quiz) {
		return
	}
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msgType, payload := h.handleMessage(r.Context(), quizID, userID, inbound)
		if !out.push(msgType, payload) {
			break
		}
	}

	out.close()
}

func (h *WSHandler) handleMessage(ctx context.Context, quizID, userID string, inbound inboundMessage) (string, any) {
	if inbound.Type != "submit" {
		return "error", errorResponse{Error: "unsupported message type"}
	}

	var req submitRequest
	if err := json.Unmarshal(inbound.Payload, &req); err != nil {
		return "error", errorResponse{Error: "invalid submit payload"}
	}
	if len(req.Answers) == 0 {
		return "error", errorResponse{Error: "answers must contain at least one entry"}
	}
	if req.TimeSpentSeconds != nil && *req.TimeSpentSeconds < 0 {
		return "error", errorResponse{Error: "timeSpentSeconds must not be negative"}
	}
	result, err := h.service.SubmitQuiz(ctx, quizID, userID, domain.Submission{
		Answers:          req.Answers,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		status, body := errorBody(err)
		if status == http.StatusInternalServerError {
			slog.Error("ws submit failed", "quiz_id", quizID, "err", err)
		}
		return "error", body
	}
	return "result", result
}

// wsOutbox feeds a connection's single writer goroutine.
type wsOutbox struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func newWSOutbox(size int) *wsOutbox {
	return &wsOutbox{
		send: make(chan outboundMessage[any], size),
		done: make(chan struct{}),
	}
}

// run writes queued messages until the outbox is closed or a write fails.
// A failed write closes the connection so the reader unblocks too.
func (o *wsOutbox) run(conn wsWriter) {
	defer close(o.done)
	for msg := range o.send {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			slog.Warn("ws set write deadline", "err", err)
			_ = conn.Close()
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			slog.Warn("ws write failed", "err", err)
			_ = conn.Close()
			return
		}
	}
}

// push queues a message and reports false once the writer has stopped.
func (o *wsOutbox) push(msgType string, payload any) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		return true
	case <-o.done:
		return false
	}
}

// close stops the writer after it drains what is queued.
func (o *wsOutbox) close() {
	close(o.send)
	<-o.done
}
