package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-scoring-service/internal/domain"
)

func TestAttemptStoreCreateAssignsIdentity(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewAttemptStoreWithClock(func() time.Time { return at })
	ctx := context.Background()

	spent := 30
	input := domain.Attempt{
		ID:               "ignored",
		UserID:           "u1",
		QuizID:           "quiz-1",
		Percentage:       50,
		TimeSpentSeconds: &spent,
		Answers:          []domain.QuestionResult{{QuestionID: "q1", SelectedAnswerID: "o1"}},
	}
	created, err := store.Create(ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.ID == "ignored" {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if !created.CreatedAt.Equal(at) {
		t.Fatalf("expected creation time %v, got %v", at, created.CreatedAt)
	}

	// Mutating the caller's copy must not reach the stored record.
	input.Answers[0].SelectedAnswerID = "changed"
	spent = 99

	stored, err := store.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Answers[0].SelectedAnswerID != "o1" || *stored.TimeSpentSeconds != 30 {
		t.Fatalf("stored attempt was mutated: %+v", stored)
	}
}

func TestAttemptStoreQueries(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	store := NewAttemptStoreWithClock(func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	})
	ctx := context.Background()

	for _, a := range []domain.Attempt{
		{UserID: "u1", QuizID: "quiz-1", Percentage: 80},
		{UserID: "u1", QuizID: "quiz-2", Percentage: 100},
		{UserID: "u2", QuizID: "quiz-1", Percentage: 10},
		{UserID: "u1", QuizID: "quiz-1", Percentage: 60},
	} {
		if _, err := store.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, total, _ := store.FindByUser(ctx, "u1", domain.PageRequest{Page: 1, Limit: 2})
	if total != 3 || len(items) != 2 || items[0].Percentage != 60 || items[1].Percentage != 100 {
		t.Fatalf("unexpected user page total=%d items=%+v", total, items)
	}

	items, total, _ = store.FindByQuiz(ctx, "quiz-1", "u1", domain.PageRequest{})
	if total != 2 || items[0].Percentage != 60 || items[1].Percentage != 80 {
		t.Fatalf("unexpected quiz page total=%d items=%+v", total, items)
	}

	scores, _ := store.ScoresByUser(ctx, "u1")
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}
