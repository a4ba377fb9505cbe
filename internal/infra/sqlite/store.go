package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps quizzes and attempts in a single SQLite file. It implements
// both app.QuizStore and app.AttemptRepository.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db, now: time.Now, newID: uuid.NewString}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewStoreWithClock is used by tests that need ordered creation timestamps.
func NewStoreWithClock(path string, now func() time.Time) (*Store, error) {
	store, err := NewStore(path)
	if err != nil {
		return nil, err
	}
	store.now = now
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
