package domain

import "time"

// Difficulty grades a quiz.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Answer is one option of a question. IsCorrect never leaves the service
// except through scoring results.
type Answer struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// Question models an MCQ question with exactly one correct answer.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Order       int      `json:"order" yaml:"order"`
	Answers     []Answer `json:"answers" yaml:"answers"`
}

// CorrectAnswer returns the answer flagged correct.
func (q Question) CorrectAnswer() (Answer, bool) {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a, true
		}
	}
	return Answer{}, false
}

// HasAnswer reports whether answerID belongs to the question.
func (q Question) HasAnswer(answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

// Quiz is an ordered collection of questions with metadata.
type Quiz struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	Category         string     `json:"category" yaml:"category"`
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	EstimatedMinutes int        `json:"estimatedMinutes" yaml:"estimatedMinutes"`
	Questions        []Question `json:"questions" yaml:"questions"`
	IsActive         bool       `json:"isActive" yaml:"isActive"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"-"`
	UpdatedAt        time.Time  `json:"updatedAt" yaml:"-"`
}

// QuestionCount is derived from the question list and never stored.
func (q Quiz) QuestionCount() int {
	return len(q.Questions)
}

// Question looks up a question by id.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Summary returns the catalog view of the quiz.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		QuestionCount:    q.QuestionCount(),
		EstimatedMinutes: q.EstimatedMinutes,
	}
}

// Public strips correctness flags and explanations for quiz-takers.
func (q Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		answers := make([]PublicAnswer, 0, len(question.Answers))
		for _, a := range question.Answers {
			answers = append(answers, PublicAnswer{ID: a.ID, Text: a.Text})
		}
		questions = append(questions, PublicQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Order:   question.Order,
			Answers: answers,
		})
	}
	return PublicQuiz{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		EstimatedMinutes: q.EstimatedMinutes,
		Questions:        questions,
	}
}

// QuizSummary is the list view of a quiz.
type QuizSummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	QuestionCount    int        `json:"questionCount"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
}

type PublicAnswer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Order   int            `json:"order"`
	Answers []PublicAnswer `json:"answers"`
}

// PublicQuiz is what a quiz-taker sees before submitting.
type PublicQuiz struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Difficulty       Difficulty       `json:"difficulty"`
	EstimatedMinutes int              `json:"estimatedMinutes"`
	Questions        []PublicQuestion `json:"questions"`
}

// QuizFilter narrows catalog listings. A nil Active means active quizzes only.
type QuizFilter struct {
	Category   string
	Difficulty Difficulty
	Active     *bool
}

// ActiveOnly resolves the active flag the filter selects.
func (f QuizFilter) ActiveOnly() bool {
	if f.Active == nil {
		return true
	}
	return *f.Active
}

// QuizList is a page of catalog entries.
type QuizList struct {
	Quizzes []QuizSummary `json:"quizzes"`
	Total   int           `json:"total"`
}

// AnswerSubmission maps one question to the selected answer.
type AnswerSubmission struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
}

// Submission is a user's proposed answers for one quiz. It is never stored verbatim.
type Submission struct {
	Answers          []AnswerSubmission `json:"answers"`
	TimeSpentSeconds *int               `json:"timeSpentSeconds,omitempty"`
}

// QuestionResult is the per-question outcome of scoring.
type QuestionResult struct {
	QuestionID       string `json:"questionId"`
	SelectedAnswerID string `json:"selectedAnswerId"`
	CorrectAnswerID  string `json:"correctAnswerId"`
	IsCorrect        bool   `json:"isCorrect"`
	Explanation      string `json:"explanation"`
}

// ScoringResult is the output of the scoring engine.
type ScoringResult struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

// FeedbackLevel is the coarse performance tier derived from a percentage.
type FeedbackLevel string

const (
	FeedbackExcellent        FeedbackLevel = "excellent"
	FeedbackGood             FeedbackLevel = "good"
	FeedbackNeedsImprovement FeedbackLevel = "needs_improvement"
	FeedbackKeepPracticing   FeedbackLevel = "keep_practicing"
)

// Attempt is the immutable record of one scored submission.
type Attempt struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	QuizID           string           `json:"quizId"`
	QuizTitle        string           `json:"quizTitle"`
	Score            int              `json:"score"`
	TotalQuestions   int              `json:"totalQuestions"`
	Percentage       int              `json:"percentage"`
	FeedbackLevel    FeedbackLevel    `json:"feedbackLevel"`
	FeedbackMessage  string           `json:"feedbackMessage"`
	TimeSpentSeconds *int             `json:"timeSpentSeconds,omitempty"`
	Answers          []QuestionResult `json:"answers"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Summary drops the answer records.
func (a Attempt) Summary() AttemptSummary {
	return AttemptSummary{
		ID:               a.ID,
		UserID:           a.UserID,
		QuizID:           a.QuizID,
		QuizTitle:        a.QuizTitle,
		Score:            a.Score,
		TotalQuestions:   a.TotalQuestions,
		Percentage:       a.Percentage,
		FeedbackLevel:    a.FeedbackLevel,
		FeedbackMessage:  a.FeedbackMessage,
		TimeSpentSeconds: a.TimeSpentSeconds,
		CreatedAt:        a.CreatedAt,
	}
}

// AttemptSummary is an attempt without its answers, used in history listings.
type AttemptSummary struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	QuizID           string        `json:"quizId"`
	QuizTitle        string        `json:"quizTitle"`
	Score            int           `json:"score"`
	TotalQuestions   int           `json:"totalQuestions"`
	Percentage       int           `json:"percentage"`
	FeedbackLevel    FeedbackLevel `json:"feedbackLevel"`
	FeedbackMessage  string        `json:"feedbackMessage"`
	TimeSpentSeconds *int          `json:"timeSpentSeconds,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// AttemptScore is the slice of an attempt the stats aggregation needs.
type AttemptScore struct {
	QuizID     string
	Percentage int
}

// UserStats is derived from a user's attempts and never stored.
type UserStats struct {
	TotalAttempts    int `json:"totalAttempts"`
	AverageScore     int `json:"averageScore"`
	BestScore        int `json:"bestScore"`
	QuizzesCompleted int `json:"quizzesCompleted"`
}

// QuizResult is returned to the caller after a successful submission.
type QuizResult struct {
	AttemptID      string           `json:"attemptId"`
	QuizID         string           `json:"quizId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	Feedback       string           `json:"feedback"`
	FeedbackLevel  FeedbackLevel    `json:"feedbackLevel"`
	Results        []QuestionResult `json:"results"`
	CompletedAt    time.Time        `json:"completedAt"`
}
