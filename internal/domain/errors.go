package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz is absent (or inactive, for quiz-takers).
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizInactive is returned when submitting to a quiz that no longer accepts submissions.
	ErrQuizInactive = errors.New("quiz is not accepting submissions")
	// ErrAttemptNotFound indicates the attempt id is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrForbidden is returned when an attempt belongs to another user.
	ErrForbidden = errors.New("attempt belongs to another user")
	// ErrInvalidQuiz is matched by every *StructureError and metadata violation.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrInvalidSubmission is matched by every *SubmissionError.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrPreconditionFailed signals scoring was reached with an unvalidated submission.
	ErrPreconditionFailed = errors.New("scoring precondition failed")
)

// StructureErrorKind names the violated quiz invariant.
type StructureErrorKind string

const (
	NoCorrectAnswer        StructureErrorKind = "no_correct_answer"
	MultipleCorrectAnswers StructureErrorKind = "multiple_correct_answers"
	TooFewAnswers          StructureErrorKind = "too_few_answers"
)

// StructureError reports a quiz authoring invariant violation.
type StructureError struct {
	Kind StructureErrorKind
	// QuestionIndex is 1-based.
	QuestionIndex int
	// Excerpt is the first 30 characters of the question text.
	Excerpt string
}

func (e *StructureError) Error() string {
	prefix := fmt.Sprintf("question %d (%q)", e.QuestionIndex, e.Excerpt)
	switch e.Kind {
	case NoCorrectAnswer:
		return prefix + " must have a correct answer"
	case MultipleCorrectAnswers:
		return prefix + " has multiple correct answers, only one is allowed"
	case TooFewAnswers:
		return prefix + " must have at least 2 answer options"
	}
	return prefix + " is invalid"
}

func (e *StructureError) Is(target error) bool {
	return target == ErrInvalidQuiz
}

// SubmissionErrorKind names the reason a submission was rejected.
type SubmissionErrorKind string

const (
	DuplicateAnswer      SubmissionErrorKind = "duplicate_answer"
	UnknownQuestion      SubmissionErrorKind = "unknown_question"
	UnknownAnswer        SubmissionErrorKind = "unknown_answer"
	IncompleteSubmission SubmissionErrorKind = "incomplete_submission"
)

// SubmissionError pinpoints the offending entry of a rejected submission.
type SubmissionError struct {
	Kind       SubmissionErrorKind
	QuestionID string
	AnswerID   string
	Expected   int
	Got        int
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case DuplicateAnswer:
		return fmt.Sprintf("duplicate answer for question %s", e.QuestionID)
	case UnknownQuestion:
		return fmt.Sprintf("invalid question id: %s", e.QuestionID)
	case UnknownAnswer:
		return fmt.Sprintf("invalid answer id: %s for question: %s", e.AnswerID, e.QuestionID)
	case IncompleteSubmission:
		return fmt.Sprintf("must answer all %d questions, only %d provided", e.Expected, e.Got)
	}
	return "invalid submission"
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrInvalidSubmission
}
