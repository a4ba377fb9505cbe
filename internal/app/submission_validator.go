package app

import "quiz-scoring-service/internal/domain"

// ValidateSubmission checks a submission against the structure of an already
// validated quiz. Entries are processed in input order: a repeated question id
// is reported as a duplicate before its existence is checked. It has no side
// effects.
func ValidateSubmission(quiz domain.Quiz, submission domain.Submission) error {
	seen := make(map[string]struct{}, len(submission.Answers))
	for _, answer := range submission.Answers {
		if _, dup := seen[answer.QuestionID]; dup {
			return &domain.SubmissionError{Kind: domain.DuplicateAnswer, QuestionID: answer.QuestionID}
		}
		seen[answer.QuestionID] = struct{}{}

		question, ok := quiz.Question(answer.QuestionID)
		if !ok {
			return &domain.SubmissionError{Kind: domain.UnknownQuestion, QuestionID: answer.QuestionID}
		}
		if !question.HasAnswer(answer.AnswerID) {
			return &domain.SubmissionError{
				Kind:       domain.UnknownAnswer,
				QuestionID: answer.QuestionID,
				AnswerID:   answer.AnswerID,
			}
		}
	}

	if len(submission.Answers) != len(quiz.Questions) {
		return &domain.SubmissionError{
			Kind:     domain.IncompleteSubmission,
			Expected: len(quiz.Questions),
			Got:      len(submission.Answers),
		}
	}
	return nil
}
