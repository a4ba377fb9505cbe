package app

import (
	"math/rand"
	"sync"
	"time"

	"quiz-scoring-service/internal/domain"
)

var feedbackMessages = map[domain.FeedbackLevel][]string{
	domain.FeedbackExcellent: {
		"Outstanding! You have mastered this topic!",
		"Excellent work! You truly understand this material.",
		"Brilliant! You aced this quiz!",
	},
	domain.FeedbackGood: {
		"Great job! You have a solid understanding.",
		"Well done! Keep building on this foundation.",
		"Nice work! You are on the right track.",
	},
	domain.FeedbackNeedsImprovement: {
		"Good effort! Review the explanations to improve.",
		"You are getting there! Focus on the areas you missed.",
		"Keep practicing! You are making progress.",
	},
	domain.FeedbackKeepPracticing: {
		"Keep studying! Review the material and try again.",
		"Do not give up! Learning takes time and practice.",
		"Consider reviewing the fundamentals before retrying.",
	},
}

// FeedbackMessages returns the message pool for a level.
func FeedbackMessages(level domain.FeedbackLevel) []string {
	return feedbackMessages[level]
}

// FeedbackClassifier maps percentages to feedback tiers and picks a message.
// Only the level is deterministic; the message is drawn from rnd.
type FeedbackClassifier struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFeedbackClassifier() *FeedbackClassifier {
	return NewFeedbackClassifierWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewFeedbackClassifierWithRand lets tests pin message selection with a seeded source.
func NewFeedbackClassifierWithRand(rnd *rand.Rand) *FeedbackClassifier {
	return &FeedbackClassifier{rnd: rnd}
}

// Classify evaluates thresholds high to low.
func (c *FeedbackClassifier) Classify(percentage int) domain.FeedbackLevel {
	switch {
	case percentage >= 90:
		return domain.FeedbackExcellent
	case percentage >= 70:
		return domain.FeedbackGood
	case percentage >= 50:
		return domain.FeedbackNeedsImprovement
	default:
		return domain.FeedbackKeepPracticing
	}
}

// Message picks uniformly from the level's pool.
func (c *FeedbackClassifier) Message(_ int, level domain.FeedbackLevel) string {
	pool := feedbackMessages[level]
	if len(pool) == 0 {
		return ""
	}
	c.mu.Lock()
	idx := c.rnd.Intn(len(pool))
	c.mu.Unlock()
	return pool[idx]
}
