package quiz

import "errors"

var (
	// ErrSessionExpired is returned when an answer references a session that is
	// not in the store anymore: the process restarted, the sweep evicted it, or
	// the quiz was never started.
	ErrSessionExpired = errors.New("quiz session expired")

	// ErrNoQuestions is returned when a quiz is started for a product that has
	// no questions.
	ErrNoQuestions = errors.New("no questions available for this product")
)
