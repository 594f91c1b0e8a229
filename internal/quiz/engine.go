package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/example/trainbot/pkg/models"
)

// Catalog fetches quiz questions from the durable question bank
type Catalog interface {
	QuestionsByProduct(ctx context.Context, productID int64) ([]models.TestQuestion, error)
}

// Recorder persists the outcome of a completed quiz
type Recorder interface {
	SaveResult(ctx context.Context, result *models.TestResult) error
}

// Prompt is the question the user should be shown next
type Prompt struct {
	Question models.TestQuestion
	Number   int // 1-based position, for the progress indicator
	Total    int
}

// Feedback is the transient reaction to one submitted answer
type Feedback struct {
	Correct       bool
	CorrectAnswer string // filled in when the answer was wrong
}

// Summary is the outcome of a finished quiz
type Summary struct {
	ProductID int64
	Score     float64 // percentage, 0-100
	Correct   int
	Total     int
}

// Tier is the qualitative band a final score falls into
type Tier int

const (
	TierTop  Tier = iota // score >= 80
	TierGood             // 60 <= score < 80
	TierFair             // 40 <= score < 60
	TierLow              // score < 40
)

// TierFor maps a percentage score to its qualitative band
func TierFor(score float64) Tier {
	switch {
	case score >= 80:
		return TierTop
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	default:
		return TierLow
	}
}

// Engine drives the quiz session lifecycle: start, question sequencing, answer
// scoring and the completion handoff. It owns the session store exclusively.
type Engine struct {
	store    Store
	catalog  Catalog
	recorder Recorder
}

// NewEngine creates a quiz engine over the given collaborators
func NewEngine(store Store, catalog Catalog, recorder Recorder) *Engine {
	return &Engine{
		store:    store,
		catalog:  catalog,
		recorder: recorder,
	}
}

// Start begins a quiz for the user on the given product and returns the first
// question. Questions are presented in the fixed catalog order. Starting a
// quiz while another session for the same product exists silently replaces it.
// Returns ErrNoQuestions when the product has no questions; no session is
// created in that case.
func (e *Engine) Start(ctx context.Context, userID, productID int64) (*Prompt, error) {
	questions, err := e.catalog.QuestionsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	key := SessionKey(userID, productID)
	if err := e.store.Create(ctx, key, questions); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Prompt{
		Question: questions[0],
		Number:   1,
		Total:    len(questions),
	}, nil
}

// Current returns the question at the session cursor, or the final summary if
// the cursor has already run past the last question.
func (e *Engine) Current(ctx context.Context, userID, productID int64) (*Prompt, *Summary, error) {
	key := SessionKey(userID, productID)
	session, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	if session.Current >= len(session.Questions) {
		summary, err := e.complete(ctx, key, productID, session.CorrectCount, len(session.Questions))
		return nil, summary, err
	}

	return &Prompt{
		Question: session.Questions[session.Current],
		Number:   session.Current + 1,
		Total:    len(session.Questions),
	}, nil, nil
}

// Submit evaluates one answer for the user's current question. The question ID
// is an echo of what the keyboard was built from; scoring is positional. The
// cursor advances whether the answer was right or wrong. When the last
// question has been answered the result is recorded, the session is deleted
// and the summary is returned instead of a next prompt. A duplicate submit
// after the last question re-runs completion without double-scoring.
func (e *Engine) Submit(ctx context.Context, userID, productID, questionID int64, answer string) (*Feedback, *Prompt, *Summary, error) {
	key := SessionKey(userID, productID)

	result, err := e.store.Advance(ctx, key, questionID, answer)
	if err != nil {
		return nil, nil, nil, err
	}

	var feedback *Feedback
	if !result.AlreadyDone {
		feedback = &Feedback{Correct: result.Correct}
		if !result.Correct {
			feedback.CorrectAnswer = result.CorrectAnswer
		}
	}

	if result.Done {
		summary, err := e.complete(ctx, key, productID, result.CorrectCount, result.Total)
		if err != nil {
			return nil, nil, nil, err
		}
		return feedback, nil, summary, nil
	}

	session, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, nil, nil, err
	}

	return feedback, &Prompt{
		Question: session.Questions[session.Current],
		Number:   session.Current + 1,
		Total:    len(session.Questions),
	}, nil, nil
}

// complete records the result and removes the session. The save happens before
// the delete: if persistence fails the session stays in the store, so retrying
// the same action completes the quiz without scoring anything twice.
func (e *Engine) complete(ctx context.Context, key string, productID int64, correct, total int) (*Summary, error) {
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}

	userID, err := userIDFromKey(key)
	if err != nil {
		return nil, err
	}

	result := &models.TestResult{
		UserID:         userID,
		ProductID:      productID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		CompletedAt:    time.Now(),
	}
	if err := e.recorder.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	if err := e.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	return &Summary{
		ProductID: productID,
		Score:     score,
		Correct:   correct,
		Total:     total,
	}, nil
}

func userIDFromKey(key string) (int64, error) {
	var userID, productID int64
	if _, err := fmt.Sscanf(key, "%d_%d", &userID, &productID); err != nil {
		return 0, fmt.Errorf("malformed session key %q: %w", key, err)
	}
	return userID, nil
}
