package quiz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/trainbot/pkg/models"
)

// Answer records one submitted answer
type Answer struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// Session is the ephemeral state of one in-progress quiz. Questions are copied
// at session creation, so edits to the question bank do not affect a quiz that
// is already running.
type Session struct {
	ProductID    int64                 `json:"product_id"`
	Questions    []models.TestQuestion `json:"questions"`
	Current      int                   `json:"current"` // index of the next unanswered question
	Answers      map[int64]Answer      `json:"answers"` // keyed by question ID
	CorrectCount int                   `json:"correct_count"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// AdvanceResult describes what happened to a session after one answer
type AdvanceResult struct {
	Correct       bool   // whether the submitted answer matched
	CorrectAnswer string // stored correct option letter, for feedback
	Cursor        int    // cursor position after the advance
	Total         int
	CorrectCount  int
	Done          bool // cursor reached the end of the question list
	AlreadyDone   bool // session was already complete, nothing was recorded
}

// Store holds all active quiz sessions, one per (user, product) pair.
// Implementations must make Advance atomic per key: a concurrent duplicate
// submission must not be counted twice.
type Store interface {
	// Create initializes a fresh session, overwriting any previous session
	// under the same key.
	Create(ctx context.Context, key string, questions []models.TestQuestion) error
	// Get returns the session, or ErrSessionExpired if the key is absent.
	Get(ctx context.Context, key string) (*Session, error)
	// Advance evaluates answer against the question at the cursor, records it
	// and moves the cursor forward. A session that is already complete is left
	// untouched and reported via AlreadyDone. Returns ErrSessionExpired if the
	// key is absent.
	Advance(ctx context.Context, key string, questionID int64, answer string) (*AdvanceResult, error)
	// Delete removes the session. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteIdle evicts sessions not touched for longer than maxIdle and
	// returns how many were removed.
	DeleteIdle(maxIdle time.Duration) int
}

// SessionKey builds the composite store key for a user taking a product quiz
func SessionKey(userID, productID int64) string {
	return fmt.Sprintf("%d_%d", userID, productID)
}

// MemoryStore keeps sessions in a process-local map. Restarting the process
// discards every in-progress quiz.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (s *MemoryStore) Create(_ context.Context, key string, questions []models.TestQuestion) error {
	snapshot := make([]models.TestQuestion, len(questions))
	copy(snapshot, questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = &Session{
		ProductID: snapshotProductID(snapshot),
		Questions: snapshot,
		Current:   0,
		Answers:   make(map[int64]Answer),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *MemoryStore) Advance(_ context.Context, key string, questionID int64, answer string) (*AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrSessionExpired
	}

	return advanceSession(session, questionID, answer), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

func (s *MemoryStore) DeleteIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// advanceSession applies one answer to a session. Correctness is evaluated
// against the cursor position, not the submitted question ID: the ID is kept
// only as the map key for the recorded answer.
func advanceSession(session *Session, questionID int64, answer string) *AdvanceResult {
	total := len(session.Questions)

	if session.Current >= total {
		// Stale double-submit after the last question: report completion
		// without touching the score or the answer map.
		return &AdvanceResult{
			Cursor:       session.Current,
			Total:        total,
			CorrectCount: session.CorrectCount,
			Done:         true,
			AlreadyDone:  true,
		}
	}

	question := session.Questions[session.Current]
	correct := strings.EqualFold(answer, question.CorrectAnswer)
	if correct {
		session.CorrectCount++
	}
	session.Answers[questionID] = Answer{Answer: answer, Correct: correct}
	session.Current++
	session.UpdatedAt = time.Now()

	return &AdvanceResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Cursor:        session.Current,
		Total:         total,
		CorrectCount:  session.CorrectCount,
		Done:          session.Current >= total,
	}
}

func snapshotProductID(questions []models.TestQuestion) int64 {
	if len(questions) == 0 {
		return 0
	}
	return questions[0].ProductID
}
