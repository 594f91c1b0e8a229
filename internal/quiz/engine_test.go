package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/trainbot/pkg/models"
)

type fakeCatalog struct {
	questions map[int64][]models.TestQuestion
	err       error
}

func (c *fakeCatalog) QuestionsByProduct(_ context.Context, productID int64) ([]models.TestQuestion, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.questions[productID], nil
}

type fakeRecorder struct {
	saved   []*models.TestResult
	failFor int // fail the next N saves
}

func (r *fakeRecorder) SaveResult(_ context.Context, result *models.TestResult) error {
	if r.failFor > 0 {
		r.failFor--
		return errors.New("database unavailable")
	}
	r.saved = append(r.saved, result)
	return nil
}

func newTestEngine(questions []models.TestQuestion) (*Engine, *MemoryStore, *fakeRecorder) {
	store := NewMemoryStore()
	recorder := &fakeRecorder{}
	catalog := &fakeCatalog{questions: map[int64][]models.TestQuestion{7: questions}}
	return NewEngine(store, catalog, recorder), store, recorder
}

func TestEngineFullRun(t *testing.T) {
	ctx := context.Background()
	questions := sampleQuestions(5)
	engine, store, recorder := newTestEngine(questions)

	prompt, err := engine.Start(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, prompt.Number)
	assert.Equal(t, 5, prompt.Total)
	assert.Equal(t, questions[0].ID, prompt.Question.ID)

	// Correct answers for questions 1, 2, 3; wrong for 4, 5
	answers := []string{"A", "B", "C", "A", "B"}
	var summary *Summary
	for i, answer := range answers {
		feedback, next, done, err := engine.Submit(ctx, 1, 7, questions[i].ID, answer)
		require.NoError(t, err)
		require.NotNil(t, feedback)
		assert.Equal(t, i < 3, feedback.Correct)

		if i < len(answers)-1 {
			require.NotNil(t, next)
			assert.Equal(t, i+2, next.Number)
			assert.Nil(t, done)
		} else {
			assert.Nil(t, next)
			summary = done
		}
	}

	require.NotNil(t, summary)
	assert.InDelta(t, 60.0, summary.Score, 0.0001)
	assert.Equal(t, 3, summary.Correct)
	assert.Equal(t, 5, summary.Total)

	require.Len(t, recorder.saved, 1)
	assert.Equal(t, int64(1), recorder.saved[0].UserID)
	assert.Equal(t, int64(7), recorder.saved[0].ProductID)
	assert.InDelta(t, 60.0, recorder.saved[0].Score, 0.0001)

	_, err = store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestEngineStartWithoutQuestions(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newTestEngine(nil)

	_, err := engine.Start(ctx, 1, 7)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestEngineSubmitWithoutSession(t *testing.T) {
	ctx := context.Background()
	engine, _, recorder := newTestEngine(sampleQuestions(2))

	_, _, _, err := engine.Submit(ctx, 1, 7, 1, "A")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, recorder.saved)
}

func TestEngineRestartDiscardsPreviousAttempt(t *testing.T) {
	ctx := context.Background()
	questions := sampleQuestions(3)
	engine, store, _ := newTestEngine(questions)

	_, err := engine.Start(ctx, 1, 7)
	require.NoError(t, err)
	_, _, _, err = engine.Submit(ctx, 1, 7, questions[0].ID, "A")
	require.NoError(t, err)

	prompt, err := engine.Start(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, prompt.Number)

	session, err := store.Get(ctx, SessionKey(1, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, session.Current)
	assert.Equal(t, 0, session.CorrectCount)
}

func TestEngineRetryAfterFailedSave(t *testing.T) {
	ctx := context.Background()
	questions := sampleQuestions(1)
	engine, store, recorder := newTestEngine(questions)
	recorder.failFor = 1

	_, err := engine.Start(ctx, 1, 7)
	require.NoError(t, err)

	// The answer advances the cursor, but persisting the result fails; the
	// session must stay around so the action can be retried.
	_, _, _, err = engine.Submit(ctx, 1, 7, questions[0].ID, "A")
	require.Error(t, err)
	_, err = store.Get(ctx, SessionKey(1, 7))
	require.NoError(t, err)

	// Retried submit goes straight to completion without scoring again
	feedback, next, summary, err := engine.Submit(ctx, 1, 7, questions[0].ID, "A")
	require.NoError(t, err)
	assert.Nil(t, feedback)
	assert.Nil(t, next)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Correct)

	require.Len(t, recorder.saved, 1)
	_, err = store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestEngineCurrentRedirectsToCompletion(t *testing.T) {
	ctx := context.Background()
	engine, store, recorder := newTestEngine(sampleQuestions(2))
	recorder.failFor = 1

	_, err := engine.Start(ctx, 1, 7)
	require.NoError(t, err)
	_, _, _, err = engine.Submit(ctx, 1, 7, 1, "A")
	require.NoError(t, err)
	_, _, _, err = engine.Submit(ctx, 1, 7, 2, "B")
	require.Error(t, err) // save failed, session retained at the terminal cursor

	prompt, summary, err := engine.Current(ctx, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, prompt)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Total)
	require.Len(t, recorder.saved, 1)

	_, err = store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestTierBands(t *testing.T) {
	cases := []struct {
		score float64
		tier  Tier
	}{
		{100, TierTop},
		{80, TierTop},
		{79.9, TierGood},
		{60, TierGood},
		{59.9, TierFair},
		{40, TierFair},
		{39.9, TierLow},
		{0, TierLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, TierFor(tc.score), "score %.1f", tc.score)
	}
}
