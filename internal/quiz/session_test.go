package quiz

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/trainbot/pkg/models"
)

func sampleQuestions(n int) []models.TestQuestion {
	letters := []string{"A", "B", "C", "D"}
	questions := make([]models.TestQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, models.TestQuestion{
			ID:            int64(i + 1),
			ProductID:     7,
			Question:      "question",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectAnswer: letters[i%len(letters)],
		})
	}
	return questions
}

func TestMemoryStoreCreateOverwritesExistingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey(1, 7)

	require.NoError(t, store.Create(ctx, key, sampleQuestions(3)))
	_, err := store.Advance(ctx, key, 1, "A")
	require.NoError(t, err)

	// Starting over discards the old attempt, no questions asked
	require.NoError(t, store.Create(ctx, key, sampleQuestions(3)))

	session, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, session.Current)
	assert.Equal(t, 0, session.CorrectCount)
	assert.Empty(t, session.Answers)
}

func TestMemoryStoreAdvanceKeepsInvariant(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey(1, 7)
	questions := sampleQuestions(5)
	require.NoError(t, store.Create(ctx, key, questions))

	answers := []string{"A", "A", "C", "A", "B"} // correct for questions 1, 3
	for i, answer := range answers {
		result, err := store.Advance(ctx, key, questions[i].ID, answer)
		require.NoError(t, err)

		assert.LessOrEqual(t, result.CorrectCount, result.Cursor)
		assert.LessOrEqual(t, result.Cursor, result.Total)
	}

	session, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 5, session.Current)
	assert.Equal(t, 2, session.CorrectCount)
	assert.Len(t, session.Answers, 5)
}

func TestMemoryStoreAdvanceIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey(1, 7)
	require.NoError(t, store.Create(ctx, key, sampleQuestions(1)))

	result, err := store.Advance(ctx, key, 1, "a")
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestMemoryStoreAdvanceAtTerminalDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey(1, 7)
	require.NoError(t, store.Create(ctx, key, sampleQuestions(1)))

	first, err := store.Advance(ctx, key, 1, "A")
	require.NoError(t, err)
	assert.True(t, first.Done)
	assert.False(t, first.AlreadyDone)

	// Stale double-tap on the last answer button
	second, err := store.Advance(ctx, key, 1, "A")
	require.NoError(t, err)
	assert.True(t, second.AlreadyDone)
	assert.Equal(t, first.Cursor, second.Cursor)
	assert.Equal(t, first.CorrectCount, second.CorrectCount)

	session, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, session.CorrectCount)
	assert.Len(t, session.Answers, 1)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.Advance(ctx, SessionKey(1, 7), 1, "A")
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Deleting an absent key is fine
	assert.NoError(t, store.Delete(ctx, SessionKey(1, 7)))
}

func TestMemoryStoreDeleteIdle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, SessionKey(1, 7), sampleQuestions(2)))
	require.NoError(t, store.Create(ctx, SessionKey(2, 7), sampleQuestions(2)))

	stale, err := store.Get(ctx, SessionKey(1, 7))
	require.NoError(t, err)
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)

	removed := store.DeleteIdle(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, SessionKey(1, 7))
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = store.Get(ctx, SessionKey(2, 7))
	assert.NoError(t, err)
}

func TestMemoryStoreConcurrentDuplicateSubmits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey(1, 7)
	require.NoError(t, store.Create(ctx, key, sampleQuestions(1)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Advance(ctx, key, 1, "A")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	session, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Current)
	assert.Equal(t, 1, session.CorrectCount)
}
