package bot

import (
	"context"
	"testing"

	"github.com/example/trainbot/internal/quiz"
	"github.com/example/trainbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records outgoing Telegram calls instead of sending them
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFile(tgbotapi.FileConfig) (tgbotapi.File, error) {
	return tgbotapi.File{}, nil
}

type stubCatalog struct {
	questions []models.TestQuestion
}

func (c *stubCatalog) QuestionsByProduct(context.Context, int64) ([]models.TestQuestion, error) {
	return c.questions, nil
}

type stubRecorder struct {
	saved int
}

func (r *stubRecorder) SaveResult(context.Context, *models.TestResult) error {
	r.saved++
	return nil
}

func newTestBot(questions []models.TestQuestion) (*Bot, *fakeAPI) {
	api := &fakeAPI{}
	store := quiz.NewMemoryStore()
	return &Bot{
		api:        api,
		config:     &BotConfig{AdminIDs: map[int64]bool{9: true}, ResultsLimit: 10},
		engine:     quiz.NewEngine(store, &stubCatalog{questions: questions}, &stubRecorder{}),
		userStates: make(map[int64]UserState),
	}, api
}

func callbackAction(userID int64, data string, isAdmin bool) action {
	return action{
		kind:       "callback",
		name:       data,
		userID:     userID,
		chatID:     userID,
		messageID:  42,
		callbackID: "cb-1",
		isAdmin:    isAdmin,
		from:       &tgbotapi.User{ID: userID},
	}
}

func TestAdminCallbackDeniedWithAlert(t *testing.T) {
	b, api := newTestBot(nil)

	b.routeCallback(context.Background(), callbackAction(1, "admin_panel", false))

	// the screen under the button stays as it is
	assert.Empty(t, api.sent)

	require.Len(t, api.requests, 1)
	callback, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.True(t, callback.ShowAlert)
	assert.Equal(t, accessDeniedText, callback.Text)
}

func TestAdminCallbackAllowedForAdmin(t *testing.T) {
	b, api := newTestBot(nil)

	b.routeCallback(context.Background(), callbackAction(9, "admin_panel", true))

	require.Len(t, api.sent, 1)
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Админ-панель")

	// the callback is acknowledged silently, not with an alert
	require.Len(t, api.requests, 1)
	callback, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.False(t, callback.ShowAlert)
	assert.Empty(t, callback.Text)
}

func TestNormalizeComputesAdminFlag(t *testing.T) {
	b, _ := newTestBot(nil)

	update := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-2",
			From:    &tgbotapi.User{ID: 9},
			Data:    "admin_panel",
			Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 9}},
		},
	}

	act, ok := b.normalize(update)
	require.True(t, ok)
	assert.True(t, act.isAdmin)

	update.CallbackQuery.From.ID = 1
	act, ok = b.normalize(update)
	require.True(t, ok)
	assert.False(t, act.isAdmin)
}

func TestCurrentTestRepresentsQuestion(t *testing.T) {
	questions := []models.TestQuestion{
		{ID: 11, ProductID: 5, Question: "Какой срок гарантии на кофемашину?",
			OptionA: "1 год", OptionB: "2 года", OptionC: "3 года", OptionD: "5 лет", CorrectAnswer: "B"},
	}
	b, api := newTestBot(questions)

	_, err := b.engine.Start(context.Background(), 1, 5)
	require.NoError(t, err)

	b.routeCallback(context.Background(), callbackAction(1, "current_test:5", false))

	require.Len(t, api.sent, 1)
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "Какой срок гарантии на кофемашину?")
	assert.Contains(t, edit.Text, "Вопрос 1 из 1")
}

func TestCurrentTestWithoutSession(t *testing.T) {
	b, api := newTestBot(nil)

	b.routeCallback(context.Background(), callbackAction(1, "current_test:5", false))

	require.Len(t, api.sent, 1)
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "сессия тестирования истекла")
}
