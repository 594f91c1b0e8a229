package bot

import (
	"testing"
	"time"

	"github.com/example/trainbot/internal/quiz"
	"github.com/example/trainbot/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatTestResult(t *testing.T) {
	tests := []struct {
		name    string
		summary quiz.Summary
		want    string
	}{
		{"top tier", quiz.Summary{Score: 90, Correct: 9, Total: 10}, "Отличный результат"},
		{"good tier", quiz.Summary{Score: 60, Correct: 6, Total: 10}, "Хороший результат"},
		{"fair tier", quiz.Summary{Score: 40, Correct: 4, Total: 10}, "Неплохо"},
		{"low tier", quiz.Summary{Score: 20, Correct: 2, Total: 10}, "Стоит внимательно изучить"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := formatTestResult(&tt.summary)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestFormatTestResultScoreLine(t *testing.T) {
	text := formatTestResult(&quiz.Summary{Score: 66.7, Correct: 2, Total: 3})
	assert.Contains(t, text, "Правильных ответов: 2 из 3")
	assert.Contains(t, text, "66.7%")
}

func TestFormatQuestion(t *testing.T) {
	prompt := &quiz.Prompt{
		Question: models.TestQuestion{
			Question: "Какой срок гарантии?",
			OptionA:  "1 год",
			OptionB:  "2 года",
			OptionC:  "3 года",
			OptionD:  "5 лет",
		},
		Number: 2,
		Total:  5,
	}

	text := formatQuestion(prompt)
	assert.Contains(t, text, "Вопрос 2 из 5")
	assert.Contains(t, text, "Какой срок гарантии?")
	assert.Contains(t, text, "A) 1 год")
	assert.Contains(t, text, "D) 5 лет")
}

func TestFormatFeedback(t *testing.T) {
	assert.Contains(t, formatFeedback(&quiz.Feedback{Correct: true}), "Правильно")

	wrong := formatFeedback(&quiz.Feedback{Correct: false, CorrectAnswer: "C"})
	assert.Contains(t, wrong, "Неправильно")
	assert.Contains(t, wrong, "C")
}

func TestFormatResultsEmpty(t *testing.T) {
	text := formatResults(nil)
	assert.Contains(t, text, "ещё не проходили тесты")
}

func TestFormatResults(t *testing.T) {
	results := []models.TestResultListing{
		{
			ProductName:    "Кофемашина X100",
			Score:          80,
			CorrectAnswers: 4,
			TotalQuestions: 5,
			CompletedAt:    time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		},
	}

	text := formatResults(results)
	assert.Contains(t, text, "Кофемашина X100")
	assert.Contains(t, text, "80.0%")
	assert.Contains(t, text, "(4/5)")
	assert.Contains(t, text, "14.03.2025 10:30")
}

func TestLengthBetween(t *testing.T) {
	assert.True(t, lengthBetween("ab", 2, 100))
	assert.False(t, lengthBetween("a", 2, 100))
	// rune count, not byte count
	assert.True(t, lengthBetween("ок", 2, 2))
}

func TestQuestionKeyboardCallbacks(t *testing.T) {
	kb := questionKeyboard(7, 15, 1, 5)

	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "answer:7_15_A", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "answer:7_15_D", *kb.InlineKeyboard[1][1].CallbackData)
	assert.Equal(t, "noop", *kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "Вопрос 1 из 5", kb.InlineKeyboard[2][0].Text)
}

func TestMainMenuKeyboard(t *testing.T) {
	regular := mainMenuKeyboard(false)
	admin := mainMenuKeyboard(true)

	assert.Len(t, regular.InlineKeyboard, 2)
	assert.Len(t, admin.InlineKeyboard, 3)
	assert.Equal(t, "admin_panel", *admin.InlineKeyboard[2][0].CallbackData)
}
