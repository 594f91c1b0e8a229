package bot

import (
	"fmt"
	"log"
	"strings"

	"github.com/example/trainbot/internal/quiz"
	"github.com/example/trainbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const accessDeniedText = "⛔ Эта функция доступна только администраторам."

const expiredSessionText = "⏰ Ваша сессия тестирования истекла. Начните тест заново."

// send delivers a plain message, optionally with an inline keyboard
func (b *Bot) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// editOrSend edits the message the callback button lives on, falling
// back to a fresh message when the edit is rejected (the message may
// be too old, or carry a photo instead of text). A failure of the
// fallback is logged and swallowed so one broken chat never stops
// the update loop.
func (b *Bot) editOrSend(act action, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if act.messageID != 0 {
		edit := tgbotapi.NewEditMessageText(act.chatID, act.messageID, text)
		if keyboard != nil {
			edit.ReplyMarkup = keyboard
		}
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	b.send(act.chatID, text, keyboard)
}

// answerCallback acknowledges a callback query so the client stops
// showing the loading spinner. Errors are swallowed.
func (b *Bot) answerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// alertCallback answers a callback query with a popup alert, leaving
// the message under the button untouched
func (b *Bot) alertCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// mainMenuText greets the user by first name when one is known
func mainMenuText(firstName string) string {
	if firstName != "" {
		return fmt.Sprintf("Здравствуйте, %s! 👋\n\nЯ помогу вам изучить продукты компании и проверить знания.\n\nВыберите раздел:", firstName)
	}
	return "Здравствуйте! 👋\n\nЯ помогу вам изучить продукты компании и проверить знания.\n\nВыберите раздел:"
}

// formatQuestion renders a quiz prompt with its four options
func formatQuestion(p *quiz.Prompt) string {
	q := p.Question
	return fmt.Sprintf("❓ Вопрос %d из %d\n\n%s\n\nA) %s\nB) %s\nC) %s\nD) %s",
		p.Number, p.Total, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD)
}

// formatFeedback renders the per-answer verdict
func formatFeedback(f *quiz.Feedback) string {
	if f.Correct {
		return "✅ Правильно!"
	}
	return fmt.Sprintf("❌ Неправильно. Правильный ответ: %s", f.CorrectAnswer)
}

// formatTestResult renders the final score with a tier message
func formatTestResult(s *quiz.Summary) string {
	var verdict string
	switch quiz.TierFor(s.Score) {
	case quiz.TierTop:
		verdict = "🏆 Отличный результат! Вы отлично знаете продукт!"
	case quiz.TierGood:
		verdict = "👍 Хороший результат! Но есть что повторить."
	case quiz.TierFair:
		verdict = "📚 Неплохо, но рекомендуем изучить материал ещё раз."
	default:
		verdict = "📖 Стоит внимательно изучить материал и попробовать снова."
	}

	return fmt.Sprintf("🎯 Тест завершён!\n\nПравильных ответов: %d из %d\nРезультат: %.1f%%\n\n%s",
		s.Correct, s.Total, s.Score, verdict)
}

// formatProduct renders a product card for the knowledge base
func formatProduct(p *models.Product, questionCount int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 %s\n\n", p.Name))
	if p.Description != "" {
		sb.WriteString(p.Description + "\n\n")
	}
	if questionCount > 0 {
		sb.WriteString(fmt.Sprintf("📝 По этому продукту доступен тест (%d вопр.)", questionCount))
	} else {
		sb.WriteString("Тест по этому продукту пока не добавлен.")
	}
	return sb.String()
}

// formatResults renders the recent test results list
func formatResults(results []models.TestResultListing) string {
	if len(results) == 0 {
		return "📊 Вы ещё не проходили тесты.\n\nВыберите «Пройти тест» в главном меню, чтобы начать."
	}

	var sb strings.Builder
	sb.WriteString("📊 Ваши последние результаты:\n\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("• %s — %.1f%% (%d/%d)\n  %s\n",
			r.ProductName, r.Score, r.CorrectAnswers, r.TotalQuestions,
			r.CompletedAt.Format("02.01.2006 15:04")))
	}
	return sb.String()
}
