package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/example/trainbot/internal/quiz"
)

// showTestCategories lists categories for picking a test
func (b *Bot) showTestCategories(ctx context.Context, act action) {
	categories, err := b.categories.GetAll(ctx)
	if err != nil {
		log.Printf("Error loading categories: %v", err)
		b.editOrSend(act, "Не удалось загрузить категории. Попробуйте позже.", backKeyboard("main_menu"))
		return
	}

	if len(categories) == 0 {
		b.editOrSend(act, "Тесты пока не добавлены.", backKeyboard("main_menu"))
		return
	}

	b.editOrSend(act, "📝 Тестирование\n\nВыберите категорию:",
		categoriesKeyboard(categories, "test_category", "main_menu"))
}

// showTestProducts lists products of a category that have at least one question
func (b *Bot) showTestProducts(ctx context.Context, act action, arg string) {
	categoryID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("Bad category id in callback: %s", arg)
		return
	}

	products, err := b.products.GetTestableByCategory(ctx, categoryID)
	if err != nil {
		log.Printf("Error loading testable products for category %d: %v", categoryID, err)
		b.editOrSend(act, "Не удалось загрузить продукты. Попробуйте позже.", backKeyboard("take_test"))
		return
	}

	if len(products) == 0 {
		b.editOrSend(act, "В этой категории пока нет тестов.", backKeyboard("take_test"))
		return
	}

	b.editOrSend(act, "Выберите продукт для тестирования:",
		listingsKeyboard(products, "start_test", "take_test"))
}

// startTest begins a quiz session and shows its first question. An
// unfinished session for the same product is discarded.
func (b *Bot) startTest(ctx context.Context, act action, arg string) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("Bad product id in callback: %s", arg)
		return
	}

	prompt, err := b.engine.Start(ctx, act.userID, productID)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuestions) {
			b.editOrSend(act, "По этому продукту пока нет вопросов.", backKeyboard("take_test"))
			return
		}
		log.Printf("Error starting test for user %d product %d: %v", act.userID, productID, err)
		b.editOrSend(act, "Не удалось начать тест. Попробуйте позже.", backKeyboard("take_test"))
		return
	}

	b.editOrSend(act, formatQuestion(prompt),
		questionKeyboard(productID, prompt.Question.ID, prompt.Number, prompt.Total))
}

// handleAnswer processes an answer button press. The callback argument
// has the form "<productID>_<questionID>_<letter>".
func (b *Bot) handleAnswer(ctx context.Context, act action, arg string) {
	parts := strings.SplitN(arg, "_", 3)
	if len(parts) != 3 {
		log.Printf("Malformed answer callback from user %d: %s", act.userID, arg)
		return
	}

	productID, err1 := strconv.ParseInt(parts[0], 10, 64)
	questionID, err2 := strconv.ParseInt(parts[1], 10, 64)
	letter := parts[2]
	if err1 != nil || err2 != nil {
		log.Printf("Malformed answer callback from user %d: %s", act.userID, arg)
		return
	}

	feedback, prompt, summary, err := b.engine.Submit(ctx, act.userID, productID, questionID, letter)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionExpired) {
			kb := createKeyboard([][]MenuButton{
				{{Text: "🔄 Начать заново", CallbackData: fmt.Sprintf("start_test:%d", productID)}},
				{{Text: "« Главное меню", CallbackData: "main_menu"}},
			})
			b.editOrSend(act, expiredSessionText, &kb)
			return
		}
		log.Printf("Error submitting answer for user %d product %d: %v", act.userID, productID, err)
		kb := createKeyboard([][]MenuButton{
			{{Text: "🔄 Повторить", CallbackData: fmt.Sprintf("current_test:%d", productID)}},
		})
		b.editOrSend(act, "Не удалось обработать ответ. Попробуйте ещё раз.", &kb)
		return
	}

	// A duplicate tap after the last question carries no fresh verdict,
	// only the (re-run) completion summary.
	var text string
	if feedback != nil {
		text = formatFeedback(feedback) + "\n\n"
	}

	switch {
	case summary != nil:
		text += formatTestResult(summary)
		b.editOrSend(act, text, resultKeyboard(productID))
	case prompt != nil:
		text += formatQuestion(prompt)
		b.editOrSend(act, text,
			questionKeyboard(productID, prompt.Question.ID, prompt.Number, prompt.Total))
	}
}

// showCurrentQuestion re-presents the question at the session cursor.
// It backs the retry button shown after a transient failure: if the
// last answer did land, the session has moved on (or completed) and
// the user picks up exactly where it stands.
func (b *Bot) showCurrentQuestion(ctx context.Context, act action, arg string) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("Bad product id in callback: %s", arg)
		return
	}

	prompt, summary, err := b.engine.Current(ctx, act.userID, productID)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionExpired) {
			kb := createKeyboard([][]MenuButton{
				{{Text: "🔄 Начать заново", CallbackData: fmt.Sprintf("start_test:%d", productID)}},
				{{Text: "« Главное меню", CallbackData: "main_menu"}},
			})
			b.editOrSend(act, expiredSessionText, &kb)
			return
		}
		log.Printf("Error resuming test for user %d product %d: %v", act.userID, productID, err)
		b.editOrSend(act, "Не удалось продолжить тест. Попробуйте позже.", backKeyboard("main_menu"))
		return
	}

	switch {
	case summary != nil:
		b.editOrSend(act, formatTestResult(summary), resultKeyboard(productID))
	case prompt != nil:
		b.editOrSend(act, formatQuestion(prompt),
			questionKeyboard(productID, prompt.Question.ID, prompt.Number, prompt.Total))
	}
}

// showMyResults shows the user's most recent test results
func (b *Bot) showMyResults(ctx context.Context, act action) {
	results, err := b.results.GetRecentByUser(ctx, act.userID, b.config.ResultsLimit)
	if err != nil {
		log.Printf("Error loading results for user %d: %v", act.userID, err)
		b.editOrSend(act, "Не удалось загрузить результаты. Попробуйте позже.", backKeyboard("main_menu"))
		return
	}

	b.editOrSend(act, formatResults(results), backKeyboard("main_menu"))
}
