package bot

import (
	"fmt"

	"github.com/example/trainbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuKeyboard returns the main menu. Admins get an extra row
// with the admin panel entry.
func mainMenuKeyboard(isAdmin bool) *tgbotapi.InlineKeyboardMarkup {
	buttons := [][]MenuButton{
		{
			{Text: "📚 База знаний", CallbackData: "knowledge_base"},
			{Text: "🔍 Поиск", CallbackData: "search"},
		},
		{
			{Text: "📝 Пройти тест", CallbackData: "take_test"},
			{Text: "📊 Мои результаты", CallbackData: "my_results"},
		},
	}
	if isAdmin {
		buttons = append(buttons, []MenuButton{
			{Text: "⚙️ Админ-панель", CallbackData: "admin_panel"},
		})
	}
	kb := createKeyboard(buttons)
	return &kb
}

// adminPanelKeyboard returns the admin panel menu
func adminPanelKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := createKeyboard([][]MenuButton{
		{
			{Text: "📁 Категории", CallbackData: "admin_categories"},
			{Text: "📦 Продукты", CallbackData: "admin_products"},
		},
		{
			{Text: "❓ Добавить вопрос", CallbackData: "admin_add_question"},
			{Text: "📥 Импорт вопросов", CallbackData: "admin_import"},
		},
		{
			{Text: "📈 Статистика", CallbackData: "admin_stats"},
		},
		{
			{Text: "« Главное меню", CallbackData: "main_menu"},
		},
	})
	return &kb
}

// categoriesKeyboard lists categories, one per row, each opening
// the given callback with the category id as the argument
func categoriesKeyboard(categories []models.Category, callback string, backTo string) *tgbotapi.InlineKeyboardMarkup {
	var buttons [][]MenuButton
	for _, c := range categories {
		buttons = append(buttons, []MenuButton{
			{Text: c.Name, CallbackData: fmt.Sprintf("%s:%d", callback, c.ID)},
		})
	}
	buttons = append(buttons, []MenuButton{{Text: "« Назад", CallbackData: backTo}})
	kb := createKeyboard(buttons)
	return &kb
}

// productsKeyboard lists products for a category
func productsKeyboard(products []models.Product, callback string, backTo string) *tgbotapi.InlineKeyboardMarkup {
	var buttons [][]MenuButton
	for _, p := range products {
		buttons = append(buttons, []MenuButton{
			{Text: p.Name, CallbackData: fmt.Sprintf("%s:%d", callback, p.ID)},
		})
	}
	buttons = append(buttons, []MenuButton{{Text: "« Назад", CallbackData: backTo}})
	kb := createKeyboard(buttons)
	return &kb
}

// listingsKeyboard lists testable products together with their
// question counts
func listingsKeyboard(products []models.ProductListing, callback string, backTo string) *tgbotapi.InlineKeyboardMarkup {
	var buttons [][]MenuButton
	for _, p := range products {
		buttons = append(buttons, []MenuButton{
			{Text: fmt.Sprintf("%s (%d вопр.)", p.Name, p.QuestionCount), CallbackData: fmt.Sprintf("%s:%d", callback, p.ID)},
		})
	}
	buttons = append(buttons, []MenuButton{{Text: "« Назад", CallbackData: backTo}})
	kb := createKeyboard(buttons)
	return &kb
}

// questionKeyboard builds the four answer buttons for a question plus
// a non-interactive progress row. Callback data carries the product id
// to find the session and the question id as an echo of what the
// keyboard was built from.
func questionKeyboard(productID, questionID int64, number, total int) *tgbotapi.InlineKeyboardMarkup {
	answer := func(letter string) string {
		return fmt.Sprintf("answer:%d_%d_%s", productID, questionID, letter)
	}
	kb := createKeyboard([][]MenuButton{
		{
			{Text: "A", CallbackData: answer("A")},
			{Text: "B", CallbackData: answer("B")},
		},
		{
			{Text: "C", CallbackData: answer("C")},
			{Text: "D", CallbackData: answer("D")},
		},
		{
			{Text: fmt.Sprintf("Вопрос %d из %d", number, total), CallbackData: "noop"},
		},
	})
	return &kb
}

// backKeyboard is a single back button
func backKeyboard(backTo string) *tgbotapi.InlineKeyboardMarkup {
	kb := createKeyboard([][]MenuButton{
		{{Text: "« Назад", CallbackData: backTo}},
	})
	return &kb
}

// resultKeyboard follows a completed test
func resultKeyboard(productID int64) *tgbotapi.InlineKeyboardMarkup {
	kb := createKeyboard([][]MenuButton{
		{
			{Text: "🔄 Пройти ещё раз", CallbackData: fmt.Sprintf("start_test:%d", productID)},
		},
		{
			{Text: "📊 Мои результаты", CallbackData: "my_results"},
			{Text: "« Главное меню", CallbackData: "main_menu"},
		},
	})
	return &kb
}
