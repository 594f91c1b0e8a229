package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// startSearch puts the user into search mode and asks for a query
func (b *Bot) startSearch(act action) {
	b.userStates[act.userID] = UserState{
		Action:    "search",
		Timestamp: time.Now(),
		Data:      make(map[string]string),
	}
	b.editOrSend(act, "🔍 Введите название продукта для поиска.\n\nЧтобы отменить, отправьте /cancel", backKeyboard("main_menu"))
}

// handleSearchQuery runs the search and shows matching products
func (b *Bot) handleSearchQuery(ctx context.Context, act action) {
	query := strings.TrimSpace(act.text)
	if len(query) < 2 {
		b.send(act.chatID, "Запрос слишком короткий, введите хотя бы 2 символа.", nil)
		return
	}

	delete(b.userStates, act.userID)

	products, err := b.products.Search(ctx, query)
	if err != nil {
		log.Printf("Error searching products for %q: %v", query, err)
		b.send(act.chatID, "Поиск временно недоступен. Попробуйте позже.", backKeyboard("main_menu"))
		return
	}

	if len(products) == 0 {
		b.send(act.chatID, fmt.Sprintf("По запросу «%s» ничего не найдено.", query),
			backKeyboard("main_menu"))
		return
	}

	b.send(act.chatID, fmt.Sprintf("🔍 Результаты поиска по запросу «%s»:", query),
		productsKeyboard(products, "view_product", "main_menu"))
}
