package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showKnowledgeBase lists all categories for browsing
func (b *Bot) showKnowledgeBase(ctx context.Context, act action) {
	categories, err := b.categories.GetAll(ctx)
	if err != nil {
		log.Printf("Error loading categories: %v", err)
		b.editOrSend(act, "Не удалось загрузить категории. Попробуйте позже.", backKeyboard("main_menu"))
		return
	}

	if len(categories) == 0 {
		b.editOrSend(act, "📚 База знаний пока пуста.", backKeyboard("main_menu"))
		return
	}

	b.editOrSend(act, "📚 База знаний\n\nВыберите категорию:",
		categoriesKeyboard(categories, "view_category", "main_menu"))
}

// showCategoryProducts lists the products inside a category
func (b *Bot) showCategoryProducts(ctx context.Context, act action, arg string) {
	categoryID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("Bad category id in callback: %s", arg)
		return
	}

	category, err := b.categories.GetByID(ctx, categoryID)
	if err != nil {
		b.editOrSend(act, "Категория не найдена.", backKeyboard("knowledge_base"))
		return
	}

	products, err := b.products.GetByCategory(ctx, categoryID)
	if err != nil {
		log.Printf("Error loading products for category %d: %v", categoryID, err)
		b.editOrSend(act, "Не удалось загрузить продукты. Попробуйте позже.", backKeyboard("knowledge_base"))
		return
	}

	if len(products) == 0 {
		b.editOrSend(act, fmt.Sprintf("📁 %s\n\nВ этой категории пока нет продуктов.", category.Name),
			backKeyboard("knowledge_base"))
		return
	}

	text := fmt.Sprintf("📁 %s", category.Name)
	if category.Description != "" {
		text += "\n\n" + category.Description
	}
	text += "\n\nВыберите продукт:"

	b.editOrSend(act, text, productsKeyboard(products, "view_product", "knowledge_base"))
}

// showProduct renders a product card. Products with an attached image
// are sent as a photo with the card as caption; if Telegram rejects
// the stored file id we fall back to plain text so the card always
// reaches the user. An attached document is sent as a follow-up.
func (b *Bot) showProduct(ctx context.Context, act action, arg string) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Printf("Bad product id in callback: %s", arg)
		return
	}

	product, err := b.products.GetByID(ctx, productID)
	if err != nil {
		b.editOrSend(act, "Продукт не найден.", backKeyboard("knowledge_base"))
		return
	}

	count, err := b.questions.CountByProduct(ctx, productID)
	if err != nil {
		log.Printf("Error counting questions for product %d: %v", productID, err)
	}

	text := formatProduct(product, count)
	buttons := [][]MenuButton{}
	if count > 0 {
		buttons = append(buttons, []MenuButton{
			{Text: "📝 Пройти тест", CallbackData: fmt.Sprintf("start_test:%d", productID)},
		})
	}
	buttons = append(buttons, []MenuButton{
		{Text: "« Назад", CallbackData: fmt.Sprintf("view_category:%d", product.CategoryID)},
	})
	keyboard := createKeyboard(buttons)

	if product.ImageFileID != "" {
		photo := tgbotapi.NewPhoto(act.chatID, tgbotapi.FileID(product.ImageFileID))
		photo.Caption = text
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err == nil {
			b.sendProductDocument(act.chatID, product.DocumentFileID)
			return
		}
		log.Printf("Error sending product %d photo, falling back to text", productID)
	}

	b.editOrSend(act, text, &keyboard)
	b.sendProductDocument(act.chatID, product.DocumentFileID)
}

func (b *Bot) sendProductDocument(chatID int64, fileID string) {
	if fileID == "" {
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending product document to chat %d: %v", chatID, err)
	}
}
