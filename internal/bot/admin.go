package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/trainbot/internal/excel"
	"github.com/example/trainbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const skipMark = "-"

// showAdminPanel shows the admin panel menu
func (b *Bot) showAdminPanel(act action) {
	b.editOrSend(act, "⚙️ Админ-панель\n\nВыберите раздел:", adminPanelKeyboard())
}

// --- categories ---

// showAdminCategories lists categories with delete buttons
func (b *Bot) showAdminCategories(ctx context.Context, act action) {
	categories, err := b.categories.GetAll(ctx)
	if err != nil {
		log.Printf("Error loading categories: %v", err)
		b.editOrSend(act, "Не удалось загрузить категории.", backKeyboard("admin_panel"))
		return
	}

	var buttons [][]MenuButton
	for _, c := range categories {
		buttons = append(buttons, []MenuButton{
			{Text: c.Name, CallbackData: fmt.Sprintf("view_category:%d", c.ID)},
			{Text: "❌", CallbackData: fmt.Sprintf("admin_delete_category:%d", c.ID)},
		})
	}
	buttons = append(buttons,
		[]MenuButton{{Text: "➕ Добавить категорию", CallbackData: "admin_add_category"}},
		[]MenuButton{{Text: "« Назад", CallbackData: "admin_panel"}},
	)
	kb := createKeyboard(buttons)

	b.editOrSend(act, fmt.Sprintf("📁 Категории (%d)", len(categories)), &kb)
}

// startAddCategory begins the add-category dialog
func (b *Bot) startAddCategory(act action) {
	b.userStates[act.userID] = UserState{
		Action:    "add_category",
		Step:      0,
		Timestamp: time.Now(),
		Data:      make(map[string]string),
	}
	b.editOrSend(act, "Введите название категории (от 2 до 100 символов).\n\nЧтобы отменить, отправьте /cancel", nil)
}

// handleAddCategoryStep advances the add-category dialog by one step
func (b *Bot) handleAddCategoryStep(ctx context.Context, act action, state UserState) {
	text := strings.TrimSpace(act.text)

	switch state.Step {
	case 0:
		if !lengthBetween(text, 2, 100) {
			b.send(act.chatID, "Название должно быть от 2 до 100 символов. Попробуйте ещё раз.", nil)
			return
		}
		exists, err := b.categories.ExistsByName(ctx, text)
		if err != nil {
			log.Printf("Error checking category name: %v", err)
			b.send(act.chatID, "Ошибка при проверке названия. Попробуйте ещё раз.", nil)
			return
		}
		if exists {
			b.send(act.chatID, "Категория с таким названием уже существует. Введите другое название.", nil)
			return
		}
		state.Data["name"] = text
		state.Step = 1
		b.userStates[act.userID] = state
		b.send(act.chatID, "Введите описание категории или отправьте «-», чтобы пропустить.", nil)
	case 1:
		description := text
		if description == skipMark {
			description = ""
		}
		if !lengthBetween(description, 0, 2000) {
			b.send(act.chatID, "Описание не должно превышать 2000 символов.", nil)
			return
		}

		category := &models.Category{
			Name:        state.Data["name"],
			Description: description,
			CreatedBy:   act.userID,
		}
		if err := b.categories.Create(ctx, category); err != nil {
			log.Printf("Error creating category: %v", err)
			b.send(act.chatID, "Не удалось создать категорию. Попробуйте позже.", backKeyboard("admin_panel"))
			return
		}

		delete(b.userStates, act.userID)
		b.send(act.chatID, fmt.Sprintf("✅ Категория «%s» создана.", category.Name), backKeyboard("admin_categories"))
	}
}

// deleteCategory removes a category together with its products
func (b *Bot) deleteCategory(ctx context.Context, act action, arg string) {
	categoryID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return
	}

	if err := b.categories.Delete(ctx, categoryID); err != nil {
		log.Printf("Error deleting category %d: %v", categoryID, err)
		b.editOrSend(act, "Не удалось удалить категорию.", backKeyboard("admin_categories"))
		return
	}

	b.showAdminCategories(ctx, act)
}

// --- products ---

// showAdminProducts lists all products with their question counts
func (b *Bot) showAdminProducts(ctx context.Context, act action) {
	products, err := b.products.GetAllWithQuestionCounts(ctx)
	if err != nil {
		log.Printf("Error loading products: %v", err)
		b.editOrSend(act, "Не удалось загрузить продукты.", backKeyboard("admin_panel"))
		return
	}

	var buttons [][]MenuButton
	for _, p := range products {
		buttons = append(buttons, []MenuButton{
			{Text: fmt.Sprintf("%s (%d вопр.)", p.Name, p.QuestionCount), CallbackData: fmt.Sprintf("view_product:%d", p.ID)},
			{Text: "❌", CallbackData: fmt.Sprintf("admin_delete_product:%d", p.ID)},
		})
	}
	buttons = append(buttons,
		[]MenuButton{{Text: "➕ Добавить продукт", CallbackData: "admin_add_product"}},
		[]MenuButton{{Text: "« Назад", CallbackData: "admin_panel"}},
	)
	kb := createKeyboard(buttons)

	b.editOrSend(act, fmt.Sprintf("📦 Продукты (%d)", len(products)), &kb)
}

// startAddProduct asks which category the new product belongs to
func (b *Bot) startAddProduct(ctx context.Context, act action) {
	categories, err := b.categories.GetAll(ctx)
	if err != nil {
		log.Printf("Error loading categories: %v", err)
		b.editOrSend(act, "Не удалось загрузить категории.", backKeyboard("admin_panel"))
		return
	}
	if len(categories) == 0 {
		b.editOrSend(act, "Сначала создайте категорию.", backKeyboard("admin_categories"))
		return
	}

	b.editOrSend(act, "Выберите категорию для нового продукта:",
		categoriesKeyboard(categories, "admin_product_category", "admin_products"))
}

// chooseProductCategory stores the chosen category and starts the dialog
func (b *Bot) chooseProductCategory(act action, arg string) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return
	}
	b.userStates[act.userID] = UserState{
		Action:    "add_product",
		Step:      0,
		Timestamp: time.Now(),
		Data:      map[string]string{"category_id": arg},
	}
	b.editOrSend(act, "Введите название продукта (от 2 до 255 символов).\n\nЧтобы отменить, отправьте /cancel", nil)
}

// handleAddProductStep advances the add-product dialog by one step
func (b *Bot) handleAddProductStep(ctx context.Context, act action, state UserState) {
	text := strings.TrimSpace(act.text)

	switch state.Step {
	case 0:
		if !lengthBetween(text, 2, 255) {
			b.send(act.chatID, "Название должно быть от 2 до 255 символов. Попробуйте ещё раз.", nil)
			return
		}
		state.Data["name"] = text
		state.Step = 1
		b.userStates[act.userID] = state
		b.send(act.chatID, "Введите описание продукта или отправьте «-», чтобы пропустить.", nil)
	case 1:
		if text != skipMark {
			if !lengthBetween(text, 1, 2000) {
				b.send(act.chatID, "Описание не должно превышать 2000 символов.", nil)
				return
			}
			state.Data["description"] = text
		}
		state.Step = 2
		b.userStates[act.userID] = state
		b.send(act.chatID, "Отправьте фото продукта или «-», чтобы пропустить.", nil)
	case 2:
		if len(act.photo) > 0 {
			// Telegram sends several sizes, the last one is the largest
			state.Data["image_file_id"] = act.photo[len(act.photo)-1].FileID
		} else if text != skipMark {
			b.send(act.chatID, "Отправьте фото или «-», чтобы пропустить.", nil)
			return
		}
		state.Step = 3
		b.userStates[act.userID] = state
		b.send(act.chatID, "Отправьте документ (инструкцию, презентацию) или «-», чтобы пропустить.", nil)
	case 3:
		if act.document != nil {
			state.Data["document_file_id"] = act.document.FileID
		} else if text != skipMark {
			b.send(act.chatID, "Отправьте документ или «-», чтобы пропустить.", nil)
			return
		}

		categoryID, _ := strconv.ParseInt(state.Data["category_id"], 10, 64)
		product := &models.Product{
			Name:           state.Data["name"],
			Description:    state.Data["description"],
			CategoryID:     categoryID,
			ImageFileID:    state.Data["image_file_id"],
			DocumentFileID: state.Data["document_file_id"],
			CreatedBy:      act.userID,
		}
		if err := b.products.Create(ctx, product); err != nil {
			log.Printf("Error creating product: %v", err)
			b.send(act.chatID, "Не удалось создать продукт. Попробуйте позже.", backKeyboard("admin_panel"))
			return
		}

		delete(b.userStates, act.userID)
		b.send(act.chatID, fmt.Sprintf("✅ Продукт «%s» создан.", product.Name), backKeyboard("admin_products"))
	}
}

// deleteProduct removes a product with its questions and results
func (b *Bot) deleteProduct(ctx context.Context, act action, arg string) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return
	}

	if err := b.products.Delete(ctx, productID); err != nil {
		log.Printf("Error deleting product %d: %v", productID, err)
		b.editOrSend(act, "Не удалось удалить продукт.", backKeyboard("admin_products"))
		return
	}

	b.showAdminProducts(ctx, act)
}

// --- questions ---

// startAddQuestion asks which product the question is for
func (b *Bot) startAddQuestion(ctx context.Context, act action) {
	products, err := b.products.GetAllWithQuestionCounts(ctx)
	if err != nil {
		log.Printf("Error loading products: %v", err)
		b.editOrSend(act, "Не удалось загрузить продукты.", backKeyboard("admin_panel"))
		return
	}
	if len(products) == 0 {
		b.editOrSend(act, "Сначала создайте продукт.", backKeyboard("admin_products"))
		return
	}

	b.editOrSend(act, "Выберите продукт для нового вопроса:",
		listingsKeyboard(products, "admin_question_product", "admin_panel"))
}

// chooseQuestionProduct stores the chosen product and starts the dialog
func (b *Bot) chooseQuestionProduct(ctx context.Context, act action, arg string) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return
	}
	b.userStates[act.userID] = UserState{
		Action:    "add_question",
		Step:      0,
		Timestamp: time.Now(),
		Data:      map[string]string{"product_id": arg},
	}
	b.editOrSend(act, "Введите текст вопроса (от 10 до 1000 символов).\n\nЧтобы отменить, отправьте /cancel", nil)
}

// handleAddQuestionStep advances the add-question dialog by one step.
// The dialog collects the question text, the four options and the
// correct answer letter.
func (b *Bot) handleAddQuestionStep(ctx context.Context, act action, state UserState) {
	text := strings.TrimSpace(act.text)

	optionKeys := []string{"option_a", "option_b", "option_c", "option_d"}
	optionNames := []string{"A", "B", "C", "D"}

	switch {
	case state.Step == 0:
		if !lengthBetween(text, 10, 1000) {
			b.send(act.chatID, "Текст вопроса должен быть от 10 до 1000 символов. Попробуйте ещё раз.", nil)
			return
		}
		state.Data["question"] = text
		state.Step = 1
		b.userStates[act.userID] = state
		b.send(act.chatID, "Введите вариант ответа A:", nil)
	case state.Step >= 1 && state.Step <= 4:
		if !lengthBetween(text, 1, 500) {
			b.send(act.chatID, "Вариант ответа должен быть от 1 до 500 символов. Попробуйте ещё раз.", nil)
			return
		}
		state.Data[optionKeys[state.Step-1]] = text
		if state.Step < 4 {
			state.Step++
			b.userStates[act.userID] = state
			b.send(act.chatID, fmt.Sprintf("Введите вариант ответа %s:", optionNames[state.Step-1]), nil)
			return
		}
		state.Step = 5
		b.userStates[act.userID] = state
		b.send(act.chatID, "Укажите правильный ответ: A, B, C или D.", nil)
	case state.Step == 5:
		letter := strings.ToUpper(text)
		if letter != "A" && letter != "B" && letter != "C" && letter != "D" {
			b.send(act.chatID, "Введите одну букву: A, B, C или D.", nil)
			return
		}

		productID, _ := strconv.ParseInt(state.Data["product_id"], 10, 64)
		question := &models.TestQuestion{
			ProductID:     productID,
			Question:      state.Data["question"],
			OptionA:       state.Data["option_a"],
			OptionB:       state.Data["option_b"],
			OptionC:       state.Data["option_c"],
			OptionD:       state.Data["option_d"],
			CorrectAnswer: letter,
			CreatedBy:     act.userID,
		}
		if err := b.questions.Create(ctx, question); err != nil {
			log.Printf("Error creating question: %v", err)
			b.send(act.chatID, "Не удалось сохранить вопрос. Попробуйте позже.", backKeyboard("admin_panel"))
			return
		}

		delete(b.userStates, act.userID)
		b.send(act.chatID, "✅ Вопрос добавлен.", backKeyboard("admin_panel"))
	}
}

// --- bulk import ---

// startImport asks which product the imported questions belong to
func (b *Bot) startImport(ctx context.Context, act action) {
	products, err := b.products.GetAllWithQuestionCounts(ctx)
	if err != nil {
		log.Printf("Error loading products: %v", err)
		b.editOrSend(act, "Не удалось загрузить продукты.", backKeyboard("admin_panel"))
		return
	}
	if len(products) == 0 {
		b.editOrSend(act, "Сначала создайте продукт.", backKeyboard("admin_products"))
		return
	}

	b.editOrSend(act, "Выберите продукт для импорта вопросов:",
		listingsKeyboard(products, "admin_import_product", "admin_panel"))
}

// chooseImportProduct stores the product and waits for the file
func (b *Bot) chooseImportProduct(act action, arg string) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return
	}
	b.userStates[act.userID] = UserState{
		Action:    "import_questions",
		Step:      0,
		Timestamp: time.Now(),
		Data:      map[string]string{"product_id": arg},
	}
	b.editOrSend(act, "Отправьте файл .xlsx или .csv с вопросами.\n\n"+
		"Колонки: вопрос, вариант A, вариант B, вариант C, вариант D, правильный ответ (буква).\n\n"+
		"Чтобы отменить, отправьте /cancel", nil)
}

// handleImportDocument downloads the uploaded file and imports its questions
func (b *Bot) handleImportDocument(ctx context.Context, act action, state UserState) {
	productID, _ := strconv.ParseInt(state.Data["product_id"], 10, 64)

	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: act.document.FileID})
	if err != nil {
		log.Printf("Error getting import file: %v", err)
		b.send(act.chatID, "Не удалось получить файл. Попробуйте ещё раз.", nil)
		return
	}

	resp, err := http.Get(file.Link(b.config.Token))
	if err != nil {
		log.Printf("Error downloading import file: %v", err)
		b.send(act.chatID, "Не удалось скачать файл. Попробуйте ещё раз.", nil)
		return
	}
	defer resp.Body.Close()

	questions, rowErrors, err := excel.ImportQuestions(resp.Body, act.document.FileName)
	if err != nil {
		log.Printf("Error parsing import file: %v", err)
		b.send(act.chatID, fmt.Sprintf("❌ Не удалось разобрать файл: %v", err), nil)
		return
	}

	var imported int
	for i := range questions {
		questions[i].ProductID = productID
		questions[i].CreatedBy = act.userID
		if err := b.questions.Create(ctx, &questions[i]); err != nil {
			log.Printf("Error saving imported question: %v", err)
			rowErrors = append(rowErrors, fmt.Sprintf("вопрос «%.40s...»: ошибка сохранения", questions[i].Question))
			continue
		}
		imported++
	}

	delete(b.userStates, act.userID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Импортировано вопросов: %d\n", imported))
	if len(rowErrors) > 0 {
		sb.WriteString(fmt.Sprintf("\n❌ Пропущено строк: %d\n", len(rowErrors)))
		for _, e := range rowErrors {
			sb.WriteString("• " + e + "\n")
		}
	}
	b.send(act.chatID, sb.String(), backKeyboard("admin_panel"))
}

// --- stats ---

// showAdminStats shows system-wide counters
func (b *Bot) showAdminStats(ctx context.Context, act action) {
	users, err := b.users.Count(ctx)
	if err != nil {
		log.Printf("Error counting users: %v", err)
	}
	categories, _ := b.categories.Count(ctx)
	products, _ := b.products.Count(ctx)
	questions, _ := b.questions.Count(ctx)
	results, _ := b.results.Count(ctx)

	text := "📈 Статистика\n\n" +
		fmt.Sprintf("Пользователей: %d\n", users) +
		fmt.Sprintf("Категорий: %d\n", categories) +
		fmt.Sprintf("Продуктов: %d\n", products) +
		fmt.Sprintf("Вопросов: %d\n", questions) +
		fmt.Sprintf("Пройдено тестов: %d\n", results) +
		fmt.Sprintf("Время сервера: %s", time.Now().Format("2006-01-02 15:04:05"))

	b.editOrSend(act, text, backKeyboard("admin_panel"))
}

// lengthBetween reports whether s has between min and max runes inclusive
func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
