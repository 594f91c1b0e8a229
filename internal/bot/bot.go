package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/trainbot/internal/database"
	"github.com/example/trainbot/internal/quiz"
	"github.com/example/trainbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UserState represents the current state of an admin in a multi-step dialog
type UserState struct {
	Action    string
	Step      int
	Timestamp time.Time
	Data      map[string]string
}

// action is the normalized form of an incoming update. Commands and
// callback-button presses are reduced to the same shape before routing.
type action struct {
	kind       string // "command", "callback", "text", "document"
	name       string // command name or callback data
	text       string // raw message text
	userID     int64
	chatID     int64
	messageID  int // message carrying the inline keyboard, 0 for plain messages
	callbackID string
	isAdmin    bool
	document   *tgbotapi.Document
	photo      []tgbotapi.PhotoSize
	from       *tgbotapi.User
}

// telegramClient is the slice of the Telegram API the handlers use
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api        telegramClient
	config     *BotConfig
	engine     *quiz.Engine
	users      *database.UserRepository
	categories *database.CategoryRepository
	products   *database.ProductRepository
	questions  *database.QuestionRepository
	results    *database.ResultRepository
	userStates map[int64]UserState
}

// New creates a new bot instance
func New(config *BotConfig, store quiz.Store) (*Bot, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	questions := database.NewQuestionRepository()
	results := database.NewResultRepository()

	return &Bot{
		config:     config,
		engine:     quiz.NewEngine(store, questions, results),
		users:      database.NewUserRepository(),
		categories: database.NewCategoryRepository(),
		products:   database.NewProductRepository(),
		questions:  questions,
		results:    results,
		userStates: make(map[int64]UserState),
	}, nil
}

// Start connects to Telegram and processes updates until ctx is cancelled.
// Updates are handled one at a time: every handler runs to completion
// before the next update is looked at, so no handler races another.
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.config.Token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}

	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			log.Println("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate normalizes an update and routes the resulting action
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	act, ok := b.normalize(update)
	if !ok {
		return
	}

	// Every interaction refreshes the user record and their activity time
	if _, err := b.users.GetOrCreate(ctx, &models.User{
		TelegramID: act.from.ID,
		Username:   act.from.UserName,
		FirstName:  act.from.FirstName,
		LastName:   act.from.LastName,
	}); err != nil {
		log.Printf("Error upserting user %d: %v", act.from.ID, err)
	}

	b.route(ctx, act)
}

// normalize reduces a Telegram update to a single action value.
// The admin flag is computed here, once per update, and carried on
// the action so handlers never consult the config directly.
func (b *Bot) normalize(update tgbotapi.Update) (action, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		act := action{
			text:    msg.Text,
			userID:  msg.From.ID,
			chatID:  msg.Chat.ID,
			isAdmin: b.config.IsAdmin(msg.From.ID),
			from:    msg.From,
		}
		switch {
		case msg.IsCommand():
			act.kind = "command"
			act.name = msg.Command()
		case msg.Document != nil:
			act.kind = "document"
			act.document = msg.Document
		default:
			act.kind = "text"
			act.photo = msg.Photo
		}
		return act, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		cb := update.CallbackQuery
		return action{
			kind:       "callback",
			name:       cb.Data,
			userID:     cb.From.ID,
			chatID:     cb.Message.Chat.ID,
			messageID:  cb.Message.MessageID,
			callbackID: cb.ID,
			isAdmin:    b.config.IsAdmin(cb.From.ID),
			from:       cb.From,
		}, true
	}
	return action{}, false
}

// route dispatches a normalized action to its handler
func (b *Bot) route(ctx context.Context, act action) {
	switch act.kind {
	case "command":
		b.routeCommand(ctx, act)
	case "callback":
		b.routeCallback(ctx, act)
	case "text":
		b.routeText(ctx, act)
	case "document":
		b.routeDocument(ctx, act)
	}
}

func (b *Bot) routeCommand(ctx context.Context, act action) {
	switch act.name {
	case "start":
		delete(b.userStates, act.userID)
		b.showWelcome(act)
	case "menu":
		delete(b.userStates, act.userID)
		b.showMainMenu(act)
	case "cancel":
		delete(b.userStates, act.userID)
		b.send(act.chatID, "Действие отменено.", mainMenuKeyboard(act.isAdmin))
	case "admin":
		if !act.isAdmin {
			b.send(act.chatID, accessDeniedText, nil)
			return
		}
		b.showAdminPanel(act)
	default:
		b.send(act.chatID, "Unknown command. Use /menu to show the main menu.", mainMenuKeyboard(act.isAdmin))
	}
}

func (b *Bot) routeCallback(ctx context.Context, act action) {
	name, arg := splitCallback(act.name)

	// Admin-only callbacks all share the admin_ prefix; the gate lives
	// here so individual handlers can assume an authorized caller. The
	// denial is a popup alert, the screen under the button stays put.
	if strings.HasPrefix(name, "admin_") && !act.isAdmin {
		b.alertCallback(act.callbackID, accessDeniedText)
		return
	}
	defer b.answerCallback(act.callbackID)

	switch name {
	case "main_menu":
		delete(b.userStates, act.userID)
		b.editOrSend(act, mainMenuText(act.from.FirstName), mainMenuKeyboard(act.isAdmin))
	case "noop":
		// progress indicator button, nothing to do
	case "knowledge_base":
		b.showKnowledgeBase(ctx, act)
	case "view_category":
		b.showCategoryProducts(ctx, act, arg)
	case "view_product":
		b.showProduct(ctx, act, arg)
	case "search":
		b.startSearch(act)
	case "take_test":
		b.showTestCategories(ctx, act)
	case "test_category":
		b.showTestProducts(ctx, act, arg)
	case "start_test":
		b.startTest(ctx, act, arg)
	case "answer":
		b.handleAnswer(ctx, act, arg)
	case "current_test":
		b.showCurrentQuestion(ctx, act, arg)
	case "my_results":
		b.showMyResults(ctx, act)
	case "admin_panel":
		b.showAdminPanel(act)
	case "admin_categories":
		b.showAdminCategories(ctx, act)
	case "admin_add_category":
		b.startAddCategory(act)
	case "admin_delete_category":
		b.deleteCategory(ctx, act, arg)
	case "admin_products":
		b.showAdminProducts(ctx, act)
	case "admin_add_product":
		b.startAddProduct(ctx, act)
	case "admin_product_category":
		b.chooseProductCategory(act, arg)
	case "admin_delete_product":
		b.deleteProduct(ctx, act, arg)
	case "admin_add_question":
		b.startAddQuestion(ctx, act)
	case "admin_question_product":
		b.chooseQuestionProduct(ctx, act, arg)
	case "admin_import":
		b.startImport(ctx, act)
	case "admin_import_product":
		b.chooseImportProduct(act, arg)
	case "admin_stats":
		b.showAdminStats(ctx, act)
	default:
		log.Printf("Unknown callback from user %d: %s", act.userID, act.name)
	}
}

// routeText feeds free-form text into whatever dialog the user is in
func (b *Bot) routeText(ctx context.Context, act action) {
	state, exists := b.userStates[act.userID]
	if !exists {
		b.send(act.chatID, "Используйте /menu для вызова главного меню.", mainMenuKeyboard(act.isAdmin))
		return
	}

	switch state.Action {
	case "search":
		b.handleSearchQuery(ctx, act)
	case "add_category":
		b.handleAddCategoryStep(ctx, act, state)
	case "add_product":
		b.handleAddProductStep(ctx, act, state)
	case "add_question":
		b.handleAddQuestionStep(ctx, act, state)
	default:
		delete(b.userStates, act.userID)
		b.send(act.chatID, "Используйте /menu для вызова главного меню.", mainMenuKeyboard(act.isAdmin))
	}
}

func (b *Bot) routeDocument(ctx context.Context, act action) {
	state, exists := b.userStates[act.userID]
	if !exists {
		b.send(act.chatID, "Используйте /menu для вызова главного меню.", mainMenuKeyboard(act.isAdmin))
		return
	}
	if !act.isAdmin {
		delete(b.userStates, act.userID)
		b.send(act.chatID, accessDeniedText, nil)
		return
	}
	switch state.Action {
	case "import_questions":
		b.handleImportDocument(ctx, act, state)
	case "add_product":
		// the document step of the add-product dialog
		b.handleAddProductStep(ctx, act, state)
	default:
		b.send(act.chatID, "Используйте /menu для вызова главного меню.", mainMenuKeyboard(act.isAdmin))
	}
}

// splitCallback splits "name:arg" callback data into its parts
func splitCallback(data string) (string, string) {
	if idx := strings.Index(data, ":"); idx >= 0 {
		return data[:idx], data[idx+1:]
	}
	return data, ""
}

// showWelcome greets the user and shows the main menu
func (b *Bot) showWelcome(act action) {
	b.send(act.chatID, mainMenuText(act.from.FirstName), mainMenuKeyboard(act.isAdmin))
}

// showMainMenu shows the main menu as a fresh message
func (b *Bot) showMainMenu(act action) {
	b.send(act.chatID, mainMenuText(act.from.FirstName), mainMenuKeyboard(act.isAdmin))
}
