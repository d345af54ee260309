// Package bot is the Telegram surface of the review scheduler: a flashcard
// flow over inline keyboards, due-count summaries, and reminder delivery.
// Learners are linked to their Telegram chat id on first contact.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/pkg/models"
)

// MenuButton is one inline-keyboard button.
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard builds an inline keyboard from button rows.
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

// Bot runs the Telegram side of the app.
type Bot struct {
	api      *tgbotapi.BotAPI
	token    string
	progress *progress.Service
	learners *database.LearnerRepository
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*reviewSession
}

// New wires a bot. The Telegram connection is established in Start.
func New(token string, prog *progress.Service, learners *database.LearnerRepository, logger *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		token:    token,
		progress: prog,
		learners: learners,
		logger:   logger,
		sessions: make(map[int64]*reviewSession),
	}, nil
}

// Start connects to Telegram and blocks handling updates until Stop is
// called.
func (b *Bot) Start() error {
	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.api = api
	b.logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	if err := b.setupCommands(); err != nil {
		b.logger.Warn("failed to register bot commands", zap.Error(err))
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		go b.handleUpdate(update)
	}
	return nil
}

// Stop closes the update stream; Start returns once in-flight updates drain.
func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.logger.Info("telegram bot stopped")
}

func (b *Bot) setupCommands() error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "🏠 Welcome and setup"},
		{Command: "review", Description: "🃏 Review your due cards"},
		{Command: "due", Description: "📋 What is waiting for you"},
		{Command: "stats", Description: "📊 Your progress"},
	}
	_, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...))
	return err
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"I only understand commands. Try /review or /due."))
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	learner, err := b.learnerFor(ctx, message.From, chatID)
	if err != nil {
		b.logger.Error("resolve learner", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
		return
	}

	switch message.Command() {
	case "start":
		b.handleStartCommand(chatID, learner)
	case "review":
		b.startReviewSession(ctx, chatID, learner)
	case "due":
		b.handleDueCommand(ctx, chatID, learner)
	case "stats":
		b.handleStatsCommand(ctx, chatID, learner)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Try /review, /due or /stats."))
	}
}

// learnerFor finds the learner bound to the chat, registering one on first
// contact. Bot-registered learners get reminders switched on.
func (b *Bot) learnerFor(ctx context.Context, from *tgbotapi.User, chatID int64) (*models.Learner, error) {
	learner, err := b.learners.GetByChatID(ctx, chatID)
	if err == nil {
		return learner, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	name := ""
	if from != nil {
		name = strings.TrimSpace(from.FirstName + " " + from.LastName)
		if name == "" {
			name = from.UserName
		}
	}
	if name == "" {
		name = "Learner"
	}
	learner = &models.Learner{
		DisplayName:         name,
		ChatID:              chatID,
		NotificationEnabled: true,
	}
	if err := b.learners.Create(ctx, learner); err != nil {
		return nil, err
	}
	b.logger.Info("registered learner from telegram",
		zap.String("learner_id", learner.ID),
		zap.Int64("chat_id", chatID))
	return learner, nil
}

func (b *Bot) handleStartCommand(chatID int64, learner *models.Learner) {
	text := fmt.Sprintf(`Hola %s! 🎓

I keep track of the words you are learning and bring each one back right before you would forget it.

/review - go through today's cards
/due - see what is waiting
/stats - see how far you have come`, learner.DisplayName)
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleDueCommand(ctx context.Context, chatID int64, learner *models.Learner) {
	counts, err := b.progress.DueCounts(ctx, learner.ID, time.Now())
	if err != nil {
		b.logger.Error("due counts", zap.String("learner_id", learner.ID), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "Could not load your due counts, please try again."))
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatDueCounts(counts))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) handleStatsCommand(ctx context.Context, chatID int64, learner *models.Learner) {
	summary, err := b.progress.Summary(ctx, learner.ID, time.Now())
	if err != nil {
		b.logger.Error("summary", zap.String("learner_id", learner.ID), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "Could not load your stats, please try again."))
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatSummary(learner.DisplayName, summary))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

// SendReminder tells a learner how much work is waiting. It implements the
// reminder service's notifier.
func (b *Bot) SendReminder(chatID int64, dueCount int) error {
	if b.api == nil {
		return fmt.Errorf("bot is not started")
	}
	text := fmt.Sprintf("⏰ You have %d card(s) ready for review. A few minutes now keeps them fresh - /review", dueCount)
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send reminder to chat %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("telegram send failed", zap.Error(err))
	}
}
