// Package bot drives one drill session per Telegram chat.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/mintin/internal/database"
	"github.com/example/mintin/internal/progress"
	"github.com/example/mintin/internal/session"
	"github.com/example/mintin/pkg/models"
)

// Sender is the part of tgbotapi.BotAPI the bot talks through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options configures the sessions the bot creates
type Options struct {
	AssessBatch             int
	LearnBatch              int
	Classic                 bool
	DefaultNotificationHour int
}

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

// Bot represents the Telegram bot application
type Bot struct {
	api     Sender
	db      *sqlx.DB
	catalog []models.Item
	opts    Options
	chats   *database.ChatRepository
	stats   *database.StatisticsRepository
	logger  *zap.Logger

	// mu guards sessions; the scheduler reads pending counts concurrently
	mu       sync.Mutex
	sessions map[int64]*session.Session
}

// New creates a new bot instance drilling catalog
func New(api Sender, db *sqlx.DB, catalog []models.Item, opts Options, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:      api,
		db:       db,
		catalog:  catalog,
		opts:     opts,
		chats:    database.NewChatRepository(db),
		stats:    database.NewStatisticsRepository(db),
		logger:   logger.Named("bot"),
		sessions: make(map[int64]*session.Session),
	}
}

// Deck returns the name the progress of a chat is stored under
func Deck(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

// Start handles updates one at a time, in arrival order, until ctx is
// cancelled or the channel is closed. Answers are graded against the prompt
// they were typed for only if they are applied in that order.
func (b *Bot) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	b.logger.Info("bot started", zap.Int("catalog_size", len(b.catalog)))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// session returns the session of a chat, opening its stored progress on first use.
// The caller holds b.mu.
func (b *Bot) session(chatID int64) (*session.Session, error) {
	if s, ok := b.sessions[chatID]; ok {
		return s, nil
	}

	deck := Deck(chatID)
	store := database.NewSnapshotRepository(b.db, deck)
	table, err := progress.Open(store, b.catalog, models.DefaultScoreArgs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open progress of %s", deck)
	}
	s, err := session.New(table, b.catalog, session.Options{
		Classic:     b.opts.Classic,
		AssessBatch: b.opts.AssessBatch,
		LearnBatch:  b.opts.LearnBatch,
		Store:       store,
		Journal:     database.NewReviewRepository(b.db, deck),
		Logger:      b.logger.With(zap.Int64("chat_id", chatID)),
	})
	if err != nil {
		return nil, err
	}
	b.sessions[chatID] = s
	return s, nil
}

// Pending returns the number of failed-pool entries of a chat.
// It implements scheduler.PendingCounter.
func (b *Bot) Pending(chat models.Chat) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.session(chat.ChatID)
	if err != nil {
		return 0, err
	}
	return s.Table().FailedCount(), nil
}

// SendReminder asks a chat to come back and drill.
// It implements scheduler.Notifier.
func (b *Bot) SendReminder(chatID int64, pending int) error {
	word := "entries"
	if pending == 1 {
		word = "entry"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⏰ You have %d %s left to learn. Ready for a round?", pending, word))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "▶️ Continue", CallbackData: callbackContinue}}})
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrapf(err, "failed to send reminder to chat %d", chatID)
	}
	b.logger.Debug("reminder sent", zap.Int64("chat_id", chatID), zap.Int("pending", pending))
	return nil
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		if update.Message.IsCommand() {
			err = b.handleCommand(update.Message)
		} else {
			err = b.handleText(update.Message)
		}
	case update.CallbackQuery != nil:
		err = b.handleCallback(update.CallbackQuery)
	}
	if err != nil {
		b.logger.Error("failed to handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send message")
	}
	return nil
}
