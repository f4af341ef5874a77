package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/mintin/internal/database"
	"github.com/example/mintin/internal/session"
	"github.com/example/mintin/pkg/models"
)

// Constants for callback data
const (
	callbackContinue = "continue"
	callbackStats    = "stats"
)

// recentReviews is the number of answers listed by /stats
const recentReviews = 5

const helpText = `Commands:
/next - continue the drill
/stats - show your progress
/remind on|off [hour] - daily reminder at the given UTC hour
/reset - restart the current round
/forget - clear your progress and start over

When asked for a prompt, just type the answer.`

func continueKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{{
		{Text: "▶️ Continue", CallbackData: callbackContinue},
		{Text: "📊 Stats", CallbackData: callbackStats},
	}})
}

// handleCommand dispatches bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		return b.handleStart(chatID)
	case "help":
		return b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
	case "next":
		return b.advance(chatID)
	case "stats":
		return b.handleStats(chatID)
	case "remind":
		return b.handleRemind(chatID, message.CommandArguments())
	case "reset":
		return b.handleReset(chatID)
	case "forget":
		return b.handleForget(chatID)
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see what I understand."))
	}
}

func (b *Bot) handleStart(chatID int64) error {
	err := b.chats.Upsert(&models.Chat{
		ChatID:              chatID,
		Deck:                Deck(chatID),
		NotificationEnabled: true,
		NotificationHour:    b.opts.DefaultNotificationHour,
	})
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Welcome! 🎓 The deck has %d entries.\n\n%s", len(b.catalog), helpText)
	if err := b.sendMessage(tgbotapi.NewMessage(chatID, text)); err != nil {
		return err
	}
	return b.resume(chatID)
}

// resume shows the pending message again, or starts the drill
func (b *Bot) resume(chatID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.session(chatID)
	if err != nil {
		return err
	}
	if last, ok := s.Last(); ok {
		return b.present(chatID, last)
	}
	msg, _, err := s.Continue()
	return b.reply(chatID, msg, err)
}

// advance moves past a Display or NotifyAssessment message, or repeats a pending prompt
func (b *Bot) advance(chatID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.session(chatID)
	if err != nil {
		return err
	}
	if last, ok := s.Last(); ok && last.Kind == session.Assess {
		return b.present(chatID, last)
	}
	msg, _, err := s.Continue()
	return b.reply(chatID, msg, err)
}

// handleText treats free text as the answer to a pending prompt
func (b *Bot) handleText(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.session(chatID)
	if err != nil {
		return err
	}
	if last, ok := s.Last(); !ok || last.Kind != session.Assess {
		msg := tgbotapi.NewMessage(chatID, "Nothing to answer right now. Press Continue or send /next.")
		msg.ReplyMarkup = continueKeyboard()
		return b.sendMessage(msg)
	}

	next, change, err := s.Answer(message.Text)
	if change != nil {
		if err := b.sendMessage(tgbotapi.NewMessage(chatID, feedback(change, b.catalog))); err != nil {
			return err
		}
	}
	return b.reply(chatID, next, err)
}

func feedback(change *session.Change, catalog []models.Item) string {
	if change.Pass {
		return "✅ Correct"
	}
	return "❌ Wrong. Answer: " + catalog[change.Index].Answer
}

// reply presents msg or explains err
func (b *Bot) reply(chatID int64, msg session.Message, err error) error {
	if errors.Is(err, session.ErrNothingToDrill) {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "🎉 Nothing to drill right now."))
	}
	if err != nil {
		return err
	}
	return b.present(chatID, msg)
}

// present renders a session message
func (b *Bot) present(chatID int64, msg session.Message) error {
	var out tgbotapi.MessageConfig
	switch msg.Kind {
	case session.Display:
		item := b.catalog[msg.Index]
		out = tgbotapi.NewMessage(chatID, fmt.Sprintf("📖 %s\n➡️ %s", item.Prompt, item.Answer))
		out.ReplyMarkup = continueKeyboard()
	case session.NotifyAssessment:
		out = tgbotapi.NewMessage(chatID, "📝 Self-check: type the answer to each of the following prompts.")
		out.ReplyMarkup = continueKeyboard()
	case session.Assess:
		out = tgbotapi.NewMessage(chatID, "❓ "+b.catalog[msg.Index].Prompt)
	default:
		return errors.Errorf("unknown message kind %v", msg.Kind)
	}
	return b.sendMessage(out)
}

func (b *Bot) handleStats(chatID int64) error {
	stats, err := b.stats.ForDeck(Deck(chatID))
	if err != nil {
		return err
	}

	b.mu.Lock()
	s, err := b.session(chatID)
	var failed, age int
	if err == nil {
		failed, age = s.Table().FailedCount(), s.Table().Age()
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	text := fmt.Sprintf("📊 Progress\n\n"+
		"Learned: %d of %d\n"+
		"To learn: %d\n"+
		"Answers: %d (%d correct, %d wrong, %.0f%%)\n"+
		"Age: %d",
		len(b.catalog)-failed, len(b.catalog),
		failed,
		stats.Total, stats.Passed, stats.Failed, stats.Accuracy(),
		age,
	)

	deck := Deck(chatID)
	recent, err := database.NewReviewRepository(b.db, deck).ListByDeck(deck, recentReviews)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		text += "\n\nLast answers:"
		for _, r := range recent {
			mark := "❌"
			if r.Pass {
				mark = "✅"
			}
			text += fmt.Sprintf("\n%s %s", mark, r.Prompt)
		}
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleRemind(chatID int64, args string) error {
	usage := "Usage: /remind on|off [hour 0-23]"
	fields := strings.Fields(strings.ToLower(args))
	if len(fields) == 0 || len(fields) > 2 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}

	var enabled bool
	switch fields[0] {
	case "on":
		enabled = true
	case "off":
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}

	chat, err := b.chats.GetByID(chatID)
	if errors.Is(err, database.ErrChatNotFound) {
		chat = &models.Chat{ChatID: chatID, Deck: Deck(chatID), NotificationHour: b.opts.DefaultNotificationHour}
		err = b.chats.Upsert(chat)
	}
	if err != nil {
		return err
	}

	hour := chat.NotificationHour
	if len(fields) == 2 {
		h, err := strconv.Atoi(fields[1])
		if err != nil || h < 0 || h > 23 {
			return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
		}
		hour = h
	}
	if err := b.chats.SetNotification(chatID, enabled, hour); err != nil {
		return err
	}

	text := "🔕 Reminders disabled"
	if enabled {
		text = fmt.Sprintf("🔔 Reminders enabled at %02d:00 UTC", hour)
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleReset(chatID int64) error {
	b.mu.Lock()
	s, err := b.session(chatID)
	if err == nil {
		s.Reset()
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	if err := b.sendMessage(tgbotapi.NewMessage(chatID, "🔄 Round restarted. Your progress is kept.")); err != nil {
		return err
	}
	return b.advance(chatID)
}

// handleForget drops the stored progress of a chat. The review journal is kept.
func (b *Bot) handleForget(chatID int64) error {
	b.mu.Lock()
	err := database.NewSnapshotRepository(b.db, Deck(chatID)).Delete()
	if err == nil {
		delete(b.sessions, chatID)
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	if err := b.sendMessage(tgbotapi.NewMessage(chatID, "🗑 Progress cleared. Starting from the beginning.")); err != nil {
		return err
	}
	return b.advance(chatID)
}

// handleCallback handles inline keyboard presses
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug("failed to answer callback", zap.Error(err))
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return errors.New("callback without message")
	}

	chatID := callback.Message.Chat.ID
	switch callback.Data {
	case callbackContinue:
		return b.advance(chatID)
	case callbackStats:
		return b.handleStats(chatID)
	default:
		return errors.Errorf("unknown callback data %q", callback.Data)
	}
}
