package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// ErrChatNotFound is returned for chats that never started a drill
var ErrChatNotFound = errors.New("database: chat not found")

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository creates a new repository instance
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Upsert registers a chat. Notification settings of a known chat are kept.
func (r *ChatRepository) Upsert(chat *models.Chat) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO chats (chat_id, deck, notification_enabled, notification_hour, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			deck = excluded.deck,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(r.db.Rebind(query),
		chat.ChatID,
		chat.Deck,
		chat.NotificationEnabled,
		chat.NotificationHour,
		now,
		now,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert chat")
	}
	return nil
}

// GetByID returns a chat by its Telegram ID
func (r *ChatRepository) GetByID(chatID int64) (*models.Chat, error) {
	var chat models.Chat
	query := "SELECT chat_id, deck, notification_enabled, notification_hour, created_at, updated_at FROM chats WHERE chat_id = ?"
	err := r.db.Get(&chat, r.db.Rebind(query), chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chat by ID")
	}
	return &chat, nil
}

// SetNotification updates the reminder settings of a chat
func (r *ChatRepository) SetNotification(chatID int64, enabled bool, hour int) error {
	query := "UPDATE chats SET notification_enabled = ?, notification_hour = ?, updated_at = ? WHERE chat_id = ?"
	res, err := r.db.Exec(r.db.Rebind(query), enabled, hour, time.Now().UTC(), chatID)
	if err != nil {
		return errors.Wrap(err, "failed to update notification settings")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrChatNotFound
	}
	return nil
}

// ListForNotification returns the chats that want a reminder at hour
func (r *ChatRepository) ListForNotification(hour int) ([]models.Chat, error) {
	var chats []models.Chat
	query := `
		SELECT chat_id, deck, notification_enabled, notification_hour, created_at, updated_at
		FROM chats
		WHERE notification_enabled = ? AND notification_hour = ?
		ORDER BY chat_id
	`
	if err := r.db.Select(&chats, r.db.Rebind(query), true, hour); err != nil {
		return nil, errors.Wrap(err, "failed to get chats for notification")
	}
	return chats, nil
}
