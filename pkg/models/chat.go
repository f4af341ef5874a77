package models

import "time"

// Chat represents a Telegram chat drilling through the bot
type Chat struct {
	ChatID              int64     `json:"chat_id" db:"chat_id"`
	Deck                string    `json:"deck" db:"deck"`
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23)
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
