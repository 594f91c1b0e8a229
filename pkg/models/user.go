package models

import "time"

// User represents a Telegram user interacting with the bot
type User struct {
	TelegramID   int64     `json:"telegram_id" db:"telegram_id"` // Telegram User ID
	Username     string    `json:"username" db:"username"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`
}
