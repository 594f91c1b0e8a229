package models

import "time"

// Category groups products in the knowledge base
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	CreatedBy   int64     `json:"created_by" db:"created_by"` // Telegram ID of the admin who created it
}
