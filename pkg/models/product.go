package models

import "time"

// Product is a single knowledge base entry users can study and get tested on
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	CategoryID     int64     `json:"category_id" db:"category_id"`
	ImageFileID    string    `json:"image_file_id" db:"image_file_id"`       // Telegram file ID
	DocumentFileID string    `json:"document_file_id" db:"document_file_id"` // Telegram file ID
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	CreatedBy      int64     `json:"created_by" db:"created_by"`
}

// ProductListing is a product row joined with its category name and question count
type ProductListing struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	CategoryName  string `json:"category_name" db:"category_name"`
	QuestionCount int    `json:"question_count" db:"question_count"`
}
