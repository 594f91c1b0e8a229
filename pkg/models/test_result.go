package models

import "time"

// TestResult stores the outcome of one completed quiz
type TestResult struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"` // Telegram ID
	ProductID      int64     `json:"product_id" db:"product_id"`
	Score          float64   `json:"score" db:"score"` // Percentage, 0-100
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	CompletedAt    time.Time `json:"completed_at" db:"completed_at"`
}

// TestResultListing is a result row joined with the product name for display
type TestResultListing struct {
	Score          float64   `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	CompletedAt    time.Time `json:"completed_at" db:"completed_at"`
	ProductName    string    `json:"product_name" db:"product_name"`
}
