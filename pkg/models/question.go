package models

import "time"

// TestQuestion is a multiple choice question attached to a product.
// CorrectAnswer is one of "A", "B", "C" or "D".
type TestQuestion struct {
	ID            int64     `json:"id" db:"id"`
	ProductID     int64     `json:"product_id" db:"product_id"`
	Question      string    `json:"question" db:"question"`
	OptionA       string    `json:"option_a" db:"option_a"`
	OptionB       string    `json:"option_b" db:"option_b"`
	OptionC       string    `json:"option_c" db:"option_c"`
	OptionD       string    `json:"option_d" db:"option_d"`
	CorrectAnswer string    `json:"correct_answer" db:"correct_answer"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	CreatedBy     int64     `json:"created_by" db:"created_by"`
}
