package database

import (
	"context"
	"fmt"

	"github.com/example/trainbot/pkg/models"
)

// QuestionRepository handles database operations for test questions
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// QuestionsByProduct returns all questions for a product in their fixed
// catalog order.
func (r *QuestionRepository) QuestionsByProduct(ctx context.Context, productID int64) ([]models.TestQuestion, error) {
	var questions []models.TestQuestion
	query := DB.Rebind(`
		SELECT id, product_id, question, option_a, option_b, option_c, option_d, correct_answer, created_at, created_by
		FROM test_questions
		WHERE product_id = ?
		ORDER BY id
	`)
	if err := DB.SelectContext(ctx, &questions, query, productID); err != nil {
		return nil, fmt.Errorf("failed to get questions: %v", err)
	}
	return questions, nil
}

// CountByProduct returns how many questions a product has
func (r *QuestionRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM test_questions WHERE product_id = ?")
	if err := DB.GetContext(ctx, &count, query, productID); err != nil {
		return 0, fmt.Errorf("failed to count questions: %v", err)
	}
	return count, nil
}

// Create inserts a new question
func (r *QuestionRepository) Create(ctx context.Context, question *models.TestQuestion) error {
	query := DB.Rebind(`
		INSERT INTO test_questions (product_id, question, option_a, option_b, option_c, option_d, correct_answer, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		question.ProductID,
		question.Question,
		question.OptionA,
		question.OptionB,
		question.OptionC,
		question.OptionD,
		question.CorrectAnswer,
		question.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %v", err)
	}
	return nil
}

// Count returns the total number of questions
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM test_questions"); err != nil {
		return 0, fmt.Errorf("failed to count questions: %v", err)
	}
	return count, nil
}
