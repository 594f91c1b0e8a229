package database

import (
	"context"
	"fmt"

	"github.com/example/trainbot/pkg/models"
)

// ResultRepository handles database operations for test results
type ResultRepository struct{}

// NewResultRepository creates a new repository instance
func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

// SaveResult inserts a finalized quiz result. The completion timestamp is set
// by the database.
func (r *ResultRepository) SaveResult(ctx context.Context, result *models.TestResult) error {
	query := DB.Rebind(`
		INSERT INTO test_results (user_id, product_id, score, total_questions, correct_answers)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		result.UserID,
		result.ProductID,
		result.Score,
		result.TotalQuestions,
		result.CorrectAnswers,
	)
	if err != nil {
		return fmt.Errorf("failed to save test result: %v", err)
	}
	return nil
}

// GetRecentByUser returns the user's most recent results, newest first
func (r *ResultRepository) GetRecentByUser(ctx context.Context, userID int64, limit int) ([]models.TestResultListing, error) {
	var results []models.TestResultListing
	query := DB.Rebind(`
		SELECT tr.score, tr.total_questions, tr.correct_answers, tr.completed_at, p.name AS product_name
		FROM test_results tr
		INNER JOIN products p ON tr.product_id = p.id
		WHERE tr.user_id = ?
		ORDER BY tr.completed_at DESC
		LIMIT ?
	`)
	if err := DB.SelectContext(ctx, &results, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get test results: %v", err)
	}
	return results, nil
}

// Count returns the total number of stored results
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM test_results"); err != nil {
		return 0, fmt.Errorf("failed to count test results: %v", err)
	}
	return count, nil
}
